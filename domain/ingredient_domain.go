package domain

var (
	MessageSuccessGetIngredients = "success get ingredients"
	MessageSuccessGetIngredient  = "success get ingredient"

	MessageFailedGetIngredients = "failed to get ingredients"
	MessageFailedGetIngredient  = "failed to get ingredient"

	ErrIngredientNotFound   = Validation("referenced ingredient not found")
	ErrIngredientMissing    = NotFound("ingredient not found")
	ErrFixtureNotFound      = Configuration("ingredient fixture file not found")
	ErrFixtureInvalid       = Configuration("ingredient fixture is not valid JSON")
	ErrFixtureRecordInvalid = Configuration("ingredient fixture record is invalid")
)

type (
	IngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}

	// IngredientFixtureRecord is one entry of the ingredients JSON fixture.
	IngredientFixtureRecord struct {
		Name            string `json:"name" validate:"required,max=150"`
		MeasurementUnit string `json:"measurement_unit" validate:"required,max=20"`
	}

	LoadIngredientsResult struct {
		Total    int   `json:"total"`
		Inserted int64 `json:"inserted"`
	}
)
