package domain

var (
	MessageSuccessGetRecipes         = "success get recipes"
	MessageSuccessGetRecipeDetail    = "success get recipe detail"
	MessageSuccessCreateRecipe       = "recipe created successfully"
	MessageSuccessUpdateRecipe       = "recipe updated successfully"
	MessageSuccessAddFavorite        = "recipe added to favorites"
	MessageSuccessRemoveFavorite     = "recipe removed from favorites"
	MessageSuccessAddShoppingCart    = "recipe added to shopping cart"
	MessageSuccessRemoveShoppingCart = "recipe removed from shopping cart"
	MessageSuccessSendShoppingList   = "shopping list sent successfully"

	MessageFailedGetRecipes         = "failed to get recipes"
	MessageFailedGetRecipeDetail    = "failed to get recipe detail"
	MessageFailedCreateRecipe       = "failed to create recipe"
	MessageFailedUpdateRecipe       = "failed to update recipe"
	MessageFailedDeleteRecipe       = "failed to delete recipe"
	MessageFailedAddFavorite        = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite     = "failed to remove recipe from favorites"
	MessageFailedAddShoppingCart    = "failed to add recipe to shopping cart"
	MessageFailedRemoveShoppingCart = "failed to remove recipe from shopping cart"
	MessageFailedDownloadCart       = "failed to download shopping list"
	MessageFailedSendShoppingList   = "failed to send shopping list"

	ErrRecipeNotFound           = NotFound("recipe not found")
	ErrUnauthorizedRecipeAccess = Forbidden("only the author can change this recipe")
	ErrRecipeNameAlreadyExists  = Conflict("recipe with this name already exists")
	ErrInvalidCookingTime       = Validation("cooking time must be at least 1 minute")
	ErrInvalidAmount            = Validation("ingredient amount must be at least 1")
	ErrNoIngredients            = Validation("at least one ingredient is required")
	ErrDuplicateIngredient      = Validation("ingredients must not repeat")
	ErrNoTags                   = Validation("at least one tag is required")
	ErrInvalidImage             = Validation("image must be a base64 encoded picture")
	ErrImageRequired            = Validation("image is required")

	ErrAlreadyFavorited      = Conflict("recipe is already in favorites")
	ErrNotFavorited          = NotFound("recipe is not in favorites")
	ErrAlreadyInShoppingCart = Conflict("recipe is already in the shopping cart")
	ErrNotInShoppingCart     = NotFound("recipe is not in the shopping cart")
	ErrShoppingCartEmpty     = Precondition("shopping cart is empty")
)

const ShoppingListFilename = "cart.txt"

// MarkKind selects one of the per-user recipe membership sets.
type MarkKind string

const (
	MarkFavorite     MarkKind = "favorite"
	MarkShoppingCart MarkKind = "shopping_cart"
)

type (
	RecipeIngredientRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"required,min=1"`
	}

	RecipeCreateRequest struct {
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required,min=1"`
		Image       string                    `json:"image" validate:"required,base64image"`
		Tags        []string                  `json:"tags" validate:"required,min=1,dive,uuid"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
	}

	// RecipeUpdateRequest patches scalar fields that are set and always
	// replaces tags and ingredients.
	RecipeUpdateRequest struct {
		Name        *string                   `json:"name" validate:"omitempty,min=1,max=200"`
		Text        *string                   `json:"text" validate:"omitempty,min=1"`
		CookingTime *int                      `json:"cooking_time" validate:"omitempty,min=1"`
		Image       *string                   `json:"image" validate:"omitempty,base64image"`
		Tags        []string                  `json:"tags" validate:"required,min=1,dive,uuid"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
	}

	RecipeFilter struct {
		AuthorID         string
		Tags             []string
		IsFavorited      *int
		IsInShoppingCart *int
		Page             int
		Limit            int
	}

	RecipeIngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeResponse struct {
		ID               string                     `json:"id"`
		Name             string                     `json:"name"`
		Text             string                     `json:"text"`
		CookingTime      int                        `json:"cooking_time"`
		Image            string                     `json:"image"`
		Author           UserResponse               `json:"author"`
		Tags             []TagResponse              `json:"tags"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	}

	RecipeShort struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	ShoppingListItem struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		TotalAmount     int64  `json:"total_amount"`
	}
)
