package ingredient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	IngredientService interface {
		GetIngredients(ctx context.Context, namePrefix string) ([]domain.IngredientResponse, error)
		GetIngredient(ctx context.Context, id string) (domain.IngredientResponse, error)
		LoadFixture(ctx context.Context, path string) (domain.LoadIngredientsResult, error)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
	}
)

func NewIngredientService(ingredientRepository IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepository: ingredientRepository}
}

func (s *ingredientService) GetIngredients(ctx context.Context, namePrefix string) ([]domain.IngredientResponse, error) {
	ingredients, err := s.ingredientRepository.GetIngredients(ctx, namePrefix)
	if err != nil {
		return nil, err
	}

	res := make([]domain.IngredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		res = append(res, NewIngredientResponse(ingredient))
	}
	return res, nil
}

func (s *ingredientService) GetIngredient(ctx context.Context, id string) (domain.IngredientResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.IngredientResponse{}, domain.ErrIngredientMissing
	}

	ingredient, err := s.ingredientRepository.GetIngredientByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.IngredientResponse{}, domain.ErrIngredientMissing
		}
		return domain.IngredientResponse{}, err
	}
	return NewIngredientResponse(ingredient), nil
}

// LoadFixture reads a JSON array of {name, measurement_unit} records and
// inserts the ones whose name is not stored yet. Existing rows are left as
// they are. A missing or malformed file writes nothing.
func (s *ingredientService) LoadFixture(ctx context.Context, path string) (domain.LoadIngredientsResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.LoadIngredientsResult{}, fmt.Errorf("%w: %s", domain.ErrFixtureNotFound, path)
		}
		return domain.LoadIngredientsResult{}, err
	}

	var records []domain.IngredientFixtureRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return domain.LoadIngredientsResult{}, fmt.Errorf("%w: %v", domain.ErrFixtureInvalid, err)
	}

	seen := make(map[string]struct{}, len(records))
	ingredients := make([]*entities.Ingredient, 0, len(records))
	for i, record := range records {
		record.Name = strings.TrimSpace(record.Name)
		record.MeasurementUnit = strings.TrimSpace(record.MeasurementUnit)
		if err := utils.Validate.Struct(record); err != nil {
			return domain.LoadIngredientsResult{}, fmt.Errorf("%w: record %d: %v", domain.ErrFixtureRecordInvalid, i, err)
		}
		if _, dup := seen[record.Name]; dup {
			continue
		}
		seen[record.Name] = struct{}{}

		ingredients = append(ingredients, &entities.Ingredient{
			ID:              uuid.New(),
			Name:            record.Name,
			MeasurementUnit: record.MeasurementUnit,
		})
	}

	inserted, err := s.ingredientRepository.InsertIgnoringDuplicates(ctx, ingredients)
	if err != nil {
		return domain.LoadIngredientsResult{}, err
	}

	log.Infow("ingredient fixture loaded", "path", path, "records", len(records), "inserted", inserted)
	return domain.LoadIngredientsResult{Total: len(records), Inserted: inserted}, nil
}

func NewIngredientResponse(ingredient *entities.Ingredient) domain.IngredientResponse {
	return domain.IngredientResponse{
		ID:              ingredient.ID.String(),
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit,
	}
}
