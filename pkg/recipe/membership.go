package recipe

import (
	"context"
	"errors"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/pkg/follow"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var markErrors = map[domain.MarkKind]struct {
	present error
	absent  error
}{
	domain.MarkFavorite:     {domain.ErrAlreadyFavorited, domain.ErrNotFavorited},
	domain.MarkShoppingCart: {domain.ErrAlreadyInShoppingCart, domain.ErrNotInShoppingCart},
}

// markModel returns the row type backing the membership set of kind.
func markModel(kind domain.MarkKind, userID, recipeID uuid.UUID) any {
	if kind == domain.MarkShoppingCart {
		return &entities.ShoppingCart{UserID: userID, RecipeID: recipeID}
	}
	return &entities.FavoriteRecipe{UserID: userID, RecipeID: recipeID}
}

func (r *recipeRepository) AddMark(ctx context.Context, kind domain.MarkKind, userID, recipeID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(markModel(kind, uuid.Nil, uuid.Nil)).
			Where("user_id = ? AND recipe_id = ?", userID, recipeID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return markErrors[kind].present
		}

		if err := tx.Create(markModel(kind, userID, recipeID)).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return markErrors[kind].present
			}
			return err
		}
		return nil
	})
}

func (r *recipeRepository) RemoveMark(ctx context.Context, kind domain.MarkKind, userID, recipeID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(markModel(kind, uuid.Nil, uuid.Nil))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return markErrors[kind].absent
	}
	return nil
}

func (r *recipeRepository) GetMarkedIDs(ctx context.Context, kind domain.MarkKind, userID string, recipeIDs []string) (map[string]bool, error) {
	marked := make(map[string]bool)
	if userID == "" || len(recipeIDs) == 0 {
		return marked, nil
	}

	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(markModel(kind, uuid.Nil, uuid.Nil)).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		marked[id.String()] = true
	}
	return marked, nil
}

// SetMembership adds the recipe to the user's favorites or cart when present
// is true and removes it otherwise. Adding returns the short recipe view.
func (s *recipeService) SetMembership(ctx context.Context, kind domain.MarkKind, userID, recipeID string, present bool) (*domain.RecipeShort, error) {
	if _, ok := markErrors[kind]; !ok {
		return nil, domain.Validation("unknown membership " + string(kind))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	if !present {
		if err := s.recipeRepository.RemoveMark(ctx, kind, userUUID, recipe.ID); err != nil {
			return nil, err
		}
		log.Infow("recipe unmarked", "kind", kind, "user_id", userID, "recipe_id", recipeID)
		return nil, nil
	}

	if err := s.recipeRepository.AddMark(ctx, kind, userUUID, recipe.ID); err != nil {
		return nil, err
	}
	log.Infow("recipe marked", "kind", kind, "user_id", userID, "recipe_id", recipeID)

	short := follow.NewRecipeShort(recipe)
	return &short, nil
}
