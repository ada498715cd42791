package recipe

import (
	"context"
	"errors"
	"fmt"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	// MembershipFilter keeps recipes the user has (Present) or has not marked.
	MembershipFilter struct {
		UserID  string
		Present bool
	}

	RecipeQuery struct {
		AuthorID string
		TagSlugs []string
		Favorite *MembershipFilter
		Cart     *MembershipFilter
		Page     int
		Limit    int
	}

	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, lines []*entities.RecipeIngredient, tagIDs []uuid.UUID) error
		UpdateRecipe(ctx context.Context, recipeID uuid.UUID, fields map[string]any, lines []*entities.RecipeIngredient, tagIDs []uuid.UUID) error
		DeleteRecipe(ctx context.Context, recipeID uuid.UUID) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, query RecipeQuery) ([]*entities.Recipe, int64, error)
		GetRecipesByAuthor(ctx context.Context, authorID string, limit int) ([]*entities.Recipe, error)
		CountRecipesByAuthor(ctx context.Context, authorID string) (int64, error)

		AddMark(ctx context.Context, kind domain.MarkKind, userID, recipeID uuid.UUID) error
		RemoveMark(ctx context.Context, kind domain.MarkKind, userID, recipeID uuid.UUID) error
		GetMarkedIDs(ctx context.Context, kind domain.MarkKind, userID string, recipeIDs []string) (map[string]bool, error)

		GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, lines []*entities.RecipeIngredient, tagIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, tagIDs)
		if err != nil {
			return err
		}
		if err := resolveIngredients(tx, lines); err != nil {
			return err
		}
		if err := checkNameFree(tx, recipe.Name, uuid.Nil); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return translateRecipeError(err)
		}
		if err := insertLines(tx, recipe.ID, lines); err != nil {
			return err
		}
		return tx.Model(recipe).Association("Tags").Replace(tags)
	})
}

// UpdateRecipe patches the given columns and replaces the ingredient lines
// and tags of the recipe as one unit.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipeID uuid.UUID, fields map[string]any, lines []*entities.RecipeIngredient, tagIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe := &entities.Recipe{ID: recipeID}
		if err := tx.Select("id").First(recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRecipeNotFound
			}
			return err
		}

		tags, err := resolveTags(tx, tagIDs)
		if err != nil {
			return err
		}
		if err := resolveIngredients(tx, lines); err != nil {
			return err
		}
		if name, ok := fields["name"].(string); ok {
			if err := checkNameFree(tx, name, recipeID); err != nil {
				return err
			}
		}

		if len(fields) > 0 {
			if err := tx.Model(recipe).Omit(clause.Associations).Updates(fields).Error; err != nil {
				return translateRecipeError(err)
			}
		}

		if err := tx.Where("recipe_id = ?", recipeID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := insertLines(tx, recipeID, lines); err != nil {
			return err
		}
		return tx.Model(recipe).Association("Tags").Replace(tags)
	})
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, recipeID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe := &entities.Recipe{ID: recipeID}
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		for _, dependent := range []any{
			&entities.RecipeIngredient{},
			&entities.FavoriteRecipe{},
			&entities.ShoppingCart{},
		} {
			if err := tx.Where("recipe_id = ?", recipeID).Delete(dependent).Error; err != nil {
				return err
			}
		}

		res := tx.Delete(recipe)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrRecipeNotFound
		}
		return nil
	})
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.withDetails(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, q RecipeQuery) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (q.Page - 1) * q.Limit

	query := r.db.WithContext(ctx).Model(&entities.Recipe{})
	if q.AuthorID != "" {
		query = query.Where("author_id = ?", q.AuthorID)
	}
	if len(q.TagSlugs) > 0 {
		tagged := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", q.TagSlugs)
		query = query.Where("id IN (?)", tagged)
	}
	query = r.membershipScope(query, domain.MarkFavorite, q.Favorite)
	query = r.membershipScope(query, domain.MarkShoppingCart, q.Cart)
	query = query.Session(&gorm.Session{})

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.withDetails(query).
		Order("created_at desc").
		Offset(offset).
		Limit(q.Limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) GetRecipesByAuthor(ctx context.Context, authorID string, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	query := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountRecipesByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *recipeRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name asc") }).
		Preload("Ingredients.Ingredient")
}

func (r *recipeRepository) membershipScope(query *gorm.DB, kind domain.MarkKind, filter *MembershipFilter) *gorm.DB {
	if filter == nil {
		return query
	}
	marked := r.db.Model(markModel(kind, uuid.Nil, uuid.Nil)).
		Select("recipe_id").
		Where("user_id = ?", filter.UserID)
	if filter.Present {
		return query.Where("id IN (?)", marked)
	}
	return query.Where("id NOT IN (?)", marked)
}

// resolveTags loads every tag in ids or fails with ErrTagNotFound.
func resolveTags(tx *gorm.DB, ids []uuid.UUID) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, domain.NewFieldError("tags", domain.ErrTagNotFound)
	}
	return tags, nil
}

func resolveIngredients(tx *gorm.DB, lines []*entities.RecipeIngredient) error {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.IngredientID)
	}

	var count int64
	if err := tx.Model(&entities.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return domain.NewFieldError("ingredients", domain.ErrIngredientNotFound)
	}
	return nil
}

func checkNameFree(tx *gorm.DB, name string, exceptID uuid.UUID) error {
	var count int64
	if err := tx.Model(&entities.Recipe{}).
		Where("name = ? AND id <> ?", name, exceptID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return domain.NewFieldError("name", domain.ErrRecipeNameAlreadyExists)
	}
	return nil
}

func insertLines(tx *gorm.DB, recipeID uuid.UUID, lines []*entities.RecipeIngredient) error {
	for _, line := range lines {
		line.ID = uuid.New()
		line.RecipeID = recipeID
	}
	if err := tx.Omit(clause.Associations).Create(&lines).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewFieldError("ingredients", domain.ErrDuplicateIngredient)
		}
		return fmt.Errorf("insert ingredient lines: %w", err)
	}
	return nil
}

func translateRecipeError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.NewFieldError("name", domain.ErrRecipeNameAlreadyExists)
	}
	return err
}
