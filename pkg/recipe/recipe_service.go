package recipe

import (
	"context"
	"errors"
	"sort"
	"strings"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils"
	"foodgram/internal/utils/mailing"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/follow"
	"foodgram/pkg/tag"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const imageKeyPrefix = "recipes/"

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.RecipeCreateRequest, authorID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.RecipeUpdateRequest, userID string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, recipeID string, userID string) error
		GetRecipe(ctx context.Context, recipeID string, viewerID string) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string) ([]domain.RecipeResponse, int64, error)

		SetMembership(ctx context.Context, kind domain.MarkKind, userID, recipeID string, present bool) (*domain.RecipeShort, error)

		GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error)
		BuildShoppingList(ctx context.Context, userID string) ([]byte, error)
		SendShoppingList(ctx context.Context, userID string) error
	}

	recipeService struct {
		recipeRepository RecipeRepository
		followRepository follow.FollowRepository
		storage          storage.ImageStorage
		mailer           mailing.Mailer
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	followRepository follow.FollowRepository,
	storage storage.ImageStorage,
	mailer mailing.Mailer,
) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		followRepository: followRepository,
		storage:          storage,
		mailer:           mailer,
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.RecipeCreateRequest, authorID string) (domain.RecipeResponse, error) {
	authorUUID, err := uuid.Parse(authorID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.RecipeResponse{}, domain.NewFieldError("name", domain.Validation("name is required"))
	}
	if strings.TrimSpace(req.Text) == "" {
		return domain.RecipeResponse{}, domain.NewFieldError("text", domain.Validation("text is required"))
	}
	if req.CookingTime < 1 {
		return domain.RecipeResponse{}, domain.NewFieldError("cooking_time", domain.ErrInvalidCookingTime)
	}
	lines, err := buildLines(req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	tagIDs, err := parseTagIDs(req.Tags)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if strings.TrimSpace(req.Image) == "" {
		return domain.RecipeResponse{}, domain.NewFieldError("image", domain.ErrImageRequired)
	}

	imageURL, imageKey, err := s.storeImage(ctx, req.Image)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorUUID,
		Name:        name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       imageURL,
	}
	if err := s.recipeRepository.CreateRecipe(ctx, recipe, lines, tagIDs); err != nil {
		s.dropImage(ctx, imageKey)
		return domain.RecipeResponse{}, err
	}

	log.Infow("recipe created", "recipe_id", recipe.ID.String(), "author_id", authorID)
	return s.GetRecipe(ctx, recipe.ID.String(), authorID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.RecipeUpdateRequest, userID string) (domain.RecipeResponse, error) {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if recipe.AuthorID.String() != userID {
		return domain.RecipeResponse{}, domain.ErrUnauthorizedRecipeAccess
	}

	fields := make(map[string]any)
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.RecipeResponse{}, domain.NewFieldError("name", domain.Validation("name must not be empty"))
		}
		fields["name"] = name
	}
	if req.Text != nil {
		if strings.TrimSpace(*req.Text) == "" {
			return domain.RecipeResponse{}, domain.NewFieldError("text", domain.Validation("text must not be empty"))
		}
		fields["text"] = *req.Text
	}
	if req.CookingTime != nil {
		if *req.CookingTime < 1 {
			return domain.RecipeResponse{}, domain.NewFieldError("cooking_time", domain.ErrInvalidCookingTime)
		}
		fields["cooking_time"] = *req.CookingTime
	}
	lines, err := buildLines(req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	tagIDs, err := parseTagIDs(req.Tags)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	var newImageKey string
	if req.Image != nil {
		imageURL, imageKey, err := s.storeImage(ctx, *req.Image)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		fields["image"] = imageURL
		newImageKey = imageKey
	}

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe.ID, fields, lines, tagIDs); err != nil {
		s.dropImage(ctx, newImageKey)
		return domain.RecipeResponse{}, err
	}
	if newImageKey != "" {
		s.dropImage(ctx, s.storage.KeyFromURL(recipe.Image))
	}

	log.Infow("recipe updated", "recipe_id", recipeID, "author_id", userID)
	return s.GetRecipe(ctx, recipeID, userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, userID string) error {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.AuthorID.String() != userID {
		return domain.ErrUnauthorizedRecipeAccess
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, recipe.ID); err != nil {
		return err
	}
	if s.storage != nil {
		s.dropImage(ctx, s.storage.KeyFromURL(recipe.Image))
	}

	log.Infow("recipe deleted", "recipe_id", recipeID, "author_id", userID)
	return nil
}

func (s *recipeService) GetRecipe(ctx context.Context, recipeID string, viewerID string) (domain.RecipeResponse, error) {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	res, err := s.toResponses(ctx, []*entities.Recipe{recipe}, viewerID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return res[0], nil
}

// GetRecipes lists recipes newest first. The membership filters accept 0 and
// 1; any other value, or 1 for an anonymous viewer, gives an empty page.
func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string) ([]domain.RecipeResponse, int64, error) {
	query := RecipeQuery{
		AuthorID: filter.AuthorID,
		TagSlugs: filter.Tags,
		Page:     filter.Page,
		Limit:    filter.Limit,
	}
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = domain.DefaultPageLimit
	}
	if query.Limit > domain.MaxPageLimit {
		query.Limit = domain.MaxPageLimit
	}
	if query.AuthorID != "" {
		if _, err := uuid.Parse(query.AuthorID); err != nil {
			return []domain.RecipeResponse{}, 0, nil
		}
	}

	var empty bool
	query.Favorite, empty = membershipFilter(filter.IsFavorited, viewerID)
	if empty {
		return []domain.RecipeResponse{}, 0, nil
	}
	query.Cart, empty = membershipFilter(filter.IsInShoppingCart, viewerID)
	if empty {
		return []domain.RecipeResponse{}, 0, nil
	}

	recipes, count, err := s.recipeRepository.GetRecipes(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	res, err := s.toResponses(ctx, recipes, viewerID)
	if err != nil {
		return nil, 0, err
	}
	return res, count, nil
}

func membershipFilter(value *int, viewerID string) (*MembershipFilter, bool) {
	if value == nil {
		return nil, false
	}
	switch *value {
	case 1:
		if viewerID == "" {
			return nil, true
		}
		return &MembershipFilter{UserID: viewerID, Present: true}, false
	case 0:
		if viewerID == "" {
			return nil, false
		}
		return &MembershipFilter{UserID: viewerID, Present: false}, false
	default:
		return nil, true
	}
}

func (s *recipeService) findRecipe(ctx context.Context, recipeID string) (*entities.Recipe, error) {
	parsed, err := uuid.Parse(recipeID)
	if err != nil {
		return nil, domain.ErrRecipeNotFound
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, parsed.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

func (s *recipeService) toResponses(ctx context.Context, recipes []*entities.Recipe, viewerID string) ([]domain.RecipeResponse, error) {
	recipeIDs := make([]string, 0, len(recipes))
	authorIDs := make([]string, 0, len(recipes))
	for _, recipe := range recipes {
		recipeIDs = append(recipeIDs, recipe.ID.String())
		authorIDs = append(authorIDs, recipe.AuthorID.String())
	}

	favorites, err := s.recipeRepository.GetMarkedIDs(ctx, domain.MarkFavorite, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := s.recipeRepository.GetMarkedIDs(ctx, domain.MarkShoppingCart, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	followed, err := s.followRepository.GetFollowedIDs(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	res := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		id := recipe.ID.String()

		tags := make([]domain.TagResponse, 0, len(recipe.Tags))
		for _, t := range recipe.Tags {
			tags = append(tags, tag.NewTagResponse(t))
		}

		ingredients := make([]domain.RecipeIngredientResponse, 0, len(recipe.Ingredients))
		for _, line := range recipe.Ingredients {
			item := domain.RecipeIngredientResponse{
				ID:     line.IngredientID.String(),
				Amount: line.Amount,
			}
			if line.Ingredient != nil {
				item.Name = line.Ingredient.Name
				item.MeasurementUnit = line.Ingredient.MeasurementUnit
			}
			ingredients = append(ingredients, item)
		}
		sort.Slice(ingredients, func(i, j int) bool { return ingredients[i].Name < ingredients[j].Name })

		res = append(res, domain.RecipeResponse{
			ID:               id,
			Name:             recipe.Name,
			Text:             recipe.Text,
			CookingTime:      recipe.CookingTime,
			Image:            recipe.Image,
			Author:           follow.NewUserResponse(recipe.Author, followed[recipe.AuthorID.String()]),
			Tags:             tags,
			Ingredients:      ingredients,
			IsFavorited:      favorites[id],
			IsInShoppingCart: inCart[id],
		})
	}
	return res, nil
}

func (s *recipeService) storeImage(ctx context.Context, raw string) (string, string, error) {
	data, mime, err := utils.DecodeBase64Image(raw)
	if err != nil {
		return "", "", domain.NewFieldError("image", domain.ErrInvalidImage)
	}
	if s.storage == nil {
		return "", "", domain.Configuration("image storage is not configured")
	}

	key := imageKeyPrefix + uuid.NewString() + mime.Extension()
	url, err := s.storage.Upload(ctx, key, data, mime.String())
	if err != nil {
		log.Errorw("image upload failed", "key", key, "error", err)
		return "", "", err
	}
	return url, key, nil
}

func (s *recipeService) dropImage(ctx context.Context, key string) {
	if key == "" || s.storage == nil {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		log.Warnw("image cleanup failed", "key", key, "error", err)
	}
}

func buildLines(reqs []domain.RecipeIngredientRequest) ([]*entities.RecipeIngredient, error) {
	if len(reqs) == 0 {
		return nil, domain.NewFieldError("ingredients", domain.ErrNoIngredients)
	}

	seen := make(map[uuid.UUID]struct{}, len(reqs))
	lines := make([]*entities.RecipeIngredient, 0, len(reqs))
	for _, req := range reqs {
		if req.Amount < 1 {
			return nil, domain.NewFieldError("ingredients", domain.ErrInvalidAmount)
		}
		id, err := uuid.Parse(req.ID)
		if err != nil {
			return nil, domain.NewFieldError("ingredients", domain.ErrIngredientNotFound)
		}
		if _, dup := seen[id]; dup {
			return nil, domain.NewFieldError("ingredients", domain.ErrDuplicateIngredient)
		}
		seen[id] = struct{}{}
		lines = append(lines, &entities.RecipeIngredient{IngredientID: id, Amount: req.Amount})
	}
	return lines, nil
}

func parseTagIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, domain.NewFieldError("tags", domain.ErrNoTags)
	}

	seen := make(map[uuid.UUID]struct{}, len(raw))
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, domain.NewFieldError("tags", domain.ErrTagNotFound)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
