package follow

import (
	"context"
	"errors"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// RecipePreviewSource supplies the author recipes shown next to a followee.
	RecipePreviewSource interface {
		GetRecipesByAuthor(ctx context.Context, authorID string, limit int) ([]*entities.Recipe, error)
		CountRecipesByAuthor(ctx context.Context, authorID string) (int64, error)
	}

	FollowService interface {
		Follow(ctx context.Context, followerID, followeeID string, recipesLimit int) (*domain.FolloweeResponse, error)
		Unfollow(ctx context.Context, followerID, followeeID string) error
		GetFollowees(ctx context.Context, followerID string, page, limit, recipesLimit int) ([]domain.FolloweeResponse, int64, error)
	}

	followService struct {
		followRepository FollowRepository
		recipes          RecipePreviewSource
	}
)

func NewFollowService(followRepository FollowRepository, recipes RecipePreviewSource) FollowService {
	return &followService{
		followRepository: followRepository,
		recipes:          recipes,
	}
}

func (s *followService) Follow(ctx context.Context, followerID, followeeID string, recipesLimit int) (*domain.FolloweeResponse, error) {
	followerUUID, followeeUUID, err := parsePair(followerID, followeeID)
	if err != nil {
		return nil, err
	}
	if followerUUID == followeeUUID {
		return nil, domain.ErrSelfFollow
	}

	followee, err := s.followRepository.GetUserByID(ctx, followeeUUID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if err := s.followRepository.CreateFollow(ctx, followerUUID, followeeUUID); err != nil {
		return nil, err
	}
	log.Infow("user subscribed", "follower_id", followerID, "followee_id", followeeID)

	res, err := s.followeeView(ctx, followee, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *followService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	followerUUID, followeeUUID, err := parsePair(followerID, followeeID)
	if err != nil {
		return err
	}
	if followerUUID == followeeUUID {
		return domain.ErrSelfFollow
	}

	if _, err := s.followRepository.GetUserByID(ctx, followeeUUID.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	return s.followRepository.DeleteFollow(ctx, followerUUID, followeeUUID)
}

func (s *followService) GetFollowees(ctx context.Context, followerID string, page, limit, recipesLimit int) ([]domain.FolloweeResponse, int64, error) {
	users, count, err := s.followRepository.GetFollowees(ctx, followerID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.FolloweeResponse, 0, len(users))
	for _, user := range users {
		view, err := s.followeeView(ctx, user, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, view)
	}
	return res, count, nil
}

func (s *followService) followeeView(ctx context.Context, user *entities.User, recipesLimit int) (domain.FolloweeResponse, error) {
	if recipesLimit <= 0 {
		recipesLimit = domain.DefaultRecipesLimit
	}

	recipes, err := s.recipes.GetRecipesByAuthor(ctx, user.ID.String(), recipesLimit)
	if err != nil {
		return domain.FolloweeResponse{}, err
	}
	count, err := s.recipes.CountRecipesByAuthor(ctx, user.ID.String())
	if err != nil {
		return domain.FolloweeResponse{}, err
	}

	previews := make([]domain.RecipeShort, 0, len(recipes))
	for _, recipe := range recipes {
		previews = append(previews, NewRecipeShort(recipe))
	}

	return domain.FolloweeResponse{
		UserResponse: NewUserResponse(user, true),
		Recipes:      previews,
		RecipesCount: count,
	}, nil
}

func parsePair(followerID, followeeID string) (uuid.UUID, uuid.UUID, error) {
	followerUUID, err := uuid.Parse(followerID)
	if err != nil {
		return uuid.Nil, uuid.Nil, domain.ErrParseUUID
	}
	followeeUUID, err := uuid.Parse(followeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, domain.ErrUserNotFound
	}
	return followerUUID, followeeUUID, nil
}
