package follow

import (
	"context"
	"errors"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	FollowRepository interface {
		CreateFollow(ctx context.Context, followerID, followeeID uuid.UUID) error
		DeleteFollow(ctx context.Context, followerID, followeeID uuid.UUID) error
		IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
		GetFollowedIDs(ctx context.Context, followerID string, candidateIDs []string) (map[string]bool, error)
		GetFollowees(ctx context.Context, followerID string, page, limit int) ([]*entities.User, int64, error)
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
	}

	followRepository struct {
		db *gorm.DB
	}
)

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// CreateFollow inserts the edge unless it exists. An existing edge, found
// either by the pre-check or by the unique index, yields ErrAlreadyFollowing.
func (r *followRepository) CreateFollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.Follow{}).
			Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrAlreadyFollowing
		}

		edge := &entities.Follow{FollowerID: followerID, FolloweeID: followeeID}
		if err := tx.Create(edge).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrAlreadyFollowing
			}
			return err
		}
		return nil
	})
}

func (r *followRepository) DeleteFollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&entities.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFollowing
	}
	return nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	if followerID == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFollowedIDs reports which of candidateIDs the follower is subscribed to.
func (r *followRepository) GetFollowedIDs(ctx context.Context, followerID string, candidateIDs []string) (map[string]bool, error) {
	followed := make(map[string]bool)
	if followerID == "" || len(candidateIDs) == 0 {
		return followed, nil
	}

	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&entities.Follow{}).
		Where("follower_id = ? AND followee_id IN ?", followerID, candidateIDs).
		Pluck("followee_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		followed[id.String()] = true
	}
	return followed, nil
}

func (r *followRepository) GetFollowees(ctx context.Context, followerID string, page, limit int) ([]*entities.User, int64, error) {
	var users []*entities.User
	var count int64
	offset := (page - 1) * limit

	followees := r.db.Model(&entities.Follow{}).
		Select("followee_id").
		Where("follower_id = ?", followerID)
	query := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id IN (?)", followees).
		Session(&gorm.Session{})

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("username asc").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, count, nil
}

func (r *followRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
