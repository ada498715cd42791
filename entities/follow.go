package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow is a directed edge from Follower to Followee.
type Follow struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FollowerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FolloweeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follow_pair;index" json:"followee_id"`

	Follower *User `gorm:"foreignKey:FollowerID"`
	Followee *User `gorm:"foreignKey:FolloweeID"`
	Timestamp
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	ensureID(&f.ID)
	return nil
}
