package models

import (
	"time"

	"github.com/google/uuid"
)

type Wishlist struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_property,priority:1" json:"-"`
	User       *Account  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	PropertyID uuid.UUID `gorm:"type:char(36);not null;index;uniqueIndex:idx_wishlist_user_property,priority:2" json:"-"`
	Property   *Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"property,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
