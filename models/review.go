package models

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PropertyID    uuid.UUID    `gorm:"type:char(36);not null;index;uniqueIndex:idx_review_stay,priority:1" json:"property_id"`
	Property      *Property    `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"property,omitempty" validate:"-"`
	GuestID       uint         `gorm:"not null;uniqueIndex:idx_review_stay,priority:2" json:"-"`
	Guest         *Account     `gorm:"foreignKey:GuestID;constraint:OnDelete:CASCADE" json:"guest,omitempty" validate:"-"`
	ReservationID uuid.UUID    `gorm:"type:char(36);not null;uniqueIndex;uniqueIndex:idx_review_stay,priority:3" json:"-"`
	Reservation   *Reservation `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`

	Rating  int    `gorm:"not null" json:"rating" validate:"min=1,max=5"`
	Comment string `gorm:"type:text;not null" json:"comment" validate:"required"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
