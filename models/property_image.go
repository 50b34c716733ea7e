package models

import (
	"github.com/google/uuid"
)

type PropertyImage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PropertyID uuid.UUID `gorm:"type:char(36);index;not null" json:"-"`
	Image      string    `gorm:"size:255;not null" json:"image"`
	Caption    string    `gorm:"size:255" json:"caption" validate:"max=255"`
	IsPrimary  bool      `gorm:"column:is_primary" json:"is_primary"`
	Order      int       `gorm:"column:sort_order;not null;default:0" json:"order" validate:"min=0"`
}
