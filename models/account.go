package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Account is the email-keyed identity used for both guests and hosts.
type Account struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Email       string `gorm:"uniqueIndex;size:254;not null" json:"email" validate:"required,email,max=254"`
	Name        string `gorm:"size:255" json:"name" validate:"max=255"`
	Bio         string `gorm:"type:text" json:"bio"`
	Avatar      string `gorm:"size:255" json:"avatar" validate:"max=255"`
	PhoneNumber string `gorm:"size:32" json:"phone_number" validate:"max=32"`

	IsHost      bool `gorm:"column:is_host" json:"is_host"`
	IsActive    bool `gorm:"column:is_active" json:"-"`
	IsStaff     bool `gorm:"column:is_staff" json:"-"`
	IsSuperuser bool `gorm:"column:is_superuser" json:"-"`

	Password string `gorm:"size:255;not null" json:"-"` // bcrypt hash

	CreatedAt time.Time `gorm:"column:date_joined" json:"date_joined"`
	UpdatedAt time.Time `json:"-"`
}

func (a *Account) BeforeSave(tx *gorm.DB) error {
	a.Email = NormalizeEmail(a.Email)
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
