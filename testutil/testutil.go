// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"rental-backend/config"
	"rental-backend/models"
	"rental-backend/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database private to the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := config.ConnectDatabase(config.DBConfig{Driver: "sqlite", URL: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Password is the plain-text password of every account made by NewAccount.
const Password = "password123"

func NewAccount(t testing.TB, db *gorm.DB, email string, host bool) *models.Account {
	t.Helper()
	hash, err := utils.HashPassword(Password)
	require.NoError(t, err)
	acc := &models.Account{Email: email, Name: email, Password: hash, IsHost: host, IsActive: true}
	require.NoError(t, db.Create(acc).Error)
	return acc
}

// PropertyOption tweaks a property before NewProperty stores it.
type PropertyOption func(*models.Property)

func NewProperty(t testing.TB, db *gorm.DB, host *models.Account, opts ...PropertyOption) *models.Property {
	t.Helper()
	p := &models.Property{
		Title:         "Cozy Loft",
		Description:   "A quiet place",
		Location:      "Lisbon, Portugal",
		Address:       "1 Rua Augusta",
		PropertyType:  models.PropertyTypeLoft,
		PricePerNight: 100,
		Guests:        4,
		Bedrooms:      2,
		Bathrooms:     1,
		Amenities:     []string{"WiFi", "Kitchen"},
		IsAvailable:   true,
		MinimumNights: 1,
		MaximumNights: 30,
		HostID:        host.ID,
	}
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// NewReservation stores a reservation directly, bypassing booking rules.
func NewReservation(t testing.TB, db *gorm.DB, p *models.Property, guest *models.Account, checkIn, checkOut string, status models.ReservationStatus) *models.Reservation {
	t.Helper()
	r := &models.Reservation{
		PropertyID:    p.ID,
		GuestID:       guest.ID,
		CheckIn:       Date(t, checkIn),
		CheckOut:      Date(t, checkOut),
		GuestsCount:   1,
		PricePerNight: p.PricePerNight,
		Status:        status,
		PaymentStatus: models.PaymentStatusPending,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

// Date parses YYYY-MM-DD as UTC midnight.
func Date(t testing.TB, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}
