package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

// ActiveReservationStatuses block a property's dates for other guests.
var ActiveReservationStatuses = []ReservationStatus{ReservationPending, ReservationConfirmed}

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationCancelled, ReservationCompleted},
}

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCancelled, ReservationCompleted:
		return true
	}
	return false
}

func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

const PaymentStatusPending = "pending"

type Reservation struct {
	ID uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`

	PropertyID uuid.UUID `gorm:"type:char(36);index:idx_reservation_availability,priority:1;not null" json:"property_id"`
	Property   *Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"property,omitempty"`
	GuestID    uint      `gorm:"index;not null" json:"-"`
	Guest      *Account  `gorm:"foreignKey:GuestID;constraint:OnDelete:CASCADE" json:"guest,omitempty"`

	CheckIn     time.Time `gorm:"type:date;not null;index:idx_reservation_availability,priority:2" json:"check_in"`
	CheckOut    time.Time `gorm:"type:date;not null;index:idx_reservation_availability,priority:3" json:"check_out"`
	GuestsCount int       `gorm:"not null" json:"guests_count"`

	PricePerNight float64 `gorm:"type:decimal(10,2);not null" json:"price_per_night"`
	TotalPrice    float64 `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Nights        int     `gorm:"not null" json:"nights"`

	Status        ReservationStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentStatus string            `gorm:"size:20;not null" json:"payment_status"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps the derived fields in step with the dates and the
// snapshot price, whatever the caller put in them.
func (r *Reservation) BeforeSave(tx *gorm.DB) error {
	r.CheckIn = DateOnly(r.CheckIn)
	r.CheckOut = DateOnly(r.CheckOut)
	r.Nights = NightsBetween(r.CheckIn, r.CheckOut)
	r.TotalPrice = StayPrice(r.Nights, r.PricePerNight)
	return nil
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NightsBetween counts calendar days from checkIn to checkOut.
func NightsBetween(checkIn, checkOut time.Time) int {
	return int(DateOnly(checkOut).Sub(DateOnly(checkIn)) / (24 * time.Hour))
}

// StayPrice is nights × pricePerNight rounded to cents.
func StayPrice(nights int, pricePerNight float64) float64 {
	return math.Round(float64(nights)*pricePerNight*100) / 100
}
