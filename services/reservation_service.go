package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rental-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	msgCancelConfirmedOnly = "You can only cancel confirmed reservations."
	msgDatesUnavailable    = "Property is not available for the selected dates."
)

// ReservationService creates reservations and moves them through their
// lifecycle.
type ReservationService struct {
	DB *gorm.DB

	// AllowOverlap skips the double-booking check at creation time.
	AllowOverlap bool
}

func NewReservationService(db *gorm.DB, allowOverlap bool) *ReservationService {
	return &ReservationService{DB: db, AllowOverlap: allowOverlap}
}

type CreateReservationInput struct {
	PropertyID  uuid.UUID
	CheckIn     time.Time
	CheckOut    time.Time
	GuestsCount int
}

// Create books a stay for guest. Rules are checked in a fixed order and the
// first violation is returned.
func (s *ReservationService) Create(guest *models.Account, in CreateReservationInput) (*models.Reservation, error) {
	if in.GuestsCount < 1 {
		return nil, fieldError("guests_count", "Ensure this value is greater than or equal to 1.")
	}

	checkIn := models.DateOnly(in.CheckIn)
	checkOut := models.DateOnly(in.CheckOut)
	if !checkIn.Before(checkOut) {
		return nil, fieldError("check_out", "Check-out date must be after check-in date.")
	}
	nights := models.NightsBetween(checkIn, checkOut)
	if nights < 1 {
		return nil, fieldError("check_out", "Minimum stay is 1 night.")
	}

	var res models.Reservation
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var p models.Property
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", in.PropertyID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Property not found.")
			}
			return fmt.Errorf("lock property: %w", err)
		}

		if in.GuestsCount > p.Guests {
			return fieldError("guests_count", fmt.Sprintf("Maximum %d guests allowed.", p.Guests))
		}
		if nights < p.MinimumNights {
			return fieldError("check_out", fmt.Sprintf("Minimum stay is %d nights.", p.MinimumNights))
		}
		if nights > p.MaximumNights {
			return fieldError("check_out", fmt.Sprintf("Maximum stay is %d nights.", p.MaximumNights))
		}

		if !s.AllowOverlap {
			taken, err := hasActiveOverlap(tx, p.ID, checkIn, checkOut)
			if err != nil {
				return err
			}
			if taken {
				return conflict(msgDatesUnavailable)
			}
		}

		res = models.Reservation{
			PropertyID:    p.ID,
			GuestID:       guest.ID,
			CheckIn:       checkIn,
			CheckOut:      checkOut,
			GuestsCount:   in.GuestsCount,
			PricePerNight: p.PricePerNight,
			Status:        models.ReservationPending,
			PaymentStatus: models.PaymentStatusPending,
		}
		if err := tx.Create(&res).Error; err != nil {
			return fmt.Errorf("create reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("reservation created",
		"reservation_id", res.ID, "property_id", res.PropertyID, "guest_id", guest.ID,
		"nights", res.Nights, "total_price", res.TotalPrice)
	return s.load(s.DB, res.ID)
}

// ListForGuest returns guest's reservations, newest first.
func (s *ReservationService) ListForGuest(guest *models.Account) ([]models.Reservation, error) {
	var out []models.Reservation
	err := s.withRelations(s.DB).
		Where("guest_id = ?", guest.ID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return out, nil
}

// ListForHost returns reservations made on host's properties, newest first.
func (s *ReservationService) ListForHost(host *models.Account) ([]models.Reservation, error) {
	var out []models.Reservation
	err := s.withRelations(s.DB).
		Where("property_id IN (?)", s.DB.Model(&models.Property{}).Select("id").Where("host_id = ?", host.ID)).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list host reservations: %w", err)
	}
	return out, nil
}

// GetForGuest returns one of guest's reservations.
func (s *ReservationService) GetForGuest(guest *models.Account, id uuid.UUID) (*models.Reservation, error) {
	var r models.Reservation
	err := s.withRelations(s.DB).Where("id = ? AND guest_id = ?", id, guest.ID).First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Reservation not found.")
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return &r, nil
}

// ReservationUpdate is a guest edit. Only Status may be set; OtherFields
// flags any other supplied field.
type ReservationUpdate struct {
	Status      *models.ReservationStatus
	OtherFields bool
}

// Update lets a guest cancel a confirmed reservation through a status edit.
func (s *ReservationService) Update(guest *models.Account, id uuid.UUID, in ReservationUpdate) (*models.Reservation, error) {
	if in.OtherFields || in.Status == nil {
		return nil, forbidden("Only status updates are allowed.")
	}
	if !in.Status.Valid() {
		return nil, fieldError("status", fmt.Sprintf("%q is not a valid choice.", *in.Status))
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		r, err := s.lockForGuest(tx, guest, id, "Reservation not found.")
		if err != nil {
			return err
		}
		if r.Status != models.ReservationConfirmed || *in.Status != models.ReservationCancelled {
			return forbidden(msgCancelConfirmedOnly)
		}
		return transition(tx, r, models.ReservationCancelled)
	})
	if err != nil {
		return nil, err
	}
	return s.load(s.DB, id)
}

// Cancel cancels a confirmed reservation of guest.
func (s *ReservationService) Cancel(guest *models.Account, id uuid.UUID) (*models.Reservation, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		r, err := s.lockForGuest(tx, guest, id, "Reservation not found or cannot be cancelled.")
		if err != nil {
			return err
		}
		if r.Status != models.ReservationConfirmed {
			return forbidden(msgCancelConfirmedOnly)
		}
		return transition(tx, r, models.ReservationCancelled)
	})
	if err != nil {
		return nil, err
	}
	slog.Info("reservation cancelled", "reservation_id", id, "guest_id", guest.ID)
	return s.load(s.DB, id)
}

// Confirm accepts a pending reservation on one of host's properties.
func (s *ReservationService) Confirm(host *models.Account, id uuid.UUID) (*models.Reservation, error) {
	return s.hostDecision(host, id, models.ReservationConfirmed, "Only pending reservations can be confirmed.")
}

// Decline rejects a pending reservation on one of host's properties.
func (s *ReservationService) Decline(host *models.Account, id uuid.UUID) (*models.Reservation, error) {
	return s.hostDecision(host, id, models.ReservationCancelled, "Only pending reservations can be declined.")
}

func (s *ReservationService) hostDecision(host *models.Account, id uuid.UUID, next models.ReservationStatus, wrongState string) (*models.Reservation, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var r models.Reservation
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Property").First(&r, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Reservation not found.")
			}
			return fmt.Errorf("get reservation: %w", err)
		}
		if r.Property == nil || r.Property.HostID != host.ID {
			return forbidden("Only the host of this property can manage its reservations.")
		}
		if r.Status != models.ReservationPending {
			return forbidden(wrongState)
		}
		r.Property = nil
		return transition(tx, &r, next)
	})
	if err != nil {
		return nil, err
	}
	slog.Info("reservation decided by host", "reservation_id", id, "host_id", host.ID, "status", next)
	return s.load(s.DB, id)
}

// CompleteFinishedStays marks confirmed reservations whose check-out is on or
// before today's date as completed and returns how many changed.
func (s *ReservationService) CompleteFinishedStays(now time.Time) (int, error) {
	today := models.DateOnly(now)
	completed := 0
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var due []models.Reservation
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("status = ? AND check_out <= ?", models.ReservationConfirmed, today).
			Find(&due).Error
		if err != nil {
			return fmt.Errorf("find finished stays: %w", err)
		}
		for i := range due {
			if err := transition(tx, &due[i], models.ReservationCompleted); err != nil {
				return err
			}
			completed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return completed, nil
}

func (s *ReservationService) lockForGuest(tx *gorm.DB, guest *models.Account, id uuid.UUID, missing string) (*models.Reservation, error) {
	var r models.Reservation
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND guest_id = ?", id, guest.ID).
		First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(missing)
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return &r, nil
}

// transition moves r to next if the lifecycle allows it and saves it.
func transition(tx *gorm.DB, r *models.Reservation, next models.ReservationStatus) error {
	if !r.Status.CanTransitionTo(next) {
		return forbidden(fmt.Sprintf("Cannot change a %s reservation to %s.", r.Status, next))
	}
	r.Status = next
	if err := tx.Save(r).Error; err != nil {
		return fmt.Errorf("save reservation: %w", err)
	}
	return nil
}

func (s *ReservationService) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Property").Preload("Property.Images", orderImages).Preload("Property.Host").Preload("Guest")
}

func (s *ReservationService) load(db *gorm.DB, id uuid.UUID) (*models.Reservation, error) {
	var r models.Reservation
	if err := s.withRelations(db).First(&r, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("reload reservation: %w", err)
	}
	return &r, nil
}
