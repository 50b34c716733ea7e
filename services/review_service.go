package services

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"rental-backend/models"
	"rental-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	msgStayRequired    = "You can only review properties you have stayed at."
	msgAlreadyReviewed = "You have already reviewed this stay."
)

type ReviewService struct {
	DB *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{DB: db}
}

// ListForProperty returns a property's reviews, newest first.
func (s *ReviewService) ListForProperty(propertyID uuid.UUID) ([]models.Review, error) {
	var out []models.Review
	err := s.DB.Preload("Guest").
		Where("property_id = ?", propertyID).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return out, nil
}

type ReviewInput struct {
	Rating  int
	Comment string
}

// Create records a review for the guest's oldest completed stay at the
// property that has not been reviewed yet, then refreshes the property's
// rating.
func (s *ReviewService) Create(guest *models.Account, propertyID uuid.UUID, in ReviewInput) (*models.Review, error) {
	review := models.Review{
		PropertyID: propertyID,
		GuestID:    guest.ID,
		Rating:     in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
	}
	if err := validateEntity(&review); err != nil {
		return nil, err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var p models.Property
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", propertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Property not found.")
			}
			return fmt.Errorf("lock property: %w", err)
		}

		stays := tx.Model(&models.Reservation{}).
			Where("reservations.guest_id = ? AND reservations.property_id = ? AND reservations.status = ?",
				guest.ID, propertyID, models.ReservationCompleted)

		var completed int64
		if err := stays.Session(&gorm.Session{}).Count(&completed).Error; err != nil {
			return fmt.Errorf("count completed stays: %w", err)
		}
		if completed == 0 {
			return forbidden(msgStayRequired)
		}

		var stay models.Reservation
		err := stays.Session(&gorm.Session{}).
			Joins("LEFT JOIN reviews ON reviews.reservation_id = reservations.id").
			Where("reviews.id IS NULL").
			Order("reservations.check_out ASC").Order("reservations.created_at ASC").
			Take(&stay).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return forbidden(msgAlreadyReviewed)
			}
			return fmt.Errorf("find reviewable stay: %w", err)
		}

		review.ReservationID = stay.ID
		if err := tx.Create(&review).Error; err != nil {
			if utils.IsDuplicateKeyError(err) {
				return forbidden(msgAlreadyReviewed)
			}
			return fmt.Errorf("create review: %w", err)
		}
		return refreshRating(tx, propertyID)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("review created", "review_id", review.ID, "property_id", propertyID, "guest_id", guest.ID)
	if err := s.DB.Preload("Guest").First(&review, review.ID).Error; err != nil {
		return nil, fmt.Errorf("reload review: %w", err)
	}
	return &review, nil
}

// Delete removes one of actor's reviews and refreshes the property's rating.
func (s *ReviewService) Delete(actor *models.Account, reviewID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var r models.Review
		if err := tx.First(&r, reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Review not found.")
			}
			return fmt.Errorf("get review: %w", err)
		}
		if r.GuestID != actor.ID {
			return forbidden("You can only delete your own reviews.")
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&models.Property{}, "id = ?", r.PropertyID).Error; err != nil {
			return fmt.Errorf("lock property: %w", err)
		}
		if err := tx.Delete(&r).Error; err != nil {
			return fmt.Errorf("delete review: %w", err)
		}
		return refreshRating(tx, r.PropertyID)
	})
}

// refreshRating recomputes average_rating (two decimals) and review_count.
func refreshRating(tx *gorm.DB, propertyID uuid.UUID) error {
	var agg struct {
		AvgRating   *float64
		ReviewCount int64
	}
	err := tx.Model(&models.Review{}).
		Select("AVG(rating) AS avg_rating, COUNT(*) AS review_count").
		Where("property_id = ?", propertyID).
		Scan(&agg).Error
	if err != nil {
		return fmt.Errorf("aggregate ratings: %w", err)
	}

	avg := 0.0
	if agg.AvgRating != nil {
		avg = math.Round(*agg.AvgRating*100) / 100
	}
	err = tx.Model(&models.Property{}).
		Where("id = ?", propertyID).
		UpdateColumns(map[string]interface{}{"average_rating": avg, "review_count": agg.ReviewCount}).Error
	if err != nil {
		return fmt.Errorf("update rating: %w", err)
	}
	return nil
}
