package services

import (
	"errors"
	"fmt"

	"rental-backend/models"
	"rental-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const msgAlreadyWishlisted = "Property already in wishlist."

type WishlistService struct {
	DB *gorm.DB
}

func NewWishlistService(db *gorm.DB) *WishlistService {
	return &WishlistService{DB: db}
}

func (s *WishlistService) List(user *models.Account) ([]models.Wishlist, error) {
	var out []models.Wishlist
	err := s.DB.Preload("Property").Preload("Property.Images", orderImages).Preload("Property.Host").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	for i := range out {
		if out[i].Property != nil {
			out[i].Property.IsWishlisted = true
		}
	}
	return out, nil
}

func (s *WishlistService) Add(user *models.Account, propertyID uuid.UUID) (*models.Wishlist, error) {
	var p models.Property
	if err := s.DB.First(&p, "id = ?", propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Property not found.")
		}
		return nil, fmt.Errorf("get property: %w", err)
	}

	var n int64
	if err := s.DB.Model(&models.Wishlist{}).Where("user_id = ? AND property_id = ?", user.ID, propertyID).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("check wishlist: %w", err)
	}
	if n > 0 {
		return nil, forbidden(msgAlreadyWishlisted)
	}

	item := models.Wishlist{UserID: user.ID, PropertyID: propertyID}
	if err := s.DB.Create(&item).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			return nil, forbidden(msgAlreadyWishlisted)
		}
		return nil, fmt.Errorf("add to wishlist: %w", err)
	}

	err := s.DB.Preload("Property").Preload("Property.Images", orderImages).Preload("Property.Host").
		First(&item, item.ID).Error
	if err != nil {
		return nil, fmt.Errorf("reload wishlist item: %w", err)
	}
	item.Property.IsWishlisted = true
	return &item, nil
}

func (s *WishlistService) Remove(user *models.Account, propertyID uuid.UUID) error {
	res := s.DB.Where("user_id = ? AND property_id = ?", user.ID, propertyID).Delete(&models.Wishlist{})
	if res.Error != nil {
		return fmt.Errorf("remove from wishlist: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("Property not in wishlist.")
	}
	return nil
}
