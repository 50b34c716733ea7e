package services

import (
	"errors"
	"fmt"
	"log/slog"

	"rental-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PropertyService owns listings and their images.
type PropertyService struct {
	DB     *gorm.DB
	Images *ImageStore
}

func NewPropertyService(db *gorm.DB, images *ImageStore) *PropertyService {
	return &PropertyService{DB: db, Images: images}
}

// PropertyInput carries writable listing fields. Nil means "not supplied".
type PropertyInput struct {
	Title         *string
	Description   *string
	Location      *string
	Address       *string
	Latitude      *float64
	Longitude     *float64
	PropertyType  *models.PropertyType
	PricePerNight *float64
	Guests        *int
	Bedrooms      *int
	Bathrooms     *int
	Amenities     *[]string
	IsAvailable   *bool
	MinimumNights *int
	MaximumNights *int
}

// missingRequired lists required fields absent from a full (non-partial) write.
func (in PropertyInput) missingRequired() map[string]string {
	fields := map[string]string{}
	const msg = "This field is required."
	if in.Title == nil {
		fields["title"] = msg
	}
	if in.Description == nil {
		fields["description"] = msg
	}
	if in.Location == nil {
		fields["location"] = msg
	}
	if in.Address == nil {
		fields["address"] = msg
	}
	if in.PricePerNight == nil {
		fields["price_per_night"] = msg
	}
	return fields
}

func (in PropertyInput) apply(p *models.Property) {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Location != nil {
		p.Location = *in.Location
	}
	if in.Address != nil {
		p.Address = *in.Address
	}
	if in.Latitude != nil {
		p.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		p.Longitude = in.Longitude
	}
	if in.PropertyType != nil {
		p.PropertyType = *in.PropertyType
	}
	if in.PricePerNight != nil {
		p.PricePerNight = *in.PricePerNight
	}
	if in.Guests != nil {
		p.Guests = *in.Guests
	}
	if in.Bedrooms != nil {
		p.Bedrooms = *in.Bedrooms
	}
	if in.Bathrooms != nil {
		p.Bathrooms = *in.Bathrooms
	}
	if in.Amenities != nil {
		p.Amenities = models.NormalizeAmenities(*in.Amenities)
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}
	if in.MinimumNights != nil {
		p.MinimumNights = *in.MinimumNights
	}
	if in.MaximumNights != nil {
		p.MaximumNights = *in.MaximumNights
	}
}

func newPropertyDefaults(hostID uint) models.Property {
	return models.Property{
		HostID:        hostID,
		PropertyType:  models.PropertyTypeApartment,
		Guests:        1,
		Bedrooms:      1,
		Bathrooms:     1,
		Amenities:     []string{},
		IsAvailable:   true,
		MinimumNights: 1,
		MaximumNights: 365,
	}
}

// List returns available properties matching f, newest first by default.
func (s *PropertyService) List(f PropertyFilter, viewer *models.Account) ([]models.Property, error) {
	var props []models.Property
	q := s.DB.Model(&models.Property{}).Preload("Images", orderImages).Preload("Host")
	if err := applyPropertyFilter(s.DB, q, f).Find(&props).Error; err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	if err := s.markWishlisted(viewer, props); err != nil {
		return nil, err
	}
	return props, nil
}

// ListByHost returns every property of host, including unlisted ones.
func (s *PropertyService) ListByHost(host *models.Account) ([]models.Property, error) {
	var props []models.Property
	err := s.DB.Preload("Images", orderImages).Preload("Host").
		Where("host_id = ?", host.ID).
		Order("created_at DESC").
		Find(&props).Error
	if err != nil {
		return nil, fmt.Errorf("list host properties: %w", err)
	}
	if err := s.markWishlisted(host, props); err != nil {
		return nil, err
	}
	return props, nil
}

// Get loads a property with images and host. viewer may be nil.
func (s *PropertyService) Get(id uuid.UUID, viewer *models.Account) (*models.Property, error) {
	var p models.Property
	err := s.DB.Preload("Images", orderImages).Preload("Host").First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Property not found.")
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	one := []models.Property{p}
	if err := s.markWishlisted(viewer, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (s *PropertyService) Create(host *models.Account, in PropertyInput) (*models.Property, error) {
	if !host.IsHost {
		return nil, forbidden("Only hosts can list properties.")
	}
	if missing := in.missingRequired(); len(missing) > 0 {
		return nil, fieldErrors(missing)
	}

	p := newPropertyDefaults(host.ID)
	in.apply(&p)
	if err := validateEntity(&p); err != nil {
		return nil, err
	}

	if err := s.DB.Create(&p).Error; err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}
	slog.Info("property created", "property_id", p.ID, "host_id", host.ID)
	return s.Get(p.ID, host)
}

// Update applies in to a property owned by actor. A non-partial update
// requires every required field.
func (s *PropertyService) Update(actor *models.Account, id uuid.UUID, in PropertyInput, partial bool) (*models.Property, error) {
	var p models.Property
	if err := s.DB.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Property not found.")
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	if p.HostID != actor.ID {
		return nil, forbidden("You can only edit your own properties.")
	}
	if !partial {
		if missing := in.missingRequired(); len(missing) > 0 {
			return nil, fieldErrors(missing)
		}
	}

	in.apply(&p)
	if err := validateEntity(&p); err != nil {
		return nil, err
	}
	if err := s.DB.Save(&p).Error; err != nil {
		return nil, fmt.Errorf("update property: %w", err)
	}
	return s.Get(p.ID, actor)
}

// Delete removes a property owned by actor together with everything hanging
// off it.
func (s *PropertyService) Delete(actor *models.Account, id uuid.UUID) error {
	var images []models.PropertyImage
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var p models.Property
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Property not found.")
			}
			return fmt.Errorf("get property: %w", err)
		}
		if p.HostID != actor.ID {
			return forbidden("You can only delete your own properties.")
		}

		if err := tx.Where("property_id = ?", id).Find(&images).Error; err != nil {
			return fmt.Errorf("load images: %w", err)
		}
		for _, m := range []interface{}{&models.Wishlist{}, &models.Review{}, &models.Reservation{}, &models.PropertyImage{}} {
			if err := tx.Where("property_id = ?", id).Delete(m).Error; err != nil {
				return fmt.Errorf("delete %T: %w", m, err)
			}
		}
		if err := tx.Delete(&p).Error; err != nil {
			return fmt.Errorf("delete property: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, img := range images {
		if err := s.Images.Remove(img.Image); err != nil {
			slog.Warn("remove image file", "path", img.Image, "error", err)
		}
	}
	slog.Info("property deleted", "property_id", id, "host_id", actor.ID)
	return nil
}

// ImageInput is a base64 image upload.
type ImageInput struct {
	Data      string
	Caption   string
	IsPrimary bool
	Order     int
}

// AddImage stores an image for a property owned by actor. A primary image
// demotes any previous primary one.
func (s *PropertyService) AddImage(actor *models.Account, propertyID uuid.UUID, in ImageInput) (*models.PropertyImage, error) {
	p, err := s.ownedProperty(s.DB, actor, propertyID)
	if err != nil {
		return nil, err
	}

	img := models.PropertyImage{
		PropertyID: p.ID,
		Caption:    in.Caption,
		IsPrimary:  in.IsPrimary,
		Order:      in.Order,
	}
	if err := validateEntity(&img); err != nil {
		return nil, err
	}

	path, err := s.Images.SaveBase64(in.Data, PropertyImageDir)
	if err != nil {
		if errors.Is(err, errUnsupportedImage) {
			return nil, fieldError("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
		}
		return nil, fieldError("image", "Invalid base64 image data.")
	}
	img.Image = path

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if img.IsPrimary {
			if err := tx.Model(&models.PropertyImage{}).
				Where("property_id = ? AND is_primary = ?", p.ID, true).
				Update("is_primary", false).Error; err != nil {
				return fmt.Errorf("demote primary image: %w", err)
			}
		}
		return tx.Create(&img).Error
	})
	if err != nil {
		_ = s.Images.Remove(path)
		return nil, fmt.Errorf("create image: %w", err)
	}
	return &img, nil
}

func (s *PropertyService) DeleteImage(actor *models.Account, propertyID uuid.UUID, imageID uint) error {
	if _, err := s.ownedProperty(s.DB, actor, propertyID); err != nil {
		return err
	}

	var img models.PropertyImage
	if err := s.DB.Where("id = ? AND property_id = ?", imageID, propertyID).First(&img).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Image not found.")
		}
		return fmt.Errorf("get image: %w", err)
	}
	if err := s.DB.Delete(&img).Error; err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if err := s.Images.Remove(img.Image); err != nil {
		slog.Warn("remove image file", "path", img.Image, "error", err)
	}
	return nil
}

func (s *PropertyService) ownedProperty(db *gorm.DB, actor *models.Account, id uuid.UUID) (*models.Property, error) {
	var p models.Property
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Property not found.")
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	if p.HostID != actor.ID {
		return nil, forbidden("You can only edit your own properties.")
	}
	return &p, nil
}

// markWishlisted sets IsWishlisted on props for viewer.
func (s *PropertyService) markWishlisted(viewer *models.Account, props []models.Property) error {
	if viewer == nil || len(props) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(props))
	for i := range props {
		ids[i] = props[i].ID
	}

	var wished []uuid.UUID
	err := s.DB.Model(&models.Wishlist{}).
		Where("user_id = ? AND property_id IN ?", viewer.ID, ids).
		Pluck("property_id", &wished).Error
	if err != nil {
		return fmt.Errorf("load wishlist flags: %w", err)
	}

	set := make(map[uuid.UUID]struct{}, len(wished))
	for _, id := range wished {
		set[id] = struct{}{}
	}
	for i := range props {
		_, props[i].IsWishlisted = set[props[i].ID]
	}
	return nil
}

func orderImages(db *gorm.DB) *gorm.DB {
	return db.Order("is_primary DESC").Order("sort_order ASC").Order("id ASC")
}
