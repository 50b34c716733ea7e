package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
	"golang.org/x/text/cases"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PropertyType string

const (
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeVilla     PropertyType = "villa"
	PropertyTypeCabin     PropertyType = "cabin"
	PropertyTypeLoft      PropertyType = "loft"
	PropertyTypeTownhouse PropertyType = "townhouse"
	PropertyTypeCottage   PropertyType = "cottage"
	PropertyTypeOther     PropertyType = "other"
)

var PropertyTypes = []PropertyType{
	PropertyTypeApartment,
	PropertyTypeHouse,
	PropertyTypeVilla,
	PropertyTypeCabin,
	PropertyTypeLoft,
	PropertyTypeTownhouse,
	PropertyTypeCottage,
	PropertyTypeOther,
}

func (t PropertyType) Valid() bool {
	for _, pt := range PropertyTypes {
		if pt == t {
			return true
		}
	}
	return false
}

// GeohashPrecision is the length of the geohash stored on every property.
const GeohashPrecision = 9

type Property struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title" validate:"required,max=255"`
	Description string    `gorm:"type:text" json:"description" validate:"required"`
	Location    string    `gorm:"size:255;not null;index" json:"location" validate:"required,max=255"`
	Address     string    `gorm:"type:text" json:"address" validate:"required"`
	Latitude    *float64  `gorm:"type:decimal(9,6)" json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64  `gorm:"type:decimal(9,6)" json:"longitude" validate:"omitempty,longitude"`
	Geohash     string    `gorm:"size:12;index" json:"-"`

	PropertyType  PropertyType `gorm:"type:varchar(20);not null;index" json:"property_type" validate:"required,property_type"`
	PricePerNight float64      `gorm:"type:decimal(10,2);not null" json:"price_per_night" validate:"gt=0"`

	Guests    int `gorm:"not null" json:"guests" validate:"min=1"`
	Bedrooms  int `gorm:"not null" json:"bedrooms" validate:"min=1"`
	Bathrooms int `gorm:"not null" json:"bathrooms" validate:"min=1"`

	Amenities datatypes.JSONSlice[string] `json:"amenities_list"`
	// Case-folded amenities joined as "|a|b|", for dialect-independent matching.
	AmenitiesKey string `gorm:"type:text" json:"-"`

	IsAvailable   bool `gorm:"column:is_available;index" json:"is_available"`
	MinimumNights int  `gorm:"not null" json:"minimum_nights" validate:"min=1,ltefield=MaximumNights"`
	MaximumNights int  `gorm:"not null" json:"maximum_nights" validate:"min=1"`

	HostID uint     `gorm:"index;not null" json:"-"`
	Host   *Account `gorm:"foreignKey:HostID;constraint:OnDelete:CASCADE" json:"host,omitempty" validate:"-"`

	Images []PropertyImage `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"images" validate:"-"`

	AverageRating float64 `gorm:"type:decimal(3,2);not null;default:0" json:"average_rating"`
	ReviewCount   int     `gorm:"not null;default:0" json:"review_count"`

	// Filled per request for the caller, never stored.
	IsWishlisted bool `gorm:"-" json:"is_wishlisted"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Property) BeforeSave(tx *gorm.DB) error {
	p.Amenities = NormalizeAmenities(p.Amenities)
	p.AmenitiesKey = amenitiesKey(p.Amenities)
	p.Geohash = ""
	if p.Latitude != nil && p.Longitude != nil {
		p.Geohash = geohash.EncodeWithPrecision(*p.Latitude, *p.Longitude, GeohashPrecision)
	}
	return nil
}

// FoldAmenity is the case-folded form used to compare amenities.
func FoldAmenity(a string) string {
	return cases.Fold().String(strings.TrimSpace(a))
}

// amenitiesKey joins folded amenities as "|a|b|".
func amenitiesKey(amenities []string) string {
	if len(amenities) == 0 {
		return ""
	}
	folded := make([]string, len(amenities))
	for i, a := range amenities {
		folded[i] = FoldAmenity(a)
	}
	return "|" + strings.Join(folded, "|") + "|"
}

// NormalizeAmenities trims entries, drops blanks and removes case-insensitive
// duplicates while keeping the first spelling and the original order.
func NormalizeAmenities(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		key := FoldAmenity(a)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}
