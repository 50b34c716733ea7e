package config

import (
	"errors"
	"fmt"
	"log/slog"

	"rental-backend/models"
	"rental-backend/utils"

	"gorm.io/gorm"
)

const sampleHostEmail = "host@example.com"

type sampleProperty struct {
	Title         string
	Description   string
	Location      string
	Address       string
	Type          models.PropertyType
	PricePerNight float64
	Bedrooms      int
	Bathrooms     int
	Guests        int
	Amenities     []string
	Lat, Lng      float64
}

var sampleProperties = []sampleProperty{
	{
		Title:         "Modern Apartment in Downtown",
		Description:   "Beautiful modern apartment with stunning city views. Perfect for business travelers and couples.",
		Location:      "New York, United States",
		Address:       "123 Main St, New York, NY 10001",
		Type:          models.PropertyTypeApartment,
		PricePerNight: 120,
		Bedrooms:      2, Bathrooms: 1, Guests: 4,
		Amenities: []string{"WiFi", "Kitchen", "Air conditioning", "Heating"},
		Lat:       40.7506, Lng: -73.9972,
	},
	{
		Title:         "Cozy Beach House",
		Description:   "Relaxing beachfront property with direct ocean access. Wake up to the sound of waves.",
		Location:      "Miami, United States",
		Address:       "456 Ocean Drive, Miami, FL 33139",
		Type:          models.PropertyTypeHouse,
		PricePerNight: 200,
		Bedrooms:      3, Bathrooms: 2, Guests: 6,
		Amenities: []string{"WiFi", "Kitchen", "Beach access", "Parking"},
		Lat:       25.7781, Lng: -80.1300,
	},
	{
		Title:         "Mountain Cabin Retreat",
		Description:   "Peaceful cabin in the mountains with hiking trails nearby. Perfect for nature lovers.",
		Location:      "Denver, United States",
		Address:       "789 Mountain View Rd, Denver, CO 80202",
		Type:          models.PropertyTypeCabin,
		PricePerNight: 85,
		Bedrooms:      2, Bathrooms: 1, Guests: 4,
		Amenities: []string{"WiFi", "Fireplace", "Kitchen", "Hiking trails"},
		Lat:       39.7525, Lng: -104.9995,
	},
	{
		Title:         "Luxury Villa with Pool",
		Description:   "Spacious villa with private pool and garden. Ideal for family vacations.",
		Location:      "Los Angeles, United States",
		Address:       "321 Beverly Hills Dr, Los Angeles, CA 90210",
		Type:          models.PropertyTypeVilla,
		PricePerNight: 350,
		Bedrooms:      5, Bathrooms: 3, Guests: 10,
		Amenities: []string{"WiFi", "Pool", "Kitchen", "Garden", "Parking"},
		Lat:       34.0901, Lng: -118.4065,
	},
	{
		Title:         "Historic Loft in Arts District",
		Description:   "Unique loft in a converted warehouse with exposed brick and high ceilings.",
		Location:      "Chicago, United States",
		Address:       "654 Arts District Ave, Chicago, IL 60601",
		Type:          models.PropertyTypeLoft,
		PricePerNight: 95,
		Bedrooms:      1, Bathrooms: 1, Guests: 2,
		Amenities: []string{"WiFi", "Kitchen", "Workspace", "Art galleries nearby"},
		Lat:       41.8858, Lng: -87.6229,
	},
}

// SeedDatabase creates a sample host and sample listings; existing titles
// are skipped so it can run repeatedly.
func SeedDatabase(db *gorm.DB) (int, error) {
	var host models.Account
	err := db.Where("email = ?", sampleHostEmail).First(&host).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hash, hErr := utils.HashPassword("password123")
		if hErr != nil {
			return 0, fmt.Errorf("hash sample host password: %w", hErr)
		}
		host = models.Account{
			Email:    sampleHostEmail,
			Name:     "John Host",
			Password: hash,
			IsHost:   true,
			IsActive: true,
		}
		if err := db.Create(&host).Error; err != nil {
			return 0, fmt.Errorf("create sample host: %w", err)
		}
		slog.Info("created sample host", "email", sampleHostEmail)
	} else if err != nil {
		return 0, fmt.Errorf("lookup sample host: %w", err)
	}

	created := 0
	for _, sp := range sampleProperties {
		var count int64
		if err := db.Model(&models.Property{}).Where("title = ?", sp.Title).Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}

		lat, lng := sp.Lat, sp.Lng
		p := models.Property{
			Title:         sp.Title,
			Description:   sp.Description,
			Location:      sp.Location,
			Address:       sp.Address,
			Latitude:      &lat,
			Longitude:     &lng,
			PropertyType:  sp.Type,
			PricePerNight: sp.PricePerNight,
			Guests:        sp.Guests,
			Bedrooms:      sp.Bedrooms,
			Bathrooms:     sp.Bathrooms,
			Amenities:     sp.Amenities,
			IsAvailable:   true,
			MinimumNights: 1,
			MaximumNights: 365,
			HostID:        host.ID,
		}
		if err := db.Create(&p).Error; err != nil {
			return created, fmt.Errorf("create sample property %q: %w", sp.Title, err)
		}
		created++
		slog.Info("created sample property", "title", p.Title)
	}

	return created, nil
}
