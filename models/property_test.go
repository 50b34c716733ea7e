package models_test

import (
	"testing"

	"rental-backend/models"
	"rental-backend/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAmenities(t *testing.T) {
	got := models.NormalizeAmenities([]string{" WiFi", "Pool", "", "wifi ", "  ", "Kitchen"})
	assert.Equal(t, []string{"WiFi", "Pool", "Kitchen"}, got)
	assert.Equal(t, []string{"Café"}, models.NormalizeAmenities([]string{"Café", "CAFÉ"}))
	assert.Empty(t, models.NormalizeAmenities(nil))
}

func TestPropertyTypeValid(t *testing.T) {
	for _, pt := range models.PropertyTypes {
		assert.True(t, pt.Valid(), pt)
	}
	assert.False(t, models.PropertyType("castle").Valid())
	assert.False(t, models.PropertyType("").Valid())
}

func TestPropertySaveSetsIDAndGeohash(t *testing.T) {
	db := testutil.NewDB(t)
	host := testutil.NewAccount(t, db, "host@example.com", true)

	lat, lng := 38.7223, -9.1393
	p := testutil.NewProperty(t, db, host, func(p *models.Property) {
		p.Latitude, p.Longitude = &lat, &lng
		p.Amenities = []string{"Pool", "pool", " Parking "}
	})

	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Len(t, p.Geohash, models.GeohashPrecision)
	assert.Equal(t, "eycs2", p.Geohash[:5])

	var stored models.Property
	require.NoError(t, db.First(&stored, "id = ?", p.ID).Error)
	assert.Equal(t, []string{"Pool", "Parking"}, []string(stored.Amenities))
	assert.Equal(t, p.Geohash, stored.Geohash)

	stored.Latitude, stored.Longitude = nil, nil
	require.NoError(t, db.Save(&stored).Error)
	assert.Empty(t, stored.Geohash)
}

func TestAccountEmailIsNormalized(t *testing.T) {
	db := testutil.NewDB(t)
	acc := testutil.NewAccount(t, db, "  Mixed.Case@Example.COM ", false)
	assert.Equal(t, "mixed.case@example.com", acc.Email)
}
