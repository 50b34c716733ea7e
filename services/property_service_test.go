package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"rental-backend/models"
	"rental-backend/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const onePixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func ptr[T any](v T) *T { return &v }

func titles(props []models.Property) []string {
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = p.Title
	}
	return out
}

func datePtr(t *testing.T, s string) *time.Time {
	d := testutil.Date(t, s)
	return &d
}

func newPropertyService(t *testing.T) (*PropertyService, *gorm.DB) {
	db := testutil.NewDB(t)
	return NewPropertyService(db, NewImageStore(t.TempDir())), db
}

func TestListProperties_ExcludesActiveOverlaps(t *testing.T) {
	svc, db := newPropertyService(t)
	host := testutil.NewAccount(t, db, "host@example.com", true)
	guest := testutil.NewAccount(t, db, "guest@example.com", false)

	booked := testutil.NewProperty(t, db, host, func(p *models.Property) { p.Title = "Booked" })
	free := testutil.NewProperty(t, db, host, func(p *models.Property) { p.Title = "Free" })
	cancelled := testutil.NewProperty(t, db, host, func(p *models.Property) { p.Title = "Cancelled" })
	testutil.NewReservation(t, db, booked, guest, "2024-01-01", "2024-01-05", models.ReservationPending)
	testutil.NewReservation(t, db, cancelled, guest, "2024-01-01", "2024-01-05", models.ReservationCancelled)
	testutil.NewReservation(t, db, free, guest, "2023-12-01", "2023-12-05", models.ReservationConfirmed)

	tests := []struct {
		name      string
		in, out   string
		wantTitle []string
	}{
		{"overlapping", "2024-01-03", "2024-01-07", []string{"Cancelled", "Free"}},
		{"starts on check-out day", "2024-01-05", "2024-01-07", []string{"Booked", "Cancelled", "Free"}},
		{"ends on check-in day", "2023-12-28", "2024-01-01", []string{"Booked", "Cancelled", "Free"}},
		{"covering", "2023-12-31", "2024-01-10", []string{"Cancelled", "Free"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props, err := svc.List(PropertyFilter{
				CheckIn:  datePtr(t, tt.in),
				CheckOut: datePtr(t, tt.out),
			}, nil)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.wantTitle, titles(props))
		})
	}

	// a single date does not filter
	props, err := svc.List(PropertyFilter{CheckIn: datePtr(t, "2024-01-03")}, nil)
	require.NoError(t, err)
	assert.Len(t, props, 3)
}

func TestListProperties_Filters(t *testing.T) {
	svc, db := newPropertyService(t)
	host := testutil.NewAccount(t, db, "host@example.com", true)

	lisbon, lisbonLng := 38.7223, -9.1393
	testutil.NewProperty(t, db, host, func(p *models.Property) {
		p.Title = "Beach Villa"
		p.Location = "Miami, FL"
		p.PropertyType = models.PropertyTypeVilla
		p.PricePerNight = 450
		p.Guests = 8
		p.Amenities = []string{"Pool", "WiFi", "Beach Access"}
	})
	testutil.NewProperty(t, db, host, func(p *models.Property) {
		p.Title = "City Loft"
		p.Location = "Lisbon, Portugal"
		p.Description = "Close to the river"
		p.PropertyType = models.PropertyTypeLoft
		p.PricePerNight = 120
		p.Guests = 2
		p.Amenities = []string{"WiFi", "Kitchen", "Café"}
		p.Latitude, p.Longitude = &lisbon, &lisbonLng
	})
	testutil.NewProperty(t, db, host, func(p *models.Property) {
		p.Title = "Mountain Cabin"
		p.Location = "Aspen, CO"
		p.Description = "100% off-grid"
		p.PropertyType = models.PropertyTypeCabin
		p.PricePerNight = 200
		p.Guests = 6
		p.Amenities = []string{"Fireplace"}
	})
	testutil.NewProperty(t, db, host, func(p *models.Property) {
		p.Title = "Hidden Loft"
		p.Location = "Lisbon, Portugal"
		p.IsAvailable = false
	})

	tests := []struct {
		name   string
		filter PropertyFilter
		want   []string
	}{
		{"all listed", PropertyFilter{}, []string{"Beach Villa", "City Loft", "Mountain Cabin"}},
		{"destination matches location case-insensitively", PropertyFilter{Destination: "lisbon"}, []string{"City Loft"}},
		{"destination matches description", PropertyFilter{Destination: "RIVER"}, []string{"City Loft"}},
		{"search matches title", PropertyFilter{Search: "cabin"}, []string{"Mountain Cabin"}},
		{"guests", PropertyFilter{Guests: ptr(6)}, []string{"Beach Villa", "Mountain Cabin"}},
		{"price range", PropertyFilter{MinPrice: ptr(150.0), MaxPrice: ptr(450.0)}, []string{"Beach Villa", "Mountain Cabin"}},
		{"type", PropertyFilter{PropertyType: "villa"}, []string{"Beach Villa"}},
		{"type all", PropertyFilter{PropertyType: "all"}, []string{"Beach Villa", "City Loft", "Mountain Cabin"}},
		{"amenities are AND-ed", PropertyFilter{Amenities: []string{"wifi", "POOL"}}, []string{"Beach Villa"}},
		{"amenity substring", PropertyFilter{Amenities: []string{"fire"}}, []string{"Mountain Cabin"}},
		{"amenity unicode case folding", PropertyFilter{Amenities: []string{"CAFÉ"}}, []string{"City Loft"}},
		{"underscore is literal", PropertyFilter{Destination: "_"}, []string{}},
		{"percent is literal", PropertyFilter{Destination: "%"}, []string{"Mountain Cabin"}},
		{"wildcard inside a term", PropertyFilter{Destination: "L_sbon"}, []string{}},
		{"literal percent term", PropertyFilter{Search: "100% off"}, []string{"Mountain Cabin"}},
		{"underscore amenity", PropertyFilter{Amenities: []string{"_"}}, []string{}},
		{"escape character is literal", PropertyFilter{Destination: "!"}, []string{}},
		{"near", PropertyFilter{Near: &GeoPoint{Lat: 38.72, Lng: -9.14, Precision: 4}}, []string{"City Loft"}},
		{"near elsewhere", PropertyFilter{Near: &GeoPoint{Lat: 40.71, Lng: -74.0, Precision: 4}}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props, err := svc.List(tt.filter, nil)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, titles(props))
		})
	}
}

func TestListProperties_Ordering(t *testing.T) {
	svc, db := newPropertyService(t)
	host := testutil.NewAccount(t, db, "host@example.com", true)
	for i, price := range []float64{200, 100, 300} {
		created := time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC)
		title := []string{"B", "A", "C"}[i]
		testutil.NewProperty(t, db, host, func(p *models.Property) {
			p.Title = title
			p.PricePerNight = price
			p.CreatedAt = created
		})
	}

	order := func(ordering string) []string {
		props, err := svc.List(PropertyFilter{Ordering: ordering}, nil)
		require.NoError(t, err)
		return titles(props)
	}
	assert.Equal(t, []string{"A", "B", "C"}, order("price_per_night"))
	assert.Equal(t, []string{"C", "B", "A"}, order("-price_per_night"))
	assert.Equal(t, []string{"B", "A", "C"}, order("created_at"))
	assert.Equal(t, []string{"C", "A", "B"}, order(""))
	assert.Equal(t, []string{"C", "A", "B"}, order("title; DROP TABLE properties"))
}

func TestCreateProperty(t *testing.T) {
	svc, db := newPropertyService(t)
	host := testutil.NewAccount(t, db, "host@example.com", true)
	guest := testutil.NewAccount(t, db, "guest@example.com", false)

	in := PropertyInput{
		Title:         ptr("Sea View"),
		Description:   ptr("Bright flat"),
		Location:      ptr("Porto"),
		Address:       ptr("2 Rua das Flores"),
		PricePerNight: ptr(80.0),
		Amenities:     &[]string{"WiFi", " wifi", "Balcony"},
	}

	_, err := svc.Create(guest, in)
	requireKind(t, err, ErrForbidden, "Only hosts can list properties.")

	p, err := svc.Create(host, in)
	require.NoError(t, err)
	assert.Equal(t, models.PropertyTypeApartment, p.PropertyType)
	assert.True(t, p.IsAvailable)
	assert.Equal(t, 1, p.MinimumNights)
	assert.Equal(t, 365, p.MaximumNights)
	assert.Equal(t, []string{"WiFi", "Balcony"}, []string(p.Amenities))
	require.NotNil(t, p.Host)
	assert.Equal(t, host.ID, p.Host.ID)

	_, err = svc.Create(host, PropertyInput{Title: ptr("Only a title")})
	se := requireKind(t, err, ErrValidation, "")
	assert.Contains(t, se.Fields, "description")
	assert.Contains(t, se.Fields, "price_per_night")

	bad := in
	bad.MinimumNights = ptr(10)
	bad.MaximumNights = ptr(5)
	bad.PropertyType = ptr(models.PropertyType("castle"))
	bad.PricePerNight = ptr(0.0)
	_, err = svc.Create(host, bad)
	se = requireKind(t, err, ErrValidation, "")
	assert.Contains(t, se.Fields, "minimum_nights")
	assert.Contains(t, se.Fields, "property_type")
	assert.Contains(t, se.Fields, "price_per_night")
}

func TestUpdateAndDeleteProperty_OwnerOnly(t *testing.T) {
	svc, db := newPropertyService(t)
	host := testutil.NewAccount(t, db, "host@example.com", true)
	intruder := testutil.NewAccount(t, db, "intruder@example.com", true)
	guest := testutil.NewAccount(t, db, "guest@example.com", false)
	p := testutil.NewProperty(t, db, host)

	_, err := svc.Update(intruder, p.ID, PropertyInput{Title: ptr("Mine now")}, true)
	requireKind(t, err, ErrForbidden, "You can only edit your own properties.")

	_, err = svc.Update(host, p.ID, PropertyInput{Title: ptr("Renamed")}, false)
	requireKind(t, err, ErrValidation, "")

	updated, err := svc.Update(host, p.ID, PropertyInput{Title: ptr("Renamed"), IsAvailable: ptr(false)}, true)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.False(t, updated.IsAvailable)
	assert.Equal(t, p.Location, updated.Location)

	_, err = svc.Update(host, uuid.New(), PropertyInput{}, true)
	requireKind(t, err, ErrNotFound, "")

	err = svc.Delete(intruder, p.ID)
	requireKind(t, err, ErrForbidden, "You can only delete your own properties.")

	r := testutil.NewReservation(t, db, p, guest, "2024-01-01", "2024-01-03", models.ReservationCompleted)
	require.NoError(t, db.Create(&models.Review{PropertyID: p.ID, GuestID: guest.ID, ReservationID: r.ID, Rating: 5, Comment: "Great"}).Error)
	require.NoError(t, db.Create(&models.Wishlist{UserID: guest.ID, PropertyID: p.ID}).Error)

	require.NoError(t, svc.Delete(host, p.ID))
	for _, m := range []interface{}{&models.Property{}, &models.Reservation{}, &models.Review{}, &models.Wishlist{}} {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		assert.Zero(t, n, "%T left behind", m)
	}
}

func TestGetProperty_Wishlisted(t *testing.T) {
	svc, db := newPropertyService(t)
	host := testutil.NewAccount(t, db, "host@example.com", true)
	guest := testutil.NewAccount(t, db, "guest@example.com", false)
	p := testutil.NewProperty(t, db, host)
	require.NoError(t, db.Create(&models.Wishlist{UserID: guest.ID, PropertyID: p.ID}).Error)

	got, err := svc.Get(p.ID, guest)
	require.NoError(t, err)
	assert.True(t, got.IsWishlisted)

	got, err = svc.Get(p.ID, host)
	require.NoError(t, err)
	assert.False(t, got.IsWishlisted)

	got, err = svc.Get(p.ID, nil)
	require.NoError(t, err)
	assert.False(t, got.IsWishlisted)

	_, err = svc.Get(uuid.New(), nil)
	requireKind(t, err, ErrNotFound, "Property not found.")
}

func TestListByHost_IncludesUnavailable(t *testing.T) {
	svc, db := newPropertyService(t)
	host := testutil.NewAccount(t, db, "host@example.com", true)
	other := testutil.NewAccount(t, db, "other@example.com", true)
	testutil.NewProperty(t, db, host, func(p *models.Property) { p.IsAvailable = false })
	testutil.NewProperty(t, db, host)
	testutil.NewProperty(t, db, other)

	props, err := svc.ListByHost(host)
	require.NoError(t, err)
	assert.Len(t, props, 2)
}

func TestPropertyImages(t *testing.T) {
	svc, db := newPropertyService(t)
	host := testutil.NewAccount(t, db, "host@example.com", true)
	intruder := testutil.NewAccount(t, db, "intruder@example.com", true)
	p := testutil.NewProperty(t, db, host)

	_, err := svc.AddImage(intruder, p.ID, ImageInput{Data: onePixelPNG})
	requireKind(t, err, ErrForbidden, "")

	_, err = svc.AddImage(host, p.ID, ImageInput{Data: "not base64!"})
	requireKind(t, err, ErrValidation, "")

	_, err = svc.AddImage(host, p.ID, ImageInput{Data: "aGVsbG8gd29ybGQ="})
	requireKind(t, err, ErrValidation, "")

	first, err := svc.AddImage(host, p.ID, ImageInput{Data: "data:image/png;base64," + onePixelPNG, IsPrimary: true})
	require.NoError(t, err)
	assert.Regexp(t, `^property_images/[0-9a-f-]+\.png$`, first.Image)
	_, err = os.Stat(filepath.Join(svc.Images.Root, first.Image))
	require.NoError(t, err)

	second, err := svc.AddImage(host, p.ID, ImageInput{Data: onePixelPNG, IsPrimary: true, Caption: "Front"})
	require.NoError(t, err)

	got, err := svc.Get(p.ID, nil)
	require.NoError(t, err)
	require.Len(t, got.Images, 2)
	assert.Equal(t, second.ID, got.Images[0].ID)
	assert.True(t, got.Images[0].IsPrimary)
	assert.False(t, got.Images[1].IsPrimary)

	require.NoError(t, svc.DeleteImage(host, p.ID, first.ID))
	_, err = os.Stat(filepath.Join(svc.Images.Root, first.Image))
	assert.True(t, os.IsNotExist(err))

	err = svc.DeleteImage(host, p.ID, first.ID)
	requireKind(t, err, ErrNotFound, "Image not found.")
}
