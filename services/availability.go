package services

import (
	"fmt"
	"strings"
	"time"

	"rental-backend/models"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
	"gorm.io/gorm"
)

// PropertyFilter holds the optional criteria of a property listing query.
// Zero values mean "no constraint".
type PropertyFilter struct {
	Destination  string
	Search       string
	CheckIn      *time.Time
	CheckOut     *time.Time
	Guests       *int
	MinPrice     *float64
	MaxPrice     *float64
	PropertyType string
	Amenities    []string
	Near         *GeoPoint
	Ordering     string
}

// GeoPoint narrows a query to properties sharing the point's geohash cell.
type GeoPoint struct {
	Lat       float64
	Lng       float64
	Precision uint
}

const DefaultNearPrecision uint = 5

var orderingColumns = map[string]string{
	"price_per_night": "properties.price_per_night",
	"average_rating":  "properties.average_rating",
	"created_at":      "properties.created_at",
}

// orderClause turns "field" / "-field" into an ORDER BY expression. Unknown
// fields fall back to newest first.
func orderClause(ordering string) string {
	ordering = strings.TrimSpace(ordering)
	dir := "ASC"
	if strings.HasPrefix(ordering, "-") {
		dir = "DESC"
		ordering = ordering[1:]
	}
	col, ok := orderingColumns[ordering]
	if !ok {
		return "properties.created_at DESC"
	}
	return col + " " + dir
}

// likeEscaper escapes LIKE wildcards for patterns matched with ESCAPE '!'.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func likeContains(s string) string {
	return "%" + escapeLike(strings.ToLower(strings.TrimSpace(s))) + "%"
}

// bookedPropertyIDs selects properties holding an active reservation that
// intersects [checkIn, checkOut).
func bookedPropertyIDs(db *gorm.DB, checkIn, checkOut time.Time) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Reservation{}).
		Select("property_id").
		Where("status IN ? AND check_in < ? AND check_out > ?",
			models.ActiveReservationStatuses, models.DateOnly(checkOut), models.DateOnly(checkIn))
}

// hasActiveOverlap reports whether propertyID already has an active
// reservation intersecting [checkIn, checkOut).
func hasActiveOverlap(tx *gorm.DB, propertyID uuid.UUID, checkIn, checkOut time.Time) (bool, error) {
	var n int64
	err := bookedPropertyIDs(tx, checkIn, checkOut).
		Where("property_id = ?", propertyID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check overlapping reservations: %w", err)
	}
	return n > 0, nil
}

// applyPropertyFilter adds the WHERE clauses of f to q. Only listed
// (is_available) properties are considered.
func applyPropertyFilter(db, q *gorm.DB, f PropertyFilter) *gorm.DB {
	q = q.Where("properties.is_available = ?", true)

	textMatch := "(LOWER(properties.location) LIKE ? ESCAPE '!' OR LOWER(properties.title) LIKE ? ESCAPE '!' OR LOWER(properties.description) LIKE ? ESCAPE '!')"
	if s := strings.TrimSpace(f.Destination); s != "" {
		p := likeContains(s)
		q = q.Where(textMatch, p, p, p)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := likeContains(s)
		q = q.Where(textMatch, p, p, p)
	}

	if f.Guests != nil {
		q = q.Where("properties.guests >= ?", *f.Guests)
	}
	if f.MinPrice != nil {
		q = q.Where("properties.price_per_night >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("properties.price_per_night <= ?", *f.MaxPrice)
	}

	if pt := strings.TrimSpace(f.PropertyType); pt != "" && pt != "all" {
		q = q.Where("properties.property_type = ?", pt)
	}

	for _, a := range f.Amenities {
		if a = models.FoldAmenity(a); a != "" {
			q = q.Where("properties.amenities_key LIKE ? ESCAPE '!'", "%"+escapeLike(a)+"%")
		}
	}

	if f.Near != nil {
		precision := f.Near.Precision
		if precision == 0 {
			precision = DefaultNearPrecision
		}
		cell := geohash.EncodeWithPrecision(f.Near.Lat, f.Near.Lng, precision)
		q = q.Where("properties.geohash LIKE ? ESCAPE '!'", escapeLike(cell)+"%")
	}

	if f.CheckIn != nil && f.CheckOut != nil {
		q = q.Where("properties.id NOT IN (?)", bookedPropertyIDs(db, *f.CheckIn, *f.CheckOut))
	}

	return q.Order(orderClause(f.Ordering))
}
