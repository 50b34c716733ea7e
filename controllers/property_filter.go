package controllers

import (
	"fmt"
	"strconv"
	"strings"

	"rental-backend/models"
	"rental-backend/services"

	"github.com/gin-gonic/gin"
)

// parsePropertyFilter reads listing query parameters. In strict mode every
// malformed value is reported; otherwise malformed values are dropped.
func parsePropertyFilter(c *gin.Context, strict bool) (services.PropertyFilter, map[string]string) {
	f := services.PropertyFilter{
		Destination:  c.Query("destination"),
		Search:       c.Query("search"),
		PropertyType: strings.TrimSpace(c.Query("property_type")),
		Ordering:     c.Query("ordering"),
		Amenities:    splitAmenities(c.QueryArray("amenities")),
	}
	fields := map[string]string{}
	fail := func(field, msg string) {
		if strict {
			fields[field] = msg
		}
	}

	if raw := c.Query("check_in"); raw != "" {
		if t, err := parseDate(raw); err == nil {
			f.CheckIn = &t
		} else {
			fail("check_in", msgBadDate)
		}
	}
	if raw := c.Query("check_out"); raw != "" {
		if t, err := parseDate(raw); err == nil {
			f.CheckOut = &t
		} else {
			fail("check_out", msgBadDate)
		}
	}
	if f.CheckIn != nil && f.CheckOut != nil && !f.CheckIn.Before(*f.CheckOut) {
		fail("check_out", "Check-out date must be after check-in date.")
	}

	if raw := c.Query("guests"); raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		switch {
		case err != nil:
			fail("guests", "A valid integer is required.")
		case n < 1 && strict:
			fail("guests", "Ensure this value is greater than or equal to 1.")
		default:
			f.Guests = &n
		}
	}

	f.MinPrice = parsePrice(c.Query("min_price"), "min_price", fail)
	f.MaxPrice = parsePrice(c.Query("max_price"), "max_price", fail)

	if strict && f.PropertyType != "" && f.PropertyType != "all" && !models.PropertyType(f.PropertyType).Valid() {
		fail("property_type", fmt.Sprintf("%q is not a valid choice.", f.PropertyType))
	}

	if raw := c.Query("near"); raw != "" {
		point, ok := parseNear(raw)
		if !ok {
			fail("near", "Expected \"lat,lng\".")
		} else {
			if rawP := c.Query("precision"); rawP != "" {
				p, err := strconv.ParseUint(strings.TrimSpace(rawP), 10, 8)
				if err != nil || p < 1 || p > models.GeohashPrecision {
					fail("precision", fmt.Sprintf("Ensure this value is between 1 and %d.", models.GeohashPrecision))
				} else {
					point.Precision = uint(p)
				}
			}
			f.Near = point
		}
	}

	if len(fields) == 0 {
		return f, nil
	}
	return f, fields
}

func parsePrice(raw, field string, fail func(field, msg string)) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		fail(field, "A valid number is required.")
		return nil
	}
	if v < 0 {
		fail(field, "Ensure this value is greater than or equal to 0.")
	}
	return &v
}

func parseNear(raw string) (*services.GeoPoint, bool) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return nil, false
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, false
	}
	return &services.GeoPoint{Lat: lat, Lng: lng, Precision: services.DefaultNearPrecision}, true
}

// splitAmenities accepts repeated parameters and comma separated values.
func splitAmenities(values []string) []string {
	var out []string
	for _, v := range values {
		for _, a := range strings.Split(v, ",") {
			if a = strings.TrimSpace(a); a != "" {
				out = append(out, a)
			}
		}
	}
	return out
}
