package controllers

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryContext(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/properties/search/?"+rawQuery, nil)
	return c
}

func TestParsePropertyFilter(t *testing.T) {
	f, fields := parsePropertyFilter(queryContext(
		"destination=porto&check_in=2024-05-01&check_out=2024-05-04&guests=2&min_price=50&max_price=150.5"+
			"&amenities=wifi,pool&amenities=parking&near=41.15,-8.61&precision=4&ordering=-price_per_night",
	), true)
	require.Nil(t, fields)

	assert.Equal(t, "porto", f.Destination)
	require.NotNil(t, f.CheckIn)
	require.NotNil(t, f.CheckOut)
	assert.Equal(t, "2024-05-01", f.CheckIn.Format(dateLayout))
	assert.Equal(t, 2, *f.Guests)
	assert.Equal(t, 50.0, *f.MinPrice)
	assert.Equal(t, 150.5, *f.MaxPrice)
	assert.Equal(t, []string{"wifi", "pool", "parking"}, f.Amenities)
	require.NotNil(t, f.Near)
	assert.Equal(t, uint(4), f.Near.Precision)
	assert.Equal(t, "-price_per_night", f.Ordering)
}

func TestParsePropertyFilterErrors(t *testing.T) {
	raw := "check_in=2024-05-04&check_out=2024-05-01&guests=x&min_price=-1&property_type=castle&near=91,0"

	_, fields := parsePropertyFilter(queryContext(raw), true)
	assert.Equal(t, []string{"check_out", "guests", "min_price", "near", "property_type"}, sortedKeys(fields))

	f, fields := parsePropertyFilter(queryContext(raw), false)
	assert.Nil(t, fields)
	assert.Nil(t, f.Guests)
	assert.Nil(t, f.Near)
	assert.Equal(t, "castle", f.PropertyType)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
