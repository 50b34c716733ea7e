package services

import (
	"testing"

	"rental-backend/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlist(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewWishlistService(db)
	host := testutil.NewAccount(t, db, "host@example.com", true)
	guest := testutil.NewAccount(t, db, "guest@example.com", false)
	p := testutil.NewProperty(t, db, host)

	item, err := svc.Add(guest, p.ID)
	require.NoError(t, err)
	require.NotNil(t, item.Property)
	assert.Equal(t, p.ID, item.Property.ID)
	assert.True(t, item.Property.IsWishlisted)

	_, err = svc.Add(guest, p.ID)
	requireKind(t, err, ErrForbidden, "Property already in wishlist.")

	_, err = svc.Add(guest, uuid.New())
	requireKind(t, err, ErrNotFound, "")

	// another user's list is independent
	_, err = svc.Add(host, p.ID)
	require.NoError(t, err)

	items, err := svc.List(guest)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, p.ID, items[0].Property.ID)

	require.NoError(t, svc.Remove(guest, p.ID))
	err = svc.Remove(guest, p.ID)
	requireKind(t, err, ErrNotFound, "Property not in wishlist.")

	items, err = svc.List(guest)
	require.NoError(t, err)
	assert.Empty(t, items)
}
