package services

import (
	"testing"
	"time"

	"rental-backend/models"
	"rental-backend/testutil"
	"rental-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAccountService(t *testing.T) (*AccountService, *gorm.DB) {
	db := testutil.NewDB(t)
	return NewAccountService(db, utils.NewTokenIssuer("test-secret", time.Hour)), db
}

func TestRegister(t *testing.T) {
	svc, _ := newAccountService(t)

	acc, err := svc.Register(RegisterInput{Email: " New@Example.com", Name: "New", Password: "longenough", PasswordConfirm: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", acc.Email)
	assert.True(t, acc.IsActive)
	assert.False(t, acc.IsHost)
	assert.NotEqual(t, "longenough", acc.Password)

	_, err = svc.Register(RegisterInput{Email: "new@example.com", Password: "longenough", PasswordConfirm: "longenough"})
	se := requireKind(t, err, ErrValidation, "")
	assert.Contains(t, se.Fields, "email")

	_, err = svc.Register(RegisterInput{Email: "short@example.com", Password: "short", PasswordConfirm: "short"})
	se = requireKind(t, err, ErrValidation, "")
	assert.Contains(t, se.Fields, "password")

	_, err = svc.Register(RegisterInput{Email: "mismatch@example.com", Password: "longenough", PasswordConfirm: "different"})
	requireKind(t, err, ErrValidation, "Passwords do not match.")

	_, err = svc.Register(RegisterInput{Email: "not-an-email", Password: "longenough", PasswordConfirm: "longenough"})
	se = requireKind(t, err, ErrValidation, "")
	assert.Contains(t, se.Fields, "email")
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, db := newAccountService(t)
	acc := testutil.NewAccount(t, db, "guest@example.com", false)

	_, err := svc.Login("guest@example.com", "wrong-password")
	requireKind(t, err, ErrUnauthorized, msgBadCredentials)

	_, err = svc.Login("nobody@example.com", testutil.Password)
	requireKind(t, err, ErrUnauthorized, msgBadCredentials)

	session, err := svc.Login("GUEST@example.com", testutil.Password)
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, acc.ID, session.User.ID)

	got, err := svc.Authenticate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)

	_, err = svc.Authenticate("garbage")
	requireKind(t, err, ErrUnauthorized, "")

	require.NoError(t, db.Model(acc).Update("is_active", false).Error)
	_, err = svc.Authenticate(session.Token)
	requireKind(t, err, ErrUnauthorized, "User account is disabled.")
	_, err = svc.Login("guest@example.com", testutil.Password)
	requireKind(t, err, ErrUnauthorized, "User account is disabled.")
}

func TestUpdateProfile(t *testing.T) {
	svc, db := newAccountService(t)
	acc := testutil.NewAccount(t, db, "guest@example.com", false)

	bio := "Traveller"
	isHost := true
	updated, err := svc.UpdateProfile(acc, ProfileInput{Bio: &bio, IsHost: &isHost})
	require.NoError(t, err)
	assert.Equal(t, "Traveller", updated.Bio)
	assert.True(t, updated.IsHost)

	var stored models.Account
	require.NoError(t, db.First(&stored, acc.ID).Error)
	assert.Equal(t, "Traveller", stored.Bio)
	assert.Equal(t, "guest@example.com", stored.Email)
}

func TestUpdateProfileKeepsPasswordChangedMeanwhile(t *testing.T) {
	svc, db := newAccountService(t)
	acc := testutil.NewAccount(t, db, "guest@example.com", false)
	stale := *acc

	require.NoError(t, svc.ChangePassword(acc, ChangePasswordInput{
		OldPassword: testutil.Password, NewPassword: "newpassword", NewPasswordConfirm: "newpassword",
	}))

	name := "Renamed"
	_, err := svc.UpdateProfile(&stale, ProfileInput{Name: &name})
	require.NoError(t, err)

	_, err = svc.Login("guest@example.com", "newpassword")
	require.NoError(t, err)
	_, err = svc.Login("guest@example.com", testutil.Password)
	requireKind(t, err, ErrUnauthorized, "Unable to log in with provided credentials.")

	var stored models.Account
	require.NoError(t, db.First(&stored, acc.ID).Error)
	assert.Equal(t, "Renamed", stored.Name)
}

func TestChangePassword(t *testing.T) {
	svc, db := newAccountService(t)
	acc := testutil.NewAccount(t, db, "guest@example.com", false)

	err := svc.ChangePassword(acc, ChangePasswordInput{OldPassword: "nope", NewPassword: "newpassword", NewPasswordConfirm: "newpassword"})
	se := requireKind(t, err, ErrValidation, "")
	assert.Equal(t, "Old password is incorrect.", se.Fields["old_password"])

	err = svc.ChangePassword(acc, ChangePasswordInput{OldPassword: testutil.Password, NewPassword: "newpassword", NewPasswordConfirm: "other"})
	requireKind(t, err, ErrValidation, "New passwords do not match.")

	err = svc.ChangePassword(acc, ChangePasswordInput{OldPassword: testutil.Password, NewPassword: "short", NewPasswordConfirm: "short"})
	se = requireKind(t, err, ErrValidation, "")
	assert.Contains(t, se.Fields, "new_password")

	require.NoError(t, svc.ChangePassword(acc, ChangePasswordInput{OldPassword: testutil.Password, NewPassword: "newpassword", NewPasswordConfirm: "newpassword"}))
	_, err = svc.Login("guest@example.com", "newpassword")
	require.NoError(t, err)
}

func TestToggleHostAndStats(t *testing.T) {
	svc, db := newAccountService(t)
	host := testutil.NewAccount(t, db, "host@example.com", false)
	guest := testutil.NewAccount(t, db, "guest@example.com", false)

	isHost, err := svc.ToggleHost(host)
	require.NoError(t, err)
	assert.True(t, isHost)

	p := testutil.NewProperty(t, db, host)
	testutil.NewProperty(t, db, host)
	done := testutil.NewReservation(t, db, p, guest, "2024-01-01", "2024-01-03", models.ReservationCompleted)
	testutil.NewReservation(t, db, p, guest, "2024-02-01", "2024-02-03", models.ReservationPending)
	require.NoError(t, db.Create(&models.Review{PropertyID: p.ID, GuestID: guest.ID, ReservationID: done.ID, Rating: 5, Comment: "Great"}).Error)

	st, err := svc.Stats(host)
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.TotalProperties)
	assert.Equal(t, int64(0), st.TotalReservations)
	assert.Equal(t, int64(1), st.TotalReviewsReceived)
	require.NotNil(t, st.HostTotalBookings)
	assert.Equal(t, int64(2), *st.HostTotalBookings)
	assert.Equal(t, int64(1), *st.HostCompletedBookings)

	st, err = svc.Stats(guest)
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.TotalReservations)
	assert.Equal(t, int64(1), st.TotalReviewsGiven)
	assert.Nil(t, st.HostTotalBookings)

	isHost, err = svc.ToggleHost(host)
	require.NoError(t, err)
	assert.False(t, isHost)
}
