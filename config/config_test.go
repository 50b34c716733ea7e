package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCorsOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, parseCorsOrigins(""))
	assert.Equal(t, []string{"*"}, parseCorsOrigins(" , "))
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, parseCorsOrigins("http://a.test, http://b.test,"))
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DATABASE_URL", ":memory:")
	t.Setenv("TOKEN_TTL_HOURS", "2")
	t.Setenv("ALLOW_OVERLAPPING_BOOKINGS", "true")
	t.Setenv("SEED_ON_START", "not-a-bool")
	t.Setenv("PORT", "")

	cfg := LoadConfig(t.TempDir() + "/missing.env")
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.URL)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.AllowOverlappingBookings)
	assert.False(t, cfg.SeedOnStart)
	assert.Equal(t, "8080", cfg.Port)
}

func TestValidateRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "  ")
	cfg := LoadConfig(t.TempDir() + "/missing.env")
	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingJWTSecret)

	t.Setenv("JWT_SECRET", "s3cret")
	cfg = LoadConfig(t.TempDir() + "/missing.env")
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.NoError(t, cfg.Validate())
}

func TestMysqlDSNFromURL(t *testing.T) {
	dsn, err := mysqlDSNFromURL("mysql://app:pw@db.internal/rentals")
	require.NoError(t, err)
	assert.Contains(t, dsn, "app:pw@tcp(db.internal:3306)/rentals?")
	assert.Contains(t, dsn, "parseTime=True")

	_, err = mysqlDSNFromURL("mysql://app:pw@db.internal/")
	assert.Error(t, err)
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := ConnectDatabase(DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestSeedDatabase(t *testing.T) {
	db, err := ConnectDatabase(DBConfig{Driver: "sqlite", URL: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	n, err := SeedDatabase(db)
	require.NoError(t, err)
	assert.Positive(t, n)

	again, err := SeedDatabase(db)
	require.NoError(t, err)
	assert.Zero(t, again)
}
