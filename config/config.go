package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DBConfig struct {
	Driver   string
	URL      string
	Host     string
	Port     string
	User     string
	Pass     string
	Name     string
	LogLevel string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// AppConfig holds everything read from the environment at startup.
type AppConfig struct {
	AppName     string
	Port        string
	Database    DBConfig
	Auth        AuthConfig
	Log         LogConfig
	CorsOrigins []string
	UploadDir   string

	// AllowOverlappingBookings turns off the booking-time overlap check.
	AllowOverlappingBookings bool
	SeedOnStart              bool
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig(envPath ...string) *AppConfig {
	var err error
	if len(envPath) > 0 && envPath[0] != "" {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	cfg := &AppConfig{
		AppName: envOrDefault("APP_NAME", "rental-backend"),
		Port:    envOrDefault("PORT", "8080"),
		Database: DBConfig{
			Driver:   strings.ToLower(envOrDefault("DB_DRIVER", "mysql")),
			URL:      firstNonEmpty(os.Getenv("DATABASE_URL"), os.Getenv("MYSQL_URL")),
			Host:     envOrDefault("DB_HOST", "127.0.0.1"),
			Port:     os.Getenv("DB_PORT"),
			User:     envOrDefault("DB_USER", "root"),
			Pass:     os.Getenv("DB_PASS"),
			Name:     envOrDefault("DB_NAME", "rental_db"),
			LogLevel: envOrDefault("DB_LOG_LEVEL", "warn"),
		},
		Auth: AuthConfig{
			JWTSecret: strings.TrimSpace(os.Getenv("JWT_SECRET")),
			TokenTTL:  time.Duration(getEnvAsInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
		},
		Log: LogConfig{
			Level:  envOrDefault("LOG_LEVEL", "info"),
			Format: envOrDefault("LOG_FORMAT", "text"),
		},
		CorsOrigins:              parseCorsOrigins(os.Getenv("CORS_ORIGINS")),
		UploadDir:                envOrDefault("UPLOAD_DIR", "uploads"),
		AllowOverlappingBookings: getEnvAsBool("ALLOW_OVERLAPPING_BOOKINGS", false),
		SeedOnStart:              getEnvAsBool("SEED_ON_START", false),
	}
	return cfg
}

// ErrMissingJWTSecret is returned by Validate when JWT_SECRET is unset.
var ErrMissingJWTSecret = errors.New("JWT_SECRET is required to sign access tokens")

// Validate reports settings the API server cannot start without.
func (c *AppConfig) Validate() error {
	if c.Auth.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		log.Printf("warning: %s=%q is not an int (%v); using %d", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(strings.TrimSpace(valStr))
	if err != nil {
		log.Printf("warning: %s=%q is not a bool (%v); using %t", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
