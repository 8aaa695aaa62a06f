package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

const (
	StorageMemory    = "memory"
	StorageFirestore = "firestore"
	StoragePostgres  = "postgres"

	SessionsMemory = "memory"
	SessionsRedis  = "redis"

	TransportHTTP    = "http"
	TransportConsole = "console"
)

// devJWTSecret signs tokens in local mode when no secret is configured.
const devJWTSecret = "timetable-bot-dev-secret"

type Config struct {
	Mode      Mode   `validate:"oneof=local gcp"`
	Port      string `validate:"required,numeric"`
	Transport string `validate:"oneof=http console"`

	StorageBackend string `validate:"oneof=memory firestore postgres"`
	GCPProjectID   string `validate:"required_if=StorageBackend firestore"`
	PostgresDSN    string `validate:"required_if=StorageBackend postgres"`

	SessionBackend string `validate:"oneof=memory redis"`
	RedisAddr      string `validate:"required_if=SessionBackend redis"`
	RedisPassword  string
	RedisDB        int           `validate:"min=0,max=15"`
	SessionTTL     time.Duration `validate:"min=0"`

	AdminUsername     string `validate:"required"`
	AdminPassword     string `validate:"required_without=AdminPasswordHash"`
	AdminPasswordHash string
	JWTSecret         string        `validate:"required,min=16"`
	JWTTTL            time.Duration `validate:"gt=0"`

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=json text"`

	// Location resolves "today" and week parity.
	Location *time.Location `validate:"required"`
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getIntEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDurationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// Load reads an optional .env file, then all TIMETABLE_* env vars, and
// validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(getEnv("TIMETABLE_ENV_FILE", ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	mode := Mode(getEnv("TIMETABLE_MODE", string(ModeLocal)))

	cfg := &Config{
		Mode:      mode,
		Port:      getEnv("TIMETABLE_PORT", getEnv("PORT", "8080")),
		Transport: getEnv("TIMETABLE_TRANSPORT", TransportHTTP),

		StorageBackend: getEnv("TIMETABLE_STORAGE_BACKEND", StorageMemory),
		GCPProjectID:   getEnv("TIMETABLE_GCP_PROJECT", ""),
		PostgresDSN:    getEnv("TIMETABLE_POSTGRES_DSN", ""),

		SessionBackend: getEnv("TIMETABLE_SESSION_BACKEND", SessionsMemory),
		RedisAddr:      getEnv("TIMETABLE_REDIS_ADDR", ""),
		RedisPassword:  getEnv("TIMETABLE_REDIS_PASSWORD", ""),

		AdminUsername:     getEnv("TIMETABLE_ADMIN_USERNAME", "admin"),
		AdminPassword:     getEnv("TIMETABLE_ADMIN_PASSWORD", "admin123"),
		AdminPasswordHash: getEnv("TIMETABLE_ADMIN_PASSWORD_HASH", ""),
		JWTSecret:         getEnv("TIMETABLE_JWT_SECRET", ""),

		LogLevel:  getEnv("TIMETABLE_LOG_LEVEL", "info"),
		LogFormat: getEnv("TIMETABLE_LOG_FORMAT", "json"),
	}

	if cfg.JWTSecret == "" && mode == ModeLocal {
		cfg.JWTSecret = devJWTSecret
	}
	if getBoolEnv("TIMETABLE_DEBUG", false) {
		cfg.LogLevel = "debug"
	}

	var err error
	if cfg.RedisDB, err = getIntEnv("TIMETABLE_REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDurationEnv("TIMETABLE_SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = getDurationEnv("TIMETABLE_JWT_TTL", 12*time.Hour); err != nil {
		return nil, err
	}

	tz := getEnv("TIMETABLE_TIMEZONE", "Local")
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("TIMETABLE_TIMEZONE: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
