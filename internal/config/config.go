package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/logger"
)

// Config holds application configuration
type Config struct {
	Env  string
	Port string

	// Database
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBMaxOpenConns int
	DBMaxIdleConns int
	// DBQueryTimeout bounds every round-trip, including the wait for a pooled connection.
	DBQueryTimeout time.Duration

	// Migrations
	MigrationsPath string
	RunMigrations  bool

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	SentryDSN   string
	CORSOrigins string
}

// Load loads configuration from environment variables, seeding them from a
// .env file when one is present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Get().Debug(".env file not found, using process environment")
	}

	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "ledger"),
		DBPassword:     getEnv("DB_PASSWORD", "ledger"),
		DBName:         getEnv("DB_NAME", "ledger"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		DBMaxOpenConns: getInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getInt("DB_MAX_IDLE_CONNS", 10),
		DBQueryTimeout: getDuration("DB_QUERY_TIMEOUT", 5*time.Second),

		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		RunMigrations:  getBool("RUN_MIGRATIONS", true),

		JWTSecret:        getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		JWTExpirationDur: getDuration("JWT_EXPIRES_IN", 7*24*time.Hour),

		SentryDSN:   getEnv("SENTRY_DSN", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		logger.Get().Warnf("invalid %s value %q, falling back to %d", key, raw, defaultValue)
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		logger.Get().Warnf("invalid %s value %q, falling back to %t", key, raw, defaultValue)
		return defaultValue
	}
	return b
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logger.Get().Warnf("invalid %s value %q, falling back to %s", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
