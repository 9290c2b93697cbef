package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Directory client authentication mode constants
const (
	DirectoryAuthNone   = "none"
	DirectoryAuthSimple = "simple"
)

type Config struct {
	// Server settings
	ServerAddr     string
	BaseURL        string
	IsProduction   bool
	AllowedOrigins []string

	// JWT settings
	JWTSecret     string
	JWTIssuer     string
	JWTAudience   string
	JWTExpiration time.Duration

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string // Database connection string (DSN or path)

	// Directory service (external credential validator)
	DirectoryURL                string
	DirectoryTimeout            time.Duration
	DirectoryInsecureSkipVerify bool
	DirectoryAuthMode           string // "none" or "simple"
	DirectoryAuthSecret         string // Service-account secret for simple mode
	DirectoryAuthHeader         string // Header name for simple mode (default: "X-API-Secret")

	// Encryption proxy key material (one secret per target)
	EncryptionWebSecret       string
	EncryptionBackendSecret   string
	EncryptionAnalyticsSecret string
	EncryptionKeySalt         string

	// Metrics
	MetricsEnabled bool
	MetricsToken   string
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	// Determine database driver and DSN
	driver := getEnv("DATABASE_DRIVER", "sqlite")
	var dsn string
	if driver == "sqlite" {
		dsn = getEnv("DATABASE_DSN", "fmtlab.db")
	} else {
		dsn = getEnv("DATABASE_DSN", "")
	}

	return &Config{
		ServerAddr:     getEnv("SERVER_ADDR", ":8080"),
		BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),
		IsProduction:   getEnvBool("PRODUCTION", false),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", nil),

		JWTSecret:   getEnv("JWT_SECRET", "your-256-bit-secret-change-in-production"),
		JWTIssuer:   getEnv("JWT_ISSUER", "fmtlab"),
		JWTAudience: getEnv("JWT_AUDIENCE", "fmtlab-client"),
		// Token lifetime is fixed at one hour; it is not configurable per call.
		JWTExpiration: time.Hour,

		DatabaseDriver: driver,
		DatabaseDSN:    dsn,

		DirectoryURL:                getEnv("DIRECTORY_URL", ""),
		DirectoryTimeout:            getEnvDuration("DIRECTORY_TIMEOUT", 10*time.Second),
		DirectoryInsecureSkipVerify: getEnvBool("DIRECTORY_INSECURE_SKIP_VERIFY", false),
		DirectoryAuthMode:           getEnv("DIRECTORY_AUTH_MODE", DirectoryAuthNone),
		DirectoryAuthSecret:         getEnv("DIRECTORY_AUTH_SECRET", ""),
		DirectoryAuthHeader:         getEnv("DIRECTORY_AUTH_HEADER", "X-API-Secret"),

		EncryptionWebSecret:       getEnv("ENCRYPTION_WEB_SECRET", ""),
		EncryptionBackendSecret:   getEnv("ENCRYPTION_BACKEND_SECRET", ""),
		EncryptionAnalyticsSecret: getEnv("ENCRYPTION_ANALYTICS_SECRET", ""),
		EncryptionKeySalt:         getEnv("ENCRYPTION_KEY_SALT", "fmtlab-static-salt"),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		MetricsToken:   getEnv("METRICS_TOKEN", ""),
	}
}

// Validate checks configuration consistency before any component is wired.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes, got %d", len(c.JWTSecret))
	}
	if c.DatabaseDriver != "sqlite" && c.DatabaseDriver != "postgres" {
		return fmt.Errorf("invalid DATABASE_DRIVER value: %q (must be: sqlite, postgres)", c.DatabaseDriver)
	}
	if c.DatabaseDriver == "postgres" && c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN is required when DATABASE_DRIVER=postgres")
	}
	switch c.DirectoryAuthMode {
	case DirectoryAuthNone:
	case DirectoryAuthSimple:
		if c.DirectoryAuthSecret == "" {
			return fmt.Errorf("DIRECTORY_AUTH_SECRET is required when DIRECTORY_AUTH_MODE=simple")
		}
	default:
		return fmt.Errorf("invalid DIRECTORY_AUTH_MODE value: %q (must be: none, simple)", c.DirectoryAuthMode)
	}
	if c.DirectoryURL != "" && c.DirectoryTimeout <= 0 {
		return fmt.Errorf("DIRECTORY_TIMEOUT must be positive when DIRECTORY_URL is set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := []string{}
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}
