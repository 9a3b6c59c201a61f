// Package config handles configuration loading for the todo and books servers.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig describes how to reach the todo database.
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	Schema     string
	SQLitePath string
	LogLevel   string
}

// Config holds all configuration for both servers.
type Config struct {
	Port              int
	BooksPort         int
	Database          DatabaseConfig
	JWTSecret         string
	JWTTTL            time.Duration
	BcryptCost        int
	CookieSecure      bool
	AdminDenialStatus int
	AllowSelfRole     bool
	AllowedOrigins    []string
	LogLevel          string
	LogFormat         string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first by godotenv.
func Load() (*Config, error) {
	cfg := &Config{
		Port:      getEnvInt("PORT", 8080),
		BooksPort: getEnvInt("BOOKS_PORT", 8081),
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			Host:       getEnv("BLUEPRINT_DB_HOST", "localhost"),
			Port:       getEnv("BLUEPRINT_DB_PORT", "5432"),
			User:       getEnv("BLUEPRINT_DB_USERNAME", ""),
			Password:   getEnv("BLUEPRINT_DB_PASSWORD", ""),
			Name:       getEnv("BLUEPRINT_DB_DATABASE", ""),
			Schema:     getEnv("BLUEPRINT_DB_SCHEMA", ""),
			SQLitePath: getEnv("SQLITE_PATH", "todos.db"),
			LogLevel:   getEnv("DB_LOG_LEVEL", "warn"),
		},
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTTTL:            parseDuration(getEnv("JWT_TTL", "20m"), 20*time.Minute),
		BcryptCost:        getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),
		CookieSecure:      getEnvBool("COOKIE_SECURE", false),
		AdminDenialStatus: getEnvInt("ADMIN_DENIAL_STATUS", http.StatusOK),
		AllowSelfRole:     getEnvBool("ALLOW_SELF_ROLE", true),
		AllowedOrigins:    splitList(getEnv("ALLOWED_ORIGINS", "https://*,http://*")),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that have no safe default.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("config: JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("config: BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.AdminDenialStatus != http.StatusOK && c.AdminDenialStatus != http.StatusForbidden {
		return fmt.Errorf("config: ADMIN_DENIAL_STATUS must be 200 or 403, got %d", c.AdminDenialStatus)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid %s value '%s', using default %d\n", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
