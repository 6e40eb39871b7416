package config

import (
	"fmt"
	"os"
	"strconv"
)

// AuthorPolicy controls what createBook does with an unknown author name.
// Both behaviours existed at different points of this app's history, so the
// choice is explicit configuration rather than a hardcoded branch.
type AuthorPolicy string

const (
	// AuthorPolicyAutoCreate creates the author on first reference.
	AuthorPolicyAutoCreate AuthorPolicy = "auto-create"
	// AuthorPolicyRequireExisting rejects books whose author is unknown.
	AuthorPolicyRequireExisting AuthorPolicy = "require-existing"
)

// Config holds the whole application configuration, populated from
// environment variables.
type Config struct {
	App   AppConfig
	Redis RedisConfig
	Books BooksConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type BooksConfig struct {
	AuthorPolicy AuthorPolicy
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Bookshelf API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Books: BooksConfig{
			AuthorPolicy: AuthorPolicy(getEnv("BOOK_AUTHOR_POLICY", string(AuthorPolicyAutoCreate))),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate rejects configuration the server cannot run with.
func (c *Config) Validate() error {
	switch c.Books.AuthorPolicy {
	case AuthorPolicyAutoCreate, AuthorPolicyRequireExisting:
	default:
		return fmt.Errorf("BOOK_AUTHOR_POLICY must be %q or %q, got %q",
			AuthorPolicyAutoCreate, AuthorPolicyRequireExisting, c.Books.AuthorPolicy)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
