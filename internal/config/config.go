package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	BotToken    string
	Database    DatabaseConfig
	Translate   TranslateConfig
	Session     SessionConfig
	Maintenance MaintenanceConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// TranslateConfig controls automatic translation of new words
type TranslateConfig struct {
	SourceLang string
	TargetLang string
	Timeout    time.Duration
}

// SessionConfig controls in-memory sessions and catalog broadcast
type SessionConfig struct {
	IdleTTL              time.Duration
	BroadcastConcurrency int
}

// MaintenanceConfig controls the periodic housekeeping job
type MaintenanceConfig struct {
	Interval time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken: os.Getenv("BOT_TOKEN"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "lugat"),
			User:     getEnv("DB_USER", "lugat"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		Translate: TranslateConfig{
			SourceLang: getEnv("TRANSLATE_SOURCE_LANG", "en"),
			TargetLang: getEnv("TRANSLATE_TARGET_LANG", "uz"),
		},
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	var err error
	if cfg.Translate.Timeout, err = getDuration("TRANSLATE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.Session.IdleTTL, err = getDuration("SESSION_IDLE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Session.BroadcastConcurrency, err = getInt("BROADCAST_CONCURRENCY", 8); err != nil {
		return nil, err
	}
	if cfg.Maintenance.Interval, err = getDuration("MAINTENANCE_INTERVAL", 24*time.Hour); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return n, nil
}
