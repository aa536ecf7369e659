package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var optionalKeys = []string{
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER",
	"TRANSLATE_SOURCE_LANG", "TRANSLATE_TARGET_LANG", "TRANSLATE_TIMEOUT",
	"SESSION_IDLE_TTL", "BROADCAST_CONCURRENCY", "MAINTENANCE_INTERVAL",
}

func clearOptional(t *testing.T) {
	t.Helper()
	for _, key := range optionalKeys {
		t.Setenv(key, "")
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		setEnv       bool
		envValue     string
		expected     string
	}{
		{
			name:         "env variable set",
			key:          "TEST_KEY",
			defaultValue: "default",
			setEnv:       true,
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env variable not set",
			key:          "TEST_KEY_NOT_SET",
			defaultValue: "default",
			setEnv:       false,
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}

			result := getEnv(tt.key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "testuser",
			Password: "testpass",
			Name:     "testdb",
		},
	}

	dsn := cfg.DSN()
	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	assert.Equal(t, expected, dsn)
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name       string
		botToken   string
		dbPassword string
		wantInErr  string
	}{
		{
			name:      "missing bot token",
			wantInErr: "BOT_TOKEN",
		},
		{
			name:      "missing db password",
			botToken:  "test_token",
			wantInErr: "DB_PASSWORD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearOptional(t)
			t.Setenv("BOT_TOKEN", tt.botToken)
			t.Setenv("DB_PASSWORD", tt.dbPassword)

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantInErr)
		})
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	clearOptional(t)
	t.Setenv("BOT_TOKEN", "test_token")
	t.Setenv("DB_PASSWORD", "test_db_password")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test_token", cfg.BotToken)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "lugat", cfg.Database.Name)
	assert.Equal(t, "lugat", cfg.Database.User)
	assert.Equal(t, "en", cfg.Translate.SourceLang)
	assert.Equal(t, "uz", cfg.Translate.TargetLang)
	assert.Equal(t, 10*time.Second, cfg.Translate.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Session.IdleTTL)
	assert.Equal(t, 8, cfg.Session.BroadcastConcurrency)
	assert.Equal(t, 24*time.Hour, cfg.Maintenance.Interval)
}

func TestLoad_Overrides(t *testing.T) {
	clearOptional(t)
	t.Setenv("BOT_TOKEN", "test_token")
	t.Setenv("DB_PASSWORD", "test_db_password")
	t.Setenv("TRANSLATE_TARGET_LANG", "ru")
	t.Setenv("TRANSLATE_TIMEOUT", "3s")
	t.Setenv("BROADCAST_CONCURRENCY", "2")
	t.Setenv("MAINTENANCE_INTERVAL", "1h")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ru", cfg.Translate.TargetLang)
	assert.Equal(t, 3*time.Second, cfg.Translate.Timeout)
	assert.Equal(t, 2, cfg.Session.BroadcastConcurrency)
	assert.Equal(t, time.Hour, cfg.Maintenance.Interval)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad duration", key: "TRANSLATE_TIMEOUT", value: "soon"},
		{name: "negative duration", key: "SESSION_IDLE_TTL", value: "-1h"},
		{name: "bad number", key: "BROADCAST_CONCURRENCY", value: "many"},
		{name: "zero number", key: "BROADCAST_CONCURRENCY", value: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearOptional(t)
			t.Setenv("BOT_TOKEN", "test_token")
			t.Setenv("DB_PASSWORD", "test_db_password")
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
