package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	cleanup := func() {
		os.Unsetenv("APP_ENV")
		os.Unsetenv("HTTP_ADDR")
		os.Unsetenv("IH_DATABASE_URL")
		os.Unsetenv("IH_DATABASE_URL_SYNC")
		os.Unsetenv("IH_DELIVERY_MAX_ATTEMPTS")
		os.Unsetenv("IH_DELIVERY_BACKOFF_JITTER")
	}

	t.Run("should_return_error_if_database_url_is_missing", func(t *testing.T) {
		cleanup()
		cfg, err := Load()
		assert.Nil(t, cfg)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "missing IH_DATABASE_URL")
	})

	t.Run("should_load_successfully_with_valid_env_and_apply_defaults", func(t *testing.T) {
		cleanup()
		os.Setenv("IH_DATABASE_URL", "postgres://localhost:5432/db")
		os.Setenv("HTTP_ADDR", ":9090")
		defer cleanup()

		cfg, err := Load()
		assert.NoError(t, err)
		assert.NotNil(t, cfg)
		assert.Equal(t, ":9090", cfg.HTTPAddr)
		assert.Equal(t, 2*time.Second, cfg.DeliveryPollInterval)
		assert.Equal(t, 5, cfg.DeliveryMaxAttempts)
		assert.Equal(t, 2.0, cfg.DeliveryBackoffBase)
		assert.Equal(t, 0.0, cfg.DeliveryBackoffJiter)
		assert.Equal(t, 10*time.Second, cfg.DeliveryTimeout)
		assert.Equal(t, "INFO", cfg.LogLevel)
	})

	t.Run("should_reject_jitter_outside_allowed_range", func(t *testing.T) {
		cleanup()
		os.Setenv("IH_DATABASE_URL", "postgres://localhost:5432/db")
		os.Setenv("IH_DELIVERY_BACKOFF_JITTER", "0.5")
		defer cleanup()

		cfg, err := Load()
		assert.Nil(t, cfg)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "IH_DELIVERY_BACKOFF_JITTER")
	})

	t.Run("should_reject_non_positive_max_attempts", func(t *testing.T) {
		cleanup()
		os.Setenv("IH_DATABASE_URL", "postgres://localhost:5432/db")
		os.Setenv("IH_DELIVERY_MAX_ATTEMPTS", "0")
		defer cleanup()

		cfg, err := Load()
		assert.Nil(t, cfg)
		assert.Error(t, err)
	})
}

func TestGetEnv(t *testing.T) {
	t.Run("should_trim_whitespace", func(t *testing.T) {
		os.Setenv("TEST_KEY", "  value_with_spaces  ")
		defer os.Unsetenv("TEST_KEY")

		result := getEnv("TEST_KEY", "default")
		assert.Equal(t, "value_with_spaces", result)
	})

	t.Run("should_return_default_if_empty", func(t *testing.T) {
		os.Setenv("TEST_KEY", "")
		defer os.Unsetenv("TEST_KEY")

		result := getEnv("TEST_KEY", "fallback")
		assert.Equal(t, "fallback", result)
	})
}

func TestGetDuration(t *testing.T) {
	t.Run("should_parse_valid_duration", func(t *testing.T) {
		os.Setenv("DUR_KEY", "5s")
		defer os.Unsetenv("DUR_KEY")

		d := getDuration("DUR_KEY", 0)
		assert.Equal(t, 5*time.Second, d)
	})

	t.Run("should_return_default_on_invalid_duration", func(t *testing.T) {
		os.Setenv("DUR_KEY", "invalid")
		defer os.Unsetenv("DUR_KEY")

		d := getDuration("DUR_KEY", 10*time.Second)
		assert.Equal(t, 10*time.Second, d)
	})
}

func TestGetPrefixedFloatSeconds(t *testing.T) {
	t.Run("converts_fractional_seconds_to_duration", func(t *testing.T) {
		os.Setenv("IH_TEST_SECONDS", "1.5")
		defer os.Unsetenv("IH_TEST_SECONDS")

		d := getPrefixedFloatSeconds("TEST_SECONDS", 9)
		assert.Equal(t, 1500*time.Millisecond, d)
	})
}
