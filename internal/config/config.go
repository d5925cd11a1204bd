package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "IH_"

type Config struct {
	AppEnv string

	HTTPAddr        string
	DatabaseURL     string
	DatabaseURLSync string

	DeliveryPollInterval time.Duration
	DeliveryMaxAttempts  int
	DeliveryBackoffBase  float64
	DeliveryBackoffJiter float64 // fraction in [0, 0.2]; 0 = deterministic backoff
	DeliveryTimeout      time.Duration

	SlackBotToken       string
	SlackDefaultChannel string

	RedisURL string

	RLEnabled bool
	RLLimit   int
	RLWindow  time.Duration

	LogLevel  string
	LogFormat string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.AppEnv = getEnv("APP_ENV", "dev")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	cfg.DatabaseURL = getPrefixedEnv("DATABASE_URL", "")
	cfg.DatabaseURLSync = getPrefixedEnv("DATABASE_URL_SYNC", "")

	cfg.DeliveryPollInterval = getPrefixedFloatSeconds("DELIVERY_POLL_INTERVAL_SECONDS", 2.0)
	cfg.DeliveryMaxAttempts = getPrefixedIntEnv("DELIVERY_MAX_ATTEMPTS", 5)
	cfg.DeliveryBackoffBase = getPrefixedFloat("DELIVERY_BACKOFF_BASE_SECONDS", 2.0)
	cfg.DeliveryBackoffJiter = getPrefixedFloat("DELIVERY_BACKOFF_JITTER", 0)
	cfg.DeliveryTimeout = getPrefixedFloatSeconds("DELIVERY_TIMEOUT_SECONDS", 10.0)

	cfg.SlackBotToken = getPrefixedEnv("SLACK_BOT_TOKEN", "")
	cfg.SlackDefaultChannel = getPrefixedEnv("SLACK_DEFAULT_CHANNEL", "")

	cfg.RedisURL = getPrefixedEnv("REDIS_URL", "")

	cfg.RLEnabled = getEnv("RL_ENABLED", "true") == "true"
	cfg.RLLimit = getIntEnv("RL_IP_LIMIT", 100)
	cfg.RLWindow = getDuration("RL_IP_WINDOW", 1*time.Minute)

	cfg.LogLevel = getPrefixedEnv("LOG_LEVEL", "INFO")
	cfg.LogFormat = getEnv("LOG_FORMAT", "console")

	cfg.HTTPReadTimeout = getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	cfg.HTTPWriteTimeout = getDuration("HTTP_WRITE_TIMEOUT", 20*time.Second)
	cfg.HTTPIdleTimeout = getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second)

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("missing IH_DATABASE_URL")
	}
	if cfg.DeliveryMaxAttempts < 1 {
		return nil, fmt.Errorf("IH_DELIVERY_MAX_ATTEMPTS must be >= 1")
	}
	if cfg.DeliveryBackoffJiter < 0 || cfg.DeliveryBackoffJiter > 0.2 {
		return nil, fmt.Errorf("IH_DELIVERY_BACKOFF_JITTER must be within [0, 0.2]")
	}

	return cfg, nil
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getPrefixedEnv(k, def string) string {
	return getEnv(envPrefix+k, def)
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getIntEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getPrefixedIntEnv(key string, def int) int {
	return getIntEnv(envPrefix+key, def)
}

func getPrefixedFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(envPrefix + key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getPrefixedFloatSeconds(key string, defSeconds float64) time.Duration {
	f := getPrefixedFloat(key, defSeconds)
	return time.Duration(f * float64(time.Second))
}
