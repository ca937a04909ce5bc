package config

import (
	"os"
	"strconv"
	"time"

	"pricetrail/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Selector profile for the tracked marketplace; empty means built-in default
	ProfilePath string

	// Fetcher configuration
	RequestTimeout time.Duration

	// Tracker pacing between keyword fetches
	Delay    time.Duration
	DelayMin time.Duration
	DelayMax time.Duration

	// Default per-keyword result limit (flag-overridable)
	ResultLimit int

	// Redis notification configuration; empty RedisAddr disables publishing
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	requestTimeout, _ := strconv.Atoi(getEnv("HTTP_TIMEOUT_SECONDS", "15"))
	resultLimit, _ := strconv.Atoi(getEnv("RESULT_LIMIT", "5"))
	delay, _ := strconv.ParseFloat(getEnv("DELAY_SECONDS", "0"), 64)
	delayMin, _ := strconv.ParseFloat(getEnv("DELAY_MIN_SECONDS", "1"), 64)
	delayMax, _ := strconv.ParseFloat(getEnv("DELAY_MAX_SECONDS", "3"), 64)

	return Config{
		ProfilePath:          getEnv("SELECTOR_PROFILE", ""),
		RequestTimeout:       time.Duration(requestTimeout) * time.Second,
		Delay:                time.Duration(delay * float64(time.Second)),
		DelayMin:             time.Duration(delayMin * float64(time.Second)),
		DelayMax:             time.Duration(delayMax * float64(time.Second)),
		ResultLimit:          resultLimit,
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "pricetrail"),
		RedisStreamMaxLength: redisStreamMaxLength,
		Environment:          getEnv("PRICETRAIL_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for unusable values
func (c *Config) Validate() error {
	if c.RequestTimeout <= 0 {
		return errors.NewConfiguration("HTTP_TIMEOUT_SECONDS must be positive", nil)
	}
	if c.ResultLimit < 1 {
		return errors.NewConfiguration("RESULT_LIMIT must be at least 1", nil)
	}
	if c.Delay < 0 || c.DelayMin < 0 || c.DelayMax < 0 {
		return errors.NewConfiguration("delays must not be negative", nil)
	}
	if c.DelayMin > c.DelayMax {
		return errors.NewConfiguration("DELAY_MIN_SECONDS must not exceed DELAY_MAX_SECONDS", nil)
	}
	if c.RedisStreamMaxLength < 1 {
		return errors.NewConfiguration("REDIS_STREAM_MAX_LENGTH must be at least 1", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
