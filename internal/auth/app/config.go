package app

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lecenter/dashboard/pkg/linex"
)

// DevSecret signs sessions outside production when AUTH_SECRET is unset.
const DevSecret = "dev-secret"

var ErrMissingSecret = errors.New("AUTH_SECRET is required in production")

type Config struct {
	Secret              string        // AUTH_SECRET: HMAC key for session credentials
	LineChannelID       string        // LINE_CHANNEL_ID, falling back to the channel part of LIFF_ID
	LineVerifyURL       string        // LINE_VERIFY_URL (default: LINE's verify endpoint)
	LineTimeout         time.Duration // LINE_VERIFY_TIMEOUT (default: 10s)
	RecordUnlisted      bool          // AUTH_RECORD_UNLISTED_IDENTITIES: record non-whitelisted logins (default: true)
	DatabaseFile        string        // AUTH_DATABASE_FILE (default: ./auth.db)
	AllowedOrigins      []string      // CORS_ALLOWED_ORIGINS, comma separated (default: reflect origin)
	Env                 string        // ENV: dev, staging, prod (default: dev)
	LogLevel            string        // LOG_LEVEL: debug, info, warn, error (default: info)
	LogFormat           string        // LOG_FORMAT: json, text (default: json)
	Port                int           // PORT (default: 3004)
	ShutdownGracePeriod time.Duration // SHUTDOWN_GRACE_PERIOD (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Secret: os.Getenv("AUTH_SECRET"),
		LineChannelID: linex.ChannelIDFromEnv(
			os.Getenv("LINE_CHANNEL_ID"),
			os.Getenv("LIFF_ID"),
		),
		LineVerifyURL:       getEnvOrDefault("LINE_VERIFY_URL", linex.DefaultVerifyURL),
		LineTimeout:         getEnvDurationOrDefault("LINE_VERIFY_TIMEOUT", linex.DefaultTimeout),
		RecordUnlisted:      getEnvBoolOrDefault("AUTH_RECORD_UNLISTED_IDENTITIES", true),
		DatabaseFile:        getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		AllowedOrigins:      splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 3004),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// IsProduction reports whether cookies must be Secure.
func (c Config) IsProduction() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	}
	return false
}

// Validate fills in the development secret, or fails in production.
// It reports whether the development secret is in use.
func (c *Config) Validate() (devSecret bool, err error) {
	if c.Secret != "" {
		return false, nil
	}
	if c.IsProduction() {
		return false, ErrMissingSecret
	}
	c.Secret = DevSecret
	return true, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
