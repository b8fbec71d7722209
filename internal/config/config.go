package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Spreadsheet source: a URL or a local file path.
	SourceURL string

	// Pipeline
	CurrencySymbol string
	CacheTTL       time.Duration
	FetchTimeout   time.Duration

	// Presentation
	TopLimit int
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8081"),
		SourceURL:      getEnv("SOURCE_URL", getEnv("EXCEL_URL", "")),
		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "₡"),
		CacheTTL:       getEnvDuration("CACHE_TTL", 5*time.Minute),
		FetchTimeout:   getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
		TopLimit:       getEnvInt("TOP_LIMIT", 10),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SourceURL == "" {
		errors = append(errors, "source URL cannot be empty: set SOURCE_URL to a spreadsheet URL or file path")
	}

	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	} else if c.CacheTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at most 24 hours", c.CacheTTL))
	}

	if c.FetchTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid fetch timeout %v: must be at least 1 second", c.FetchTimeout))
	} else if c.FetchTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid fetch timeout %v: must be at most 5 minutes", c.FetchTimeout))
	}

	if c.TopLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid top limit %d: must be at least 1", c.TopLimit))
	} else if c.TopLimit > 100 {
		errors = append(errors, fmt.Sprintf("invalid top limit %d: must be at most 100", c.TopLimit))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
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
