package main

import (
	"errors"
	"time"
)

// appConfig holds the settings that belong to this binary rather than to a
// reusable package.
type appConfig struct {
	RulesFile     string        `env:"PORTABILITY_RULES_FILE"`
	CacheEnabled  bool          `env:"CACHE_ENABLED" envDefault:"true"`
	CacheSize     int           `env:"CACHE_SIZE" envDefault:"1000"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	DefaultLocale string        `env:"DEFAULT_LOCALE" envDefault:"pt-BR"`
	// IPHeaders are proxy headers trusted for the client address, in order.
	IPHeaders []string `env:"TRUSTED_IP_HEADERS" envSeparator:","`
}

// Validate implements config.Validator.
func (c appConfig) Validate() error {
	if c.CacheEnabled && (c.CacheSize <= 0 || c.CacheTTL <= 0) {
		return errors.New("config: CACHE_SIZE and CACHE_TTL must be positive when the cache is enabled")
	}
	if c.DefaultLocale == "" {
		return errors.New("config: DEFAULT_LOCALE is required")
	}
	return nil
}
