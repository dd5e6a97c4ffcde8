package redis

import (
	"errors"
	"time"
)

// Config describes an optional redis connection. An empty URL disables
// redis and the service falls back to in-memory stores.
type Config struct {
	URL            string        `env:"REDIS_URL"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"15s"`
}

func (c Config) Enabled() bool { return c.URL != "" }

// Validate implements config.Validator.
func (c Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if c.RetryAttempts < 1 {
		return errors.New("REDIS_RETRY_ATTEMPTS must be at least 1")
	}
	if c.ConnectTimeout <= 0 {
		return errors.New("REDIS_CONNECT_TIMEOUT must be positive")
	}
	return nil
}
