package ratelimiter

import (
	"context"
	"fmt"
	"time"
)

// Config defines the token bucket and its environment configuration.
// The defaults allow 100 requests per client per hour, refilled in one step
// at the end of each hour.
type Config struct {
	Enabled        bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	Capacity       int           `env:"RATE_LIMIT_CAPACITY" envDefault:"100"`
	RefillRate     int           `env:"RATE_LIMIT_REFILL_RATE" envDefault:"100"`
	RefillInterval time.Duration `env:"RATE_LIMIT_INTERVAL" envDefault:"1h"`
}

// Validate implements config.Validator. A disabled limiter is always valid.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	return c.validate()
}

func (c Config) validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	}
	if c.RefillRate <= 0 {
		return fmt.Errorf("%w: refill rate must be positive, got %d", ErrInvalidConfig, c.RefillRate)
	}
	if c.RefillInterval <= 0 {
		return fmt.Errorf("%w: refill interval must be positive, got %v", ErrInvalidConfig, c.RefillInterval)
	}
	return nil
}

// Result describes the bucket after a request.
type Result struct {
	Limit     int
	Remaining int // negative when the request was denied
	ResetAt   time.Time
}

func (r Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter is the wait until the next refill, zero for allowed requests.
func (r Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(time.Until(r.ResetAt), 0)
}

// Store persists bucket state.
type Store interface {
	// ConsumeTokens refills the bucket for key and takes tokens when enough
	// are available. A negative remaining count means the request is denied
	// and nothing was taken.
	ConsumeTokens(ctx context.Context, key string, tokens int, cfg Config) (remaining int, resetAt time.Time, err error)
}

// Limiter is what Middleware needs from a bucket.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// Bucket implements a token bucket limiter on top of a Store.
type Bucket struct {
	store Store
	cfg   Config
}

func NewBucket(store Store, cfg Config) (*Bucket, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Bucket{store: store, cfg: cfg}, nil
}

// Allow takes one token for key.
func (b *Bucket) Allow(ctx context.Context, key string) (Result, error) {
	remaining, resetAt, err := b.store.ConsumeTokens(ctx, key, 1, b.cfg)
	if err != nil {
		return Result{}, err
	}
	return Result{Limit: b.cfg.Capacity, Remaining: remaining, ResetAt: resetAt}, nil
}

// refill advances a bucket last refilled at refilledAt to now. Refills
// happen in whole intervals and the refill time moves by whole intervals,
// so partial progress towards the next refill is kept.
func refill(tokens int, refilledAt, now time.Time, cfg Config) (int, time.Time) {
	elapsed := now.Sub(refilledAt)
	if elapsed < cfg.RefillInterval {
		return tokens, refilledAt
	}
	intervals := int64(elapsed / cfg.RefillInterval)
	// Any count beyond this fills the bucket anyway.
	full := int64(cfg.Capacity/cfg.RefillRate + 1)
	tokens = min(tokens+int(min(intervals, full))*cfg.RefillRate, cfg.Capacity)
	return tokens, refilledAt.Add(time.Duration(intervals) * cfg.RefillInterval)
}
