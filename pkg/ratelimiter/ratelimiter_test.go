package ratelimiter_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/portability/pkg/config"
	"github.com/dmitrymomot/portability/pkg/ratelimiter"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func hourly(capacity int) ratelimiter.Config {
	return ratelimiter.Config{Enabled: true, Capacity: capacity, RefillRate: capacity, RefillInterval: time.Hour}
}

type storeFactory func(t *testing.T, clock *fakeClock) ratelimiter.Store

func stores() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T, clock *fakeClock) ratelimiter.Store {
			s := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0), ratelimiter.WithMemoryClock(clock.Now))
			t.Cleanup(s.Close)
			return s
		},
		"redis": func(t *testing.T, clock *fakeClock) ratelimiter.Store {
			mr := miniredis.RunT(t)
			client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { _ = client.Close() })
			return ratelimiter.NewRedisStore(client, ratelimiter.WithRedisClock(clock.Now))
		},
	}
}

func TestBucket_Stores(t *testing.T) {
	t.Parallel()

	for name, factory := range stores() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			t.Run("allows up to capacity then denies", func(t *testing.T) {
				t.Parallel()
				clock := newClock()
				b, err := ratelimiter.NewBucket(factory(t, clock), hourly(3))
				require.NoError(t, err)
				ctx := context.Background()

				for want := 2; want >= 0; want-- {
					res, err := b.Allow(ctx, "ip")
					require.NoError(t, err)
					assert.True(t, res.Allowed())
					assert.Equal(t, want, res.Remaining)
					assert.Equal(t, 3, res.Limit)
				}

				res, err := b.Allow(ctx, "ip")
				require.NoError(t, err)
				assert.False(t, res.Allowed())
				assert.Equal(t, clock.Now().Add(time.Hour).Unix(), res.ResetAt.Unix())

				other, err := b.Allow(ctx, "other-ip")
				require.NoError(t, err)
				assert.True(t, other.Allowed(), "buckets are per key")
			})

			t.Run("denied requests do not drain further", func(t *testing.T) {
				t.Parallel()
				clock := newClock()
				b, err := ratelimiter.NewBucket(factory(t, clock), hourly(1))
				require.NoError(t, err)
				ctx := context.Background()

				_, err = b.Allow(ctx, "ip")
				require.NoError(t, err)
				for range 5 {
					res, err := b.Allow(ctx, "ip")
					require.NoError(t, err)
					assert.Equal(t, -1, res.Remaining)
				}

				clock.Advance(time.Hour)
				res, err := b.Allow(ctx, "ip")
				require.NoError(t, err)
				assert.True(t, res.Allowed())
			})

			t.Run("refills in whole intervals", func(t *testing.T) {
				t.Parallel()
				clock := newClock()
				start := clock.Now()
				cfg := ratelimiter.Config{Enabled: true, Capacity: 4, RefillRate: 1, RefillInterval: time.Minute}
				b, err := ratelimiter.NewBucket(factory(t, clock), cfg)
				require.NoError(t, err)
				ctx := context.Background()

				for range 4 {
					_, err = b.Allow(ctx, "ip")
					require.NoError(t, err)
				}

				clock.Advance(90 * time.Second)
				res, err := b.Allow(ctx, "ip")
				require.NoError(t, err)
				assert.Equal(t, 0, res.Remaining, "one token refilled and taken")
				assert.Equal(t, start.Add(2*time.Minute).Unix(), res.ResetAt.Unix(), "partial interval is kept")

				clock.Advance(24 * time.Hour)
				res, err = b.Allow(ctx, "ip")
				require.NoError(t, err)
				assert.Equal(t, 3, res.Remaining, "never above capacity")
			})
		})
	}
}

func TestBucket_Validation(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	_, err := ratelimiter.NewBucket(store, ratelimiter.Config{Capacity: 0, RefillRate: 1, RefillInterval: time.Second})
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
}

func TestConfig(t *testing.T) {
	t.Parallel()

	var cfg ratelimiter.Config
	require.NoError(t, config.ParseMap(&cfg, map[string]string{}))
	assert.Equal(t, hourly(100), cfg)

	var disabled ratelimiter.Config
	require.NoError(t, config.ParseMap(&disabled, map[string]string{"RATE_LIMIT_ENABLED": "false", "RATE_LIMIT_CAPACITY": "0"}))
	assert.False(t, disabled.Enabled)

	var invalid ratelimiter.Config
	err := config.ParseMap(&invalid, map[string]string{"RATE_LIMIT_CAPACITY": "0"})
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
}

func TestMemoryStore_Sweep(t *testing.T) {
	t.Parallel()

	clock := newClock()
	store := ratelimiter.NewMemoryStore(
		ratelimiter.WithCleanupInterval(0),
		ratelimiter.WithStaleAfter(time.Hour),
		ratelimiter.WithMemoryClock(clock.Now),
	)
	cfg := hourly(5)
	ctx := context.Background()

	_, _, err := store.ConsumeTokens(ctx, "old", 1, cfg)
	require.NoError(t, err)
	clock.Advance(45 * time.Minute)
	_, _, err = store.ConsumeTokens(ctx, "fresh", 1, cfg)
	require.NoError(t, err)
	clock.Advance(30 * time.Minute)

	store.Sweep()
	assert.Equal(t, 1, store.Len())
	store.Close()
	store.Close()
}

func TestRedisStore_Unavailable(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	store := ratelimiter.NewRedisStore(client, ratelimiter.WithKeyPrefix("test:"))
	_, _, err := store.ConsumeTokens(context.Background(), "ip", 1, hourly(1))
	assert.ErrorIs(t, err, ratelimiter.ErrStoreUnavailable)
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := ratelimiter.NewRedisStore(client, ratelimiter.WithKeyPrefix("rl:"))
	_, _, err := store.ConsumeTokens(context.Background(), "203.0.113.1", 1, hourly(2))
	require.NoError(t, err)

	assert.True(t, mr.Exists("rl:203.0.113.1"))
	assert.Equal(t, "1", mr.HGet("rl:203.0.113.1", "tokens"))
	assert.Positive(t, mr.TTL("rl:203.0.113.1"))
}

type limiterFunc func(ctx context.Context, key string) (ratelimiter.Result, error)

func (f limiterFunc) Allow(ctx context.Context, key string) (ratelimiter.Result, error) {
	return f(ctx, key)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	byHeader := func(r *http.Request) string { return r.Header.Get("X-Client") }

	t.Run("headers and denial", func(t *testing.T) {
		t.Parallel()
		store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
		b, err := ratelimiter.NewBucket(store, hourly(2))
		require.NoError(t, err)
		h := ratelimiter.Middleware(b, byHeader)(ok)

		send := func() *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/consultar", nil)
			req.Header.Set("X-Client", "a")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			return rec
		}

		first := send()
		assert.Equal(t, http.StatusNoContent, first.Code)
		assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, first.Header().Get("X-RateLimit-Reset"))

		assert.Equal(t, http.StatusNoContent, send().Code)

		denied := send()
		assert.Equal(t, http.StatusTooManyRequests, denied.Code)
		assert.Equal(t, "0", denied.Header().Get("X-RateLimit-Remaining"))
		retry, err := strconv.Atoi(denied.Header().Get("Retry-After"))
		require.NoError(t, err)
		assert.InDelta(t, 3600, retry, 5)
	})

	t.Run("custom limit handler", func(t *testing.T) {
		t.Parallel()
		deny := limiterFunc(func(context.Context, string) (ratelimiter.Result, error) {
			return ratelimiter.Result{Limit: 1, Remaining: -1, ResetAt: time.Now()}, nil
		})
		h := ratelimiter.Middleware(deny, byHeader, ratelimiter.WithOnLimitReached(
			func(w http.ResponseWriter, r *http.Request, res ratelimiter.Result) {
				w.WriteHeader(http.StatusTeapot)
			}))(ok)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Client", "a")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	})

	t.Run("fails open on store errors", func(t *testing.T) {
		t.Parallel()
		broken := limiterFunc(func(context.Context, string) (ratelimiter.Result, error) {
			return ratelimiter.Result{}, errors.New("down")
		})
		h := ratelimiter.Middleware(broken, byHeader)(ok)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Client", "a")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("skips empty keys and skipped requests", func(t *testing.T) {
		t.Parallel()
		calls := 0
		counting := limiterFunc(func(context.Context, string) (ratelimiter.Result, error) {
			calls++
			return ratelimiter.Result{Limit: 1}, nil
		})
		h := ratelimiter.Middleware(counting, byHeader,
			ratelimiter.WithSkip(func(r *http.Request) bool { return r.URL.Path == "/healthz" }),
		)(ok)

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("X-Client", "a")
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.Zero(t, calls)
	})

	t.Run("requires key func", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { ratelimiter.Middleware(nil, nil) })
	})
}
