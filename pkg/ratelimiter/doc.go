// Package ratelimiter implements token bucket rate limiting for HTTP
// handlers.
//
// A Bucket holds the algorithm parameters and delegates state to a Store:
// MemoryStore for a single process or RedisStore when several replicas must
// share one budget per client. Middleware sets the X-RateLimit-* headers on
// every response and answers 429 with Retry-After once a bucket is empty.
//
//	bucket, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), cfg)
//	r.Use(ratelimiter.Middleware(bucket, resolver.KeyFunc()))
package ratelimiter
