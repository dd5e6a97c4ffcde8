// Package redis connects to an optional redis server used for shared state
// between service replicas, such as rate limit buckets.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	if cfg.Enabled() {
//		client, err := redis.Connect(ctx, cfg)
//		...
//	}
package redis
