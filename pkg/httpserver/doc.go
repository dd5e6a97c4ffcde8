// Package httpserver wraps net/http.Server with environment configuration,
// graceful shutdown on context cancellation or SIGINT/SIGTERM, and a health
// check handler for liveness and readiness probes.
//
//	var cfg httpserver.Config
//	config.MustLoad(&cfg)
//	srv := httpserver.New(cfg, log)
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
package httpserver
