package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/portability/handler"
	"github.com/dmitrymomot/portability/modules/consultation"
	"github.com/dmitrymomot/portability/pkg/clientip"
	"github.com/dmitrymomot/portability/pkg/config"
	"github.com/dmitrymomot/portability/pkg/environment"
	"github.com/dmitrymomot/portability/pkg/httpserver"
	"github.com/dmitrymomot/portability/pkg/i18n"
	"github.com/dmitrymomot/portability/pkg/logger"
	"github.com/dmitrymomot/portability/pkg/metrics"
	"github.com/dmitrymomot/portability/pkg/ratelimiter"
	"github.com/dmitrymomot/portability/pkg/redis"
	"github.com/dmitrymomot/portability/pkg/requestid"
	"github.com/dmitrymomot/portability/svc/portability"
)

func main() {
	var logCfg logger.Config
	config.MustLoad(&logCfg)
	logOpts, err := logCfg.Options()
	if err != nil {
		slog.Error("invalid logger configuration", logger.Error(err))
		os.Exit(1)
	}
	logOpts = append(logOpts, logger.WithContextExtractors(
		requestid.LoggerExtractor(),
		environment.LoggerExtractor(),
	))
	log := logger.New(logOpts...)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, environment.Parse(logCfg.Env)); err != nil {
		log.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, env environment.Environment) error {
	var (
		appCfg    appConfig
		serverCfg httpserver.Config
		limitCfg  ratelimiter.Config
		redisCfg  redis.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&appCfg) },
		func() error { return config.Load(&serverCfg) },
		func() error { return config.Load(&limitCfg) },
		func() error { return config.Load(&redisCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	m := metrics.New()

	coreOpts := []portability.ServiceOption{
		portability.WithLogger(log),
		portability.WithRecorder(m),
	}
	if appCfg.CacheEnabled {
		coreOpts = append(coreOpts, portability.WithResultCache(appCfg.CacheSize, appCfg.CacheTTL))
	}
	core, err := portability.NewService(portability.MustDefaultRules(), coreOpts...)
	if err != nil {
		return err
	}
	if appCfg.RulesFile != "" {
		if err := core.Reload(ctx, portability.FileSource(appCfg.RulesFile)); err != nil {
			return err
		}
	}

	tr, err := consultation.NewTranslator(ctx, appCfg.DefaultLocale)
	if err != nil {
		return err
	}

	errorHandler := handler.NewErrorHandler(log, handler.ErrorHandlerConfig{
		ErrorPage:  consultation.ErrorPage(tr),
		ErrorToast: consultation.ErrorToast,
		Translate:  consultation.TranslateError(tr),
	})

	var (
		checks     []httpserver.Check
		limitStore ratelimiter.Store
	)
	if redisCfg.Enabled() {
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer client.Close()
		checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
		limitStore = ratelimiter.NewRedisStore(client)
	} else {
		mem := ratelimiter.NewMemoryStore()
		defer mem.Close()
		limitStore = mem
	}

	ips := clientip.NewResolver(appCfg.IPHeaders...)

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		logger.Middleware(log),
		middleware.Recoverer,
		middleware.Compress(5),
		environment.Middleware(env),
		ips.Middleware,
		m.Middleware,
		i18n.Middleware(tr),
	)

	if limitCfg.Enabled {
		bucket, err := ratelimiter.NewBucket(limitStore, limitCfg)
		if err != nil {
			return err
		}
		r.Use(ratelimiter.Middleware(bucket, ips.KeyFunc(),
			ratelimiter.WithLogger(log),
			ratelimiter.WithSkip(isProbe),
			ratelimiter.WithOnLimitReached(func(w http.ResponseWriter, r *http.Request, _ ratelimiter.Result) {
				m.IncrementRateLimited()
				errorHandler(handler.NewContext(w, r), handler.ErrTooManyRequests)
			}),
		))
	}

	r.Get("/healthz", httpserver.HealthCheckHandler(log, checks...))
	r.Handle("/metrics", m.Handler())
	r.Mount("/", consultation.NewService(core, tr,
		consultation.WithLogger(log),
		consultation.WithErrorHandler(errorHandler),
	).Handle())

	log.InfoContext(ctx, "starting portability server",
		slog.String("addr", serverCfg.Addr),
		slog.Uint64("rules_revision", core.Revision()),
		slog.Bool("redis", redisCfg.Enabled()),
		slog.Bool("rate_limit", limitCfg.Enabled),
	)
	return httpserver.New(serverCfg, log).Run(ctx, r)
}

func isProbe(r *http.Request) bool {
	return r.URL.Path == "/healthz" || strings.HasPrefix(r.URL.Path, "/metrics")
}
