package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/portability/pkg/environment"
	"github.com/dmitrymomot/portability/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json by default", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Info("hello")

		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("static attributes", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithAttr(slog.String("svc", "test")))
		log.Info("msg")
		assert.Equal(t, "test", decode(t, buf)["svc"])
	})

	t.Run("level filter", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelWarn))
		log.Info("dropped")
		assert.Zero(t, buf.Len())
	})

	t.Run("context extractors", func(t *testing.T) {
		t.Parallel()
		type key struct{}
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithContextExtractors(nil, func(ctx context.Context) (slog.Attr, bool) {
				v, ok := ctx.Value(key{}).(string)
				return slog.String("request_id", v), ok
			}),
		)
		log.With(logger.Component("test")).InfoContext(context.WithValue(context.Background(), key{}, "42"), "msg")

		entry := decode(t, buf)
		assert.Equal(t, "42", entry["request_id"])
		assert.Equal(t, "test", entry["component"])
	})

	t.Run("invalid format panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
	})
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	t.Run("development", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithEnvironment(environment.Development, "portability"))
		log.Debug("visible")

		out := buf.String()
		assert.Contains(t, out, "level=DEBUG")
		assert.Contains(t, out, "service=portability")
		assert.Contains(t, out, "env=development")
	})

	t.Run("production", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithEnvironment(environment.Production, "portability"))
		log.Debug("hidden")
		assert.Zero(t, buf.Len())

		log.Info("shown")
		entry := decode(t, buf)
		assert.Equal(t, "production", entry["env"])
		assert.Equal(t, "portability", entry["service"])
	})
}

func TestConfig_Options(t *testing.T) {
	t.Parallel()

	t.Run("overrides", func(t *testing.T) {
		t.Parallel()
		opts, err := logger.Config{Env: "prod", Level: "debug", Format: "TEXT"}.Options()
		require.NoError(t, err)

		buf := &bytes.Buffer{}
		log := logger.New(append(opts, logger.WithOutput(buf))...)
		log.Debug("shown")
		assert.Contains(t, buf.String(), "env=production")
	})

	t.Run("bad level", func(t *testing.T) {
		t.Parallel()
		_, err := logger.Config{Level: "loud"}.Options()
		assert.ErrorIs(t, err, logger.ErrInvalidLevel)
	})

	t.Run("bad format", func(t *testing.T) {
		t.Parallel()
		_, err := logger.Config{Format: "xml"}.Options()
		assert.Error(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		"warn":    slog.LevelWarn,
		"Error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := logger.ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
	assert.Equal(t, "error", logger.Error(errors.New("x")).Key)
	assert.True(t, logger.Errors(nil, nil).Equal(slog.Attr{}))

	errs := logger.Errors(nil, errors.New("b"))
	require.Equal(t, slog.KindGroup, errs.Value.Kind())
	assert.Equal(t, "1", errs.Value.Group()[0].Key)

	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
	assert.Equal(t, "abc", logger.RequestID("abc").Value.String())
	assert.True(t, logger.ClientIP("").Equal(slog.Attr{}))
	assert.InDelta(t, 1.5, logger.Duration(1500*time.Microsecond).Value.Float64(), 0.0001)
	assert.Equal(t, int64(404), logger.HTTPStatus(404).Value.Int64())
	assert.Equal(t, "g", logger.Group("g", slog.Int("a", 1)).Key)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		code  int
		level string
	}{
		{"ok", http.StatusOK, "INFO"},
		{"implicit ok", 0, "INFO"},
		{"client error", http.StatusUnprocessableEntity, "WARN"},
		{"server error", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := &bytes.Buffer{}
			log := logger.New(logger.WithOutput(buf))
			h := logger.Middleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.code != 0 {
					w.WriteHeader(tt.code)
				}
				_, _ = w.Write([]byte("body"))
			}))

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/consultar", nil))

			entry := decode(t, buf)
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "POST", entry["method"])
			assert.Equal(t, "/consultar", entry["path"])
			assert.Equal(t, "http", entry["component"])
			assert.InDelta(t, 4, entry["bytes"], 0)
			want := tt.code
			if want == 0 {
				want = http.StatusOK
			}
			assert.InDelta(t, want, entry["status"], 0)
		})
	}
}
