package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Validator is implemented by config structs that check their own values
// after parsing.
type Validator interface {
	Validate() error
}

type entry struct {
	once  sync.Once
	value any
	err   error
}

var (
	cache          sync.Map // reflect.Type -> *entry
	dotenvLoadOnce sync.Once
)

// Load fills v from the environment. The first call loads a .env file from
// the working directory when one exists. Each config type is parsed and
// validated once; later calls for the same type return the cached value,
// or the cached error.
//
//	type ServerConfig struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":5000"`
//	}
//
//	var cfg ServerConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	dotenvLoadOnce.Do(func() {
		// A missing .env file is normal outside local development.
		_ = godotenv.Load()
	})

	e := &entry{}
	if existing, loaded := cache.LoadOrStore(reflect.TypeFor[T](), e); loaded {
		e = existing.(*entry)
	}

	e.once.Do(func() {
		var cfg T
		if err := parse(&cfg, env.Options{}); err != nil {
			e.err = err
			return
		}
		e.value = cfg
	})

	if e.err != nil {
		return e.err
	}
	cfg, ok := e.value.(T)
	if !ok {
		return ErrConfigNotLoaded
	}
	*v = cfg
	return nil
}

// MustLoad works like Load but panics if loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// ParseMap fills v from vars instead of the process environment. Nothing is
// cached.
func ParseMap[T any](v *T, vars map[string]string) error {
	if v == nil {
		return ErrNilPointer
	}
	return parse(v, env.Options{Environment: vars})
}

func parse(v any, opts env.Options) error {
	if err := env.ParseWithOptions(v, opts); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	if val, ok := v.(Validator); ok {
		if err := val.Validate(); err != nil {
			return errors.Join(ErrInvalidConfig, err)
		}
	}
	return nil
}
