// Package config loads typed configuration structs from environment
// variables. Each unique struct type is parsed once per process; later calls
// return the cached value, so packages can load their own config
// independently without re-reading the environment.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	mu     sync.Mutex
	cache  = make(map[string]any)
	dotenv sync.Once
)

// Load parses environment variables into v based on `env` struct tags.
// A .env file in the working directory is loaded first if present; a missing
// file is not an error.
//
//	type StripeConfig struct {
//		SecretKey string `env:"STRIPE_SECRET_KEY,required"`
//	}
//
//	var cfg StripeConfig
//	if err := config.Load(&cfg); err != nil { ... }
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dotenv.Do(func() {
		// The .env file is a development convenience and may not exist.
		_ = godotenv.Load()
	})

	key := typeKey[T]()

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := cache[key]; ok {
		*v = cached.(T)
		return nil
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	// Cache a copy so later mutations of v do not leak into other callers.
	cache[key] = *v
	return nil
}

// MustLoad works like Load but panics on failure. Use for configuration the
// process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: failed to load %s: %v", typeKey[T](), err))
	}
}

func typeKey[T any]() string {
	t := reflect.TypeOf(*new(T))
	if t == nil {
		return fmt.Sprintf("%T", *new(T))
	}
	return t.String()
}
