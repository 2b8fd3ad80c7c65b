package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iqstart/eduedu/pkg/config"
)

func TestLoad(t *testing.T) {
	t.Run("parses env tags", func(t *testing.T) {
		type serverConfig struct {
			Host string `env:"TEST_LOADER_HOST" envDefault:"localhost"`
			Port int    `env:"TEST_LOADER_PORT" envDefault:"8080"`
		}
		t.Setenv("TEST_LOADER_PORT", "9090")

		var cfg serverConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, 9090, cfg.Port)
	})

	t.Run("missing required variable", func(t *testing.T) {
		type strictConfig struct {
			Token string `env:"TEST_LOADER_TOKEN,required"`
		}

		var cfg strictConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("caches per struct type", func(t *testing.T) {
		type cachedConfig struct {
			Value string `env:"TEST_LOADER_CACHED" envDefault:"first"`
		}
		t.Setenv("TEST_LOADER_CACHED", "first")

		var a cachedConfig
		require.NoError(t, config.Load(&a))
		require.Equal(t, "first", a.Value)

		// Environment changes after the first load are not observed.
		t.Setenv("TEST_LOADER_CACHED", "second")
		var b cachedConfig
		require.NoError(t, config.Load(&b))
		assert.Equal(t, "first", b.Value)
	})

	t.Run("nil pointer", func(t *testing.T) {
		type anyConfig struct{}
		var cfg *anyConfig
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("returns config on success", func(t *testing.T) {
		type okConfig struct {
			Name string `env:"TEST_MUSTLOAD_NAME" envDefault:"eduedu"`
		}
		var cfg okConfig
		assert.NotPanics(t, func() { config.MustLoad(&cfg) })
		assert.Equal(t, "eduedu", cfg.Name)
	})

	t.Run("panics on missing required variable", func(t *testing.T) {
		type badConfig struct {
			Secret string `env:"TEST_MUSTLOAD_SECRET,required"`
		}
		var cfg badConfig
		assert.Panics(t, func() { config.MustLoad(&cfg) })
	})
}
