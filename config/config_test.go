package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/hatchgrid/go-dispatch/config"
	"github.com/hatchgrid/go-dispatch/eventbus"
	"github.com/hatchgrid/go-dispatch/logger"
)

func TestParse(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := config.Parse()
		require.NoError(t, err)

		assert.Equal(t, "stop-on-error", cfg.PublishStrategy)
		assert.Equal(t, 0, cfg.MaxConcurrency)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.False(t, cfg.Log.Development)

		strategy, err := cfg.Strategy(nil)
		require.NoError(t, err)
		assert.Equal(t, eventbus.StopOnError{}, strategy)
	})

	t.Run("parallel when all with a concurrency limit", func(t *testing.T) {
		t.Setenv("DISPATCH_PUBLISH_STRATEGY", "parallel-when-all")
		t.Setenv("DISPATCH_MAX_CONCURRENCY", "4")

		cfg, err := config.Parse()
		require.NoError(t, err)

		strategy, err := cfg.Strategy(nil)
		require.NoError(t, err)
		assert.Equal(t, eventbus.ParallelWhenAll{MaxConcurrency: 4}, strategy)
	})

	t.Run("parallel no wait logs through the provided logger", func(t *testing.T) {
		t.Setenv("DISPATCH_PUBLISH_STRATEGY", "parallel-no-wait")

		cfg, err := config.Parse()
		require.NoError(t, err)

		l := logger.NewTest(t)

		strategy, err := cfg.Strategy(l)
		require.NoError(t, err)
		assert.Equal(t, eventbus.ParallelNoWait{Logger: l}, strategy)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		t.Setenv("DISPATCH_PUBLISH_STRATEGY", "best-effort")

		_, err := config.Parse()
		assert.ErrorIs(t, err, eventbus.ErrUnknownStrategy)
	})

	t.Run("negative concurrency", func(t *testing.T) {
		t.Setenv("DISPATCH_MAX_CONCURRENCY", "-1")

		_, err := config.Parse()
		assert.Error(t, err)
	})
}

func TestConfig_Logger(t *testing.T) {
	t.Run("the configured level is enabled", func(t *testing.T) {
		var cfg config.Config
		cfg.Log.Level = "debug"
		cfg.Log.Development = true

		l, err := cfg.Logger()
		require.NoError(t, err)

		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("levels below the configured one are disabled", func(t *testing.T) {
		var cfg config.Config
		cfg.Log.Level = "error"

		l, err := cfg.Logger()
		require.NoError(t, err)

		assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("invalid level", func(t *testing.T) {
		var cfg config.Config
		cfg.Log.Level = "verbose"

		_, err := cfg.Logger()
		assert.Error(t, err)
	})
}
