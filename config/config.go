// Package config contains the environment configuration of the dispatch
// core, used by the dispatchfx module to assemble the Mediator and the Bus.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hatchgrid/go-dispatch/eventbus"
	"github.com/hatchgrid/go-dispatch/logger"
)

// Prefix of all the environment variables read by Parse.
const Prefix = "DISPATCH"

// Config is the configuration of the dispatch core.
type Config struct {
	// PublishStrategy is the name of the default eventbus.Strategy,
	// as accepted by eventbus.ParseStrategy.
	PublishStrategy string `split_words:"true" default:"stop-on-error"`

	// MaxConcurrency bounds the Consumers run concurrently by the
	// parallel-when-all strategy. Zero means unbounded.
	MaxConcurrency int `split_words:"true" default:"0"`

	Log struct {
		Level       string `default:"info"`
		Development bool   `default:"false"`
	}
}

// Parse reads the Config from the DISPATCH_* environment variables.
func Parse() (*Config, error) {
	var config Config

	if err := envconfig.Process(Prefix, &config); err != nil {
		return nil, fmt.Errorf("config: failed to parse from env, %w", err)
	}

	if _, err := config.Strategy(nil); err != nil {
		return nil, err
	}

	if config.MaxConcurrency < 0 {
		return nil, fmt.Errorf("config: max concurrency must not be negative, got %d", config.MaxConcurrency)
	}

	return &config, nil
}

// Strategy returns the configured default eventbus.Strategy.
//
// The Logger is used by the parallel-no-wait strategy to report
// the Consumer failures, and can be nil.
func (c Config) Strategy(l logger.Logger) (eventbus.Strategy, error) {
	strategy, err := eventbus.ParseStrategy(c.PublishStrategy)
	if err != nil {
		return nil, fmt.Errorf("config: invalid publish strategy, %w", err)
	}

	switch strategy.(type) {
	case eventbus.ParallelWhenAll:
		return eventbus.ParallelWhenAll{MaxConcurrency: c.MaxConcurrency}, nil
	case eventbus.ParallelNoWait:
		return eventbus.ParallelNoWait{Logger: l}, nil
	default:
		return strategy, nil
	}
}

// Logger builds the *zap.Logger described by the Log configuration.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("config: invalid log level, %w", err)
	}

	zapConfig := zap.NewProductionConfig()
	if c.Log.Development {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.Level = zap.NewAtomicLevelAt(level)

	l, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("config: failed to initialize logger, %w", err)
	}

	return l, nil
}
