package strmap

import (
	"time"

	"go.uber.org/zap"
)

// Option is a functional option for configuring a Mapper.
type Option func(*mapperConfig)

// mapperConfig holds the internal configuration for a Mapper.
type mapperConfig struct {
	logger   *zap.Logger
	location *time.Location
	name     string
}

// defaultMapperConfig returns the default mapper configuration.
func defaultMapperConfig() *mapperConfig {
	return &mapperConfig{
		logger:   nil,
		location: time.UTC,
	}
}

// WithLogger sets the logger for the mapper.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *mapperConfig) {
		c.logger = logger
	}
}

// WithLocation sets the location used to parse date/time text whose format carries no zone.
// Default: time.UTC
func WithLocation(loc *time.Location) Option {
	return func(c *mapperConfig) {
		if loc != nil {
			c.location = loc
		}
	}
}

// WithName labels the mapper in log output.
func WithName(name string) Option {
	return func(c *mapperConfig) {
		c.name = name
	}
}

func applyOptions(opts []Option) *mapperConfig {
	config := defaultMapperConfig()
	for _, opt := range opts {
		opt(config)
	}
	if config.logger == nil {
		config.logger = zap.NewNop()
	}
	return config
}
