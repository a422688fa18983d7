package config

import (
	"fmt"

	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/observability"
	"github.com/kbukum/streamkit/stream"
	"github.com/kbukum/streamkit/validation"
)

// Config is what Load requires of a configuration struct.
type Config interface {
	ApplyDefaults()
	Validate() error
}

// ServiceConfig contains the configuration every streamkit binary needs.
// Binaries extend it by embedding:
//
//	type MyConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Plans []plan.Spec    `yaml:"plans" mapstructure:"plans"`
//	}
type ServiceConfig struct {
	Name        string                        `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string                        `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version     string                        `yaml:"version" mapstructure:"version"`
	Debug       bool                          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config                 `yaml:"logging" mapstructure:"logging"`
	Stream      stream.Config                 `yaml:"stream" mapstructure:"stream"`
	Telemetry   observability.TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// GetServiceConfig returns the base ServiceConfig. It is promoted to
// embedding structs.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults applies default values. Embedding structs that override it
// call c.ServiceConfig.ApplyDefaults() first.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Logging.ServiceName == "" && c.Name != "" {
		c.Logging.ServiceName = c.Name
	}
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
	c.Stream.ApplyDefaults()

	if c.Telemetry.ServiceVersion == "" && c.Version != "" {
		c.Telemetry.ServiceVersion = c.Version
	}
	if c.Telemetry.Environment == "" {
		c.Telemetry.Environment = c.Environment
	}
	c.Telemetry.ApplyDefaults(c.Name)
}

// Validate checks struct tags first, then each section's own rules.
func (c *ServiceConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Stream.Validate(); err != nil {
		return fmt.Errorf("config.stream: %w", err)
	}
	return nil
}

// Load loads, defaults and validates a configuration of type T.
func Load[T any, PT interface {
	*T
	Config
}](serviceName string, opts ...LoaderOption) (*T, error) {
	cfg := new(T)
	if err := LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	PT(cfg).ApplyDefaults()
	if err := PT(cfg).Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
