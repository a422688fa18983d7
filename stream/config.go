package stream

import (
	"fmt"

	"github.com/kbukum/streamkit/observability"
)

// NoReserveLimit is the ReserveLimit that disables the cap. Zero cannot
// mean that in configuration, where it is indistinguishable from unset.
const NoReserveLimit = -1

// Config holds stream evaluation settings loaded from configuration.
type Config struct {
	// ReserveLimit caps preallocation from size hints. 0 selects
	// DefaultReserveLimit and NoReserveLimit removes the cap.
	ReserveLimit int `yaml:"reserve_limit" mapstructure:"reserve_limit" validate:"gte=-1"`
	// Trace starts a span per evaluation.
	Trace bool `yaml:"trace" mapstructure:"trace"`
	// Metrics records evaluation counters and durations.
	Metrics bool `yaml:"metrics" mapstructure:"metrics"`
}

// ApplyDefaults sets default values for zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.ReserveLimit == 0 {
		c.ReserveLimit = DefaultReserveLimit
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.ReserveLimit < NoReserveLimit {
		return fmt.Errorf("stream.reserve_limit must be -1 (no cap) or more (got: %d)", c.ReserveLimit)
	}
	return nil
}

// Options converts the configuration into stream options. m is used only
// when Metrics is on.
func (c Config) Options(m *observability.StreamMetrics) []Option {
	limit := c.ReserveLimit
	if limit == NoReserveLimit {
		limit = 0
	}
	opts := []Option{
		WithReserveLimit(limit),
		WithTracing(c.Trace),
	}
	if c.Metrics && m != nil {
		opts = append(opts, WithMetrics(m))
	}
	return opts
}
