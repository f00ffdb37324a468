// Package config provides unified configuration loading for gradflow:
// defaults, then a YAML file, then GRADFLOW_* environment overrides.
package config

import (
	"fmt"

	"github.com/gradflow/gradflow/types"
)

// Config is the complete gradflow configuration.
type Config struct {
	// Engine configures the mini-batch evaluation engine.
	Engine EngineConfig `yaml:"engine"`

	// Log configures the zap logger.
	Log LogConfig `yaml:"log"`

	// Telemetry configures the OpenTelemetry SDK.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// EngineConfig configures the mini-batch evaluation engine.
type EngineConfig struct {
	// BatchSize is the number of examples per batch. 0 means full-batch
	// learning: a single batch over the whole dataset.
	BatchSize int `yaml:"batch_size"`

	// Workers is the size of the evaluation worker pool. Forced to 1 when
	// BatchSize is 0, since there is only one unit of work.
	Workers int `yaml:"workers"`

	// Stochastic selects single-batch rotating evaluation instead of
	// full averaging over all batches.
	Stochastic bool `yaml:"stochastic"`

	// MetricsNamespace is the Prometheus namespace for engine metrics.
	// Empty disables metrics.
	MetricsNamespace string `yaml:"metrics_namespace"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Development switches to the human-readable development encoder.
	Development bool `yaml:"development"`
}

// TelemetryConfig configures the OpenTelemetry SDK.
type TelemetryConfig struct {
	// Enabled turns the OTLP exporters on. When false the global
	// providers stay noop and no external connection is made.
	Enabled bool `yaml:"enabled"`

	// ServiceName identifies this process in traces.
	ServiceName string `yaml:"service_name"`

	// OTLPEndpoint is the host:port of the OTLP gRPC collector.
	OTLPEndpoint string `yaml:"otlp_endpoint"`

	// SampleRate is the trace sampling ratio in [0, 1].
	SampleRate float64 `yaml:"sample_rate"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			BatchSize:  0,
			Workers:    1,
			Stochastic: false,
		},
		Log: LogConfig{
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			ServiceName:  "gradflow",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// Validate checks the configuration for values that cannot work.
// Dataset-dependent preconditions (batch size vs dataset length) are
// checked again by the engine constructor.
func (c Config) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return types.Errorf(types.ErrInvalidConfiguration,
			"telemetry sample rate must be in [0, 1], got %v", c.Telemetry.SampleRate)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return types.Errorf(types.ErrInvalidConfiguration, "unknown log level %q", c.Log.Level)
	}
	return nil
}

// Validate checks the engine section.
func (c EngineConfig) Validate() error {
	if c.BatchSize < 0 {
		return types.Errorf(types.ErrInvalidConfiguration, "batch size must not be negative, got %d", c.BatchSize)
	}
	if c.Workers < 1 {
		return types.Errorf(types.ErrInvalidConfiguration, "worker count must be at least 1, got %d", c.Workers)
	}
	return nil
}

func (c EngineConfig) String() string {
	mode := "full"
	if c.Stochastic {
		mode = "stochastic"
	}
	return fmt.Sprintf("engine{batch_size=%d workers=%d mode=%s}", c.BatchSize, c.Workers, mode)
}
