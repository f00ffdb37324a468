package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/gradflow/gradflow/types"
)

// Loader loads configuration with the precedence
// defaults → YAML file → environment variables.
//
// Usage:
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("gradflow.yaml").
//	    WithEnvPrefix("GRADFLOW").
//	    Load()
type Loader struct {
	configPath string
	envPrefix  string
}

// NewLoader creates a loader with the default env prefix GRADFLOW.
func NewLoader() *Loader {
	return &Loader{envPrefix: "GRADFLOW"}
}

// WithConfigPath sets the YAML file path. Empty skips file loading.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix overrides the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Load resolves the configuration and validates it.
func (l *Loader) Load() (Config, error) {
	cfg := Default()

	if l.configPath != "" {
		data, err := os.ReadFile(l.configPath)
		if err != nil {
			return Config{}, types.WrapError(types.ErrInvalidConfiguration, "read config file", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, types.WrapError(types.ErrInvalidConfiguration, "parse config file", err)
		}
	}

	l.applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (l *Loader) applyEnv(cfg *Config) {
	l.envInt("ENGINE_BATCH_SIZE", &cfg.Engine.BatchSize)
	l.envInt("ENGINE_WORKERS", &cfg.Engine.Workers)
	l.envBool("ENGINE_STOCHASTIC", &cfg.Engine.Stochastic)
	l.envString("ENGINE_METRICS_NAMESPACE", &cfg.Engine.MetricsNamespace)

	l.envString("LOG_LEVEL", &cfg.Log.Level)
	l.envBool("LOG_DEVELOPMENT", &cfg.Log.Development)

	l.envBool("TELEMETRY_ENABLED", &cfg.Telemetry.Enabled)
	l.envString("TELEMETRY_SERVICE_NAME", &cfg.Telemetry.ServiceName)
	l.envString("TELEMETRY_OTLP_ENDPOINT", &cfg.Telemetry.OTLPEndpoint)
	l.envFloat("TELEMETRY_SAMPLE_RATE", &cfg.Telemetry.SampleRate)
}

func (l *Loader) lookup(key string) (string, bool) {
	return os.LookupEnv(l.envPrefix + "_" + key)
}

func (l *Loader) envString(key string, dst *string) {
	if v, ok := l.lookup(key); ok {
		*dst = v
	}
}

func (l *Loader) envInt(key string, dst *int) {
	if v, ok := l.lookup(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func (l *Loader) envBool(key string, dst *bool) {
	if v, ok := l.lookup(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func (l *Loader) envFloat(key string, dst *float64) {
	if v, ok := l.lookup(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
