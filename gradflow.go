// Package gradflow provides a top-level convenience entry point for the
// parallel mini-batch cost-function evaluation engine.
//
// Usage:
//
//	import "github.com/gradflow/gradflow"
//
//	cf, err := gradflow.New(examples, myEvaluator,
//	    gradflow.WithBatchSize(64),
//	    gradflow.WithWorkers(4),
//	)
//	defer cf.Close()
//	result, err := cf.Evaluate(ctx, params)
//
// This is a thin wrapper around [minimize.NewMiniBatch]; both produce
// identical results. Use this package when you prefer option functions
// over the Options struct.
package gradflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/gradflow/gradflow/config"
	"github.com/gradflow/gradflow/dense"
	"github.com/gradflow/gradflow/internal/metrics"
	"github.com/gradflow/gradflow/internal/telemetry"
	"github.com/gradflow/gradflow/minimize"
)

// Option configures the engine created by [New].
type Option func(*minimize.Options)

// WithBatchSize sets the examples per batch; 0 means full-batch learning.
func WithBatchSize(n int) Option {
	return func(o *minimize.Options) { o.BatchSize = n }
}

// WithWorkers sets the evaluation pool size.
func WithWorkers(n int) Option {
	return func(o *minimize.Options) { o.Workers = n }
}

// WithStochastic selects rotating single-batch evaluation.
func WithStochastic() Option {
	return func(o *minimize.Options) { o.Stochastic = true }
}

// WithLogger sets a custom zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *minimize.Options) { o.Logger = logger }
}

// WithMetrics enables Prometheus metrics under the given namespace,
// registered against the default registry.
func WithMetrics(namespace string) Option {
	return func(o *minimize.Options) {
		o.Metrics = metrics.NewCollector(namespace, nil, o.Logger)
	}
}

// WithConfig applies an engine configuration section, typically loaded
// through the config package.
func WithConfig(cfg config.EngineConfig) Option {
	return func(o *minimize.Options) {
		o.BatchSize = cfg.BatchSize
		o.Workers = cfg.Workers
		o.Stochastic = cfg.Stochastic
		if cfg.MetricsNamespace != "" {
			o.Metrics = metrics.NewCollector(cfg.MetricsNamespace, nil, o.Logger)
		}
	}
}

// New creates a [minimize.MiniBatch] engine over examples with the given
// batch evaluator. Workers defaults to 1.
func New(examples []dense.Vector, evaluator minimize.Evaluator, opts ...Option) (*minimize.MiniBatch, error) {
	options := minimize.Options{Workers: 1}
	for _, opt := range opts {
		opt(&options)
	}
	return minimize.NewMiniBatch(examples, evaluator, options)
}

// InitTelemetry initializes the OpenTelemetry SDK from the telemetry
// configuration and returns a shutdown function that flushes exporters.
// When cfg.Enabled is false the global providers remain noop.
func InitTelemetry(cfg config.TelemetryConfig, logger *zap.Logger) (func(context.Context) error, error) {
	providers, err := telemetry.Init(cfg, logger)
	if err != nil {
		return nil, err
	}
	return providers.Shutdown, nil
}
