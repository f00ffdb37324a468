package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector records evaluation engine metrics.
type Collector struct {
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration *prometheus.HistogramVec
	batchesTotal       *prometheus.CounterVec
	batchDuration      *prometheus.HistogramVec
	batchesConfigured  *prometheus.GaugeVec
	poolWorkers        *prometheus.GaugeVec

	logger *zap.Logger
}

// NewCollector creates a metrics collector. A nil registerer uses the
// global Prometheus registry; a nil logger disables logging.
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.evaluationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Total number of cost function evaluations",
		},
		[]string{"engine_id", "mode", "status"},
	)

	c.evaluationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Cost function evaluation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"engine_id", "mode"},
	)

	c.batchesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_evaluated_total",
			Help:      "Total number of batch evaluations",
		},
		[]string{"engine_id", "mode"},
	)

	c.batchDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_evaluation_duration_seconds",
			Help:      "Single batch evaluation duration in seconds",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"engine_id", "mode"},
	)

	c.batchesConfigured = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "batches_configured",
			Help:      "Number of batches the engine was partitioned into",
		},
		[]string{"engine_id"},
	)

	c.poolWorkers = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pool_workers",
			Help:      "Number of worker goroutines in the evaluation pool",
		},
		[]string{"engine_id"},
	)

	logger.Info("metrics collector initialized", zap.String("namespace", namespace))

	return c
}

// RecordEvaluation records one Evaluate call.
func (c *Collector) RecordEvaluation(engineID, mode, status string, duration time.Duration) {
	c.evaluationsTotal.WithLabelValues(engineID, mode, status).Inc()
	c.evaluationDuration.WithLabelValues(engineID, mode).Observe(duration.Seconds())
}

// RecordBatch records one batch evaluation task.
func (c *Collector) RecordBatch(engineID, mode string, duration time.Duration) {
	c.batchesTotal.WithLabelValues(engineID, mode).Inc()
	c.batchDuration.WithLabelValues(engineID, mode).Observe(duration.Seconds())
}

// RecordEngine records the static shape of an engine at construction.
func (c *Collector) RecordEngine(engineID string, batches, workers int) {
	c.batchesConfigured.WithLabelValues(engineID).Set(float64(batches))
	c.poolWorkers.WithLabelValues(engineID).Set(float64(workers))
}
