package minimize

import (
	"context"
	"time"

	"github.com/gradflow/gradflow/dense"
)

// CostGradient is a scalar cost together with its gradient vector. The
// gradient length always equals the parameter vector length.
type CostGradient struct {
	Cost     float64
	Gradient dense.Vector
}

// CostFunction is what an iterative optimizer consumes: repeated
// evaluations of cost and gradient at a parameter vector.
type CostFunction interface {
	Evaluate(ctx context.Context, params dense.Vector) (CostGradient, error)
}

// Evaluator computes cost and gradient for one batch. Implementations
// must be safe to invoke concurrently on disjoint batches with the same
// params value; params is shared read-only and must never be mutated.
// The batch matrix already contains the bias column as column 0.
type Evaluator interface {
	EvaluateBatch(ctx context.Context, params dense.Vector, batch *dense.Matrix) (CostGradient, error)
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(ctx context.Context, params dense.Vector, batch *dense.Matrix) (CostGradient, error)

// EvaluateBatch implements Evaluator.
func (f EvaluatorFunc) EvaluateBatch(ctx context.Context, params dense.Vector, batch *dense.Matrix) (CostGradient, error) {
	return f(ctx, params, batch)
}

// MetricsRecorder receives engine metrics. The internal Prometheus
// collector implements it; a nil recorder disables metrics.
type MetricsRecorder interface {
	RecordEvaluation(engineID, mode, status string, duration time.Duration)
	RecordBatch(engineID, mode string, duration time.Duration)
	RecordEngine(engineID string, batches, workers int)
}
