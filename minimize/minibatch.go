package minimize

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/gradflow/gradflow/dense"
	"github.com/gradflow/gradflow/internal/pool"
	"github.com/gradflow/gradflow/types"
)

const (
	modeFull       = "full"
	modeStochastic = "stochastic"

	statusOK    = "ok"
	statusError = "error"
)

// Options configures a MiniBatch engine.
type Options struct {
	// BatchSize is the number of examples per batch; 0 means one batch
	// covering the whole dataset (full-batch learning).
	BatchSize int

	// Workers is the evaluation pool size. Must be at least 1. Forced to
	// 1 when BatchSize is 0, since there is only one unit of work.
	Workers int

	// Stochastic selects rotating single-batch evaluation.
	Stochastic bool

	// Logger defaults to a nop logger.
	Logger *zap.Logger

	// Metrics is optional; nil disables metric recording.
	Metrics MetricsRecorder
}

// MiniBatch evaluates a pluggable batch cost function over a fixed
// partitioning of the training data, in parallel, and reduces the
// per-batch results into one (cost, gradient) pair.
//
// Evaluate must not be called concurrently on the same instance: the
// stochastic cursor is advanced without locking on the calling
// goroutine. This matches the single optimizer loop the engine is
// built for and is a documented precondition, not an enforced one.
type MiniBatch struct {
	id         string
	evaluator  Evaluator
	batches    []*dense.Matrix
	stochastic bool
	cursor     int

	pool     *pool.Pool[CostGradient]
	logger   *zap.Logger
	metrics  MetricsRecorder
	tracer   trace.Tracer
	logEvery *rate.Limiter
}

var _ CostFunction = (*MiniBatch)(nil)

// NewMiniBatch partitions examples into batches of opts.BatchSize rows,
// each with a constant 1.0 bias column prepended, and starts the worker
// pool. The batches are materialized once here and never mutated.
func NewMiniBatch(examples []dense.Vector, evaluator Evaluator, opts Options) (*MiniBatch, error) {
	if len(examples) == 0 {
		return nil, types.NewError(types.ErrInvalidConfiguration, "dataset must not be empty")
	}
	if evaluator == nil {
		return nil, types.NewError(types.ErrInvalidConfiguration, "evaluator must not be nil")
	}
	if opts.BatchSize < 0 || opts.BatchSize > len(examples) {
		return nil, types.Errorf(types.ErrInvalidConfiguration,
			"batch size must be in range 0-%d, got %d", len(examples), opts.BatchSize)
	}
	if opts.Workers < 1 {
		return nil, types.Errorf(types.ErrInvalidConfiguration,
			"worker count must be at least 1, got %d", opts.Workers)
	}

	workers := opts.Workers
	if opts.BatchSize == 0 {
		// Full-batch learning has a single unit of work.
		workers = 1
	}

	ranges := partitionRanges(len(examples), opts.BatchSize)
	batches := make([]*dense.Matrix, len(ranges))
	for i, r := range ranges {
		batches[i] = dense.WithBias(examples[r.start : r.end+1])
	}

	// Queue capacity covers a full submission round, so Evaluate never
	// blocks on its own submissions.
	p, err := pool.New[CostGradient](workers, len(batches))
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &MiniBatch{
		id:         uuid.NewString(),
		evaluator:  evaluator,
		batches:    batches,
		stochastic: opts.Stochastic,
		pool:       p,
		metrics:    opts.Metrics,
		tracer:     otel.Tracer("github.com/gradflow/gradflow/minimize"),
		logEvery:   rate.NewLimiter(rate.Every(time.Second), 1),
	}
	m.logger = logger.With(zap.String("engine_id", m.id))

	if m.metrics != nil {
		m.metrics.RecordEngine(m.id, len(batches), workers)
	}
	m.logger.Info("mini-batch engine created",
		zap.Int("examples", len(examples)),
		zap.Int("batch_size", opts.BatchSize),
		zap.Int("batches", len(batches)),
		zap.Int("workers", workers),
		zap.String("mode", m.mode()),
	)

	return m, nil
}

// ID returns the engine's correlation id used in logs, metrics and spans.
func (m *MiniBatch) ID() string {
	return m.id
}

// Batches returns the number of batches the dataset was partitioned into.
func (m *MiniBatch) Batches() int {
	return len(m.batches)
}

func (m *MiniBatch) mode() string {
	if m.stochastic {
		return modeStochastic
	}
	return modeFull
}

// Evaluate computes the aggregate cost and gradient at params.
//
// In full mode every batch is submitted to the pool, completions are
// drained in arrival order, and the summed cost and gradient are divided
// by the batch count when more than one batch was submitted. In
// stochastic mode exactly one batch is submitted, the cursor advances
// immediately after submission (wrapping at the batch count), and the
// single result is returned unaveraged.
//
// params is read-only for the engine and is shared across all
// concurrently running batch evaluations of this call.
func (m *MiniBatch) Evaluate(ctx context.Context, params dense.Vector) (CostGradient, error) {
	mode := m.mode()
	ctx, span := m.tracer.Start(ctx, "minibatch.evaluate",
		trace.WithAttributes(
			attribute.String("gradflow.engine_id", m.id),
			attribute.String("gradflow.mode", mode),
		))
	defer span.End()
	start := time.Now()

	results := make(chan pool.Outcome[CostGradient], len(m.batches))
	submitted := 0
	for i := m.cursor; i < len(m.batches); i++ {
		batch := m.batches[i]
		if err := m.pool.Submit(ctx, m.task(params, batch, mode), results); err != nil {
			return m.fail(span, mode, start, "submission failed", err)
		}
		submitted++
		if m.stochastic {
			// Advance at submission time, not completion time.
			m.cursor++
			if m.cursor >= len(m.batches) {
				m.cursor = 0
			}
			break
		}
	}
	span.SetAttributes(attribute.Int("gradflow.batches_submitted", submitted))

	costSum := 0.0
	gradientSum := dense.Zeros(params.Len())
	for i := 0; i < submitted; i++ {
		select {
		case out := <-results:
			if out.Err != nil {
				return m.fail(span, mode, start, "batch evaluation failed", out.Err)
			}
			if out.Value.Gradient.Len() != params.Len() {
				err := types.Errorf(types.ErrEvaluationFailure,
					"gradient length %d does not match parameter length %d",
					out.Value.Gradient.Len(), params.Len())
				return m.fail(span, mode, start, "evaluator contract violation", err)
			}
			costSum += out.Value.Cost
			gradientSum.AddInPlace(out.Value.Gradient)
		case <-ctx.Done():
			// In-flight tasks drain into the buffered channel on their own.
			err := types.WrapError(types.ErrEvaluationFailure, "evaluation cancelled", ctx.Err())
			return m.fail(span, mode, start, "evaluation cancelled", err)
		}
	}

	if submitted != 1 {
		costSum /= float64(submitted)
		gradientSum.ScaleInPlace(1.0 / float64(submitted))
	}

	elapsed := time.Since(start)
	if m.metrics != nil {
		m.metrics.RecordEvaluation(m.id, mode, statusOK, elapsed)
	}
	if m.logEvery.Allow() {
		m.logger.Debug("evaluation complete",
			zap.String("mode", mode),
			zap.Int("batches", submitted),
			zap.Float64("cost", costSum),
			zap.Duration("elapsed", elapsed),
		)
	}
	span.SetStatus(codes.Ok, "")

	return CostGradient{Cost: costSum, Gradient: gradientSum}, nil
}

func (m *MiniBatch) task(params dense.Vector, batch *dense.Matrix, mode string) pool.Task[CostGradient] {
	return func(ctx context.Context) (CostGradient, error) {
		batchStart := time.Now()
		result, err := m.evaluator.EvaluateBatch(ctx, params, batch)
		if err == nil && m.metrics != nil {
			m.metrics.RecordBatch(m.id, mode, time.Since(batchStart))
		}
		return result, err
	}
}

func (m *MiniBatch) fail(span trace.Span, mode string, start time.Time, msg string, err error) (CostGradient, error) {
	if m.metrics != nil {
		m.metrics.RecordEvaluation(m.id, mode, statusError, time.Since(start))
	}
	m.logger.Warn(msg, zap.String("mode", mode), zap.Error(err))
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	if types.GetErrorCode(err) == "" {
		err = types.WrapError(types.ErrEvaluationFailure, msg, err)
	}
	return CostGradient{}, err
}

// Close releases the worker pool. The engine must not be used afterwards.
func (m *MiniBatch) Close() {
	m.pool.Close()
	m.logger.Debug("mini-batch engine closed")
}
