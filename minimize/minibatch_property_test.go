package minimize

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/gradflow/gradflow/dense"
)

// Property: in stochastic mode, batch-count many calls visit every batch
// exactly once in partition order, and the next call wraps to the first
// batch — for any dataset size, batch size and worker count.
func TestProperty_StochasticRotation(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("rotating cursor visits batches in order and wraps", prop.ForAll(
		func(n, batchSize, workers int) bool {
			if batchSize > n {
				batchSize = n
			}

			// A batch is identified by its first example value.
			ev := EvaluatorFunc(func(ctx context.Context, params dense.Vector, batch *dense.Matrix) (CostGradient, error) {
				return CostGradient{Cost: batch.At(0, 1), Gradient: dense.Zeros(params.Len())}, nil
			})

			m, err := NewMiniBatch(sequentialExamples(n), ev, Options{
				BatchSize:  batchSize,
				Workers:    workers,
				Stochastic: true,
			})
			if err != nil {
				t.Logf("construction failed: %v", err)
				return false
			}
			defer m.Close()

			for round := 0; round < 2; round++ {
				for k := 0; k < m.Batches(); k++ {
					result, err := m.Evaluate(context.Background(), dense.Vector{0})
					if err != nil {
						t.Logf("evaluate failed: %v", err)
						return false
					}
					if want := float64(k * batchSize); result.Cost != want {
						t.Logf("round %d call %d visited batch starting at %v, want %v",
							round, k, result.Cost, want)
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(1, 40),
		gen.IntRange(1, 40),
		gen.IntRange(1, 4),
	))

	properties.TestingRun(t)
}

// Property: full mode averages are invariant under the worker count.
func TestProperty_FullModeWorkerCountInvariance(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("aggregate does not depend on parallelism", prop.ForAll(
		func(n, batchSize int) bool {
			if batchSize > n {
				batchSize = n
			}

			ev := EvaluatorFunc(func(ctx context.Context, params dense.Vector, batch *dense.Matrix) (CostGradient, error) {
				sum := 0.0
				for i := 0; i < batch.Rows(); i++ {
					sum += batch.At(i, 1)
				}
				return CostGradient{Cost: sum, Gradient: dense.Vector{sum}}, nil
			})

			costs := make([]float64, 0, 2)
			for _, workers := range []int{1, 4} {
				m, err := NewMiniBatch(sequentialExamples(n), ev, Options{BatchSize: batchSize, Workers: workers})
				if err != nil {
					t.Logf("construction failed: %v", err)
					return false
				}
				result, err := m.Evaluate(context.Background(), dense.Vector{0})
				m.Close()
				if err != nil {
					t.Logf("evaluate failed: %v", err)
					return false
				}
				costs = append(costs, result.Cost)
			}

			// The reduction is a commutative sum of exact integers here, so
			// float reassociation cannot bite.
			return costs[0] == costs[1]
		},
		gen.IntRange(1, 60),
		gen.IntRange(1, 60),
	))

	properties.TestingRun(t)
}
