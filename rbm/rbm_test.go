package rbm

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradflow/gradflow/dense"
	"github.com/gradflow/gradflow/minimize"
	"github.com/gradflow/gradflow/types"
)

func TestNewEvaluator_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewEvaluator(0, Options{HiddenUnits: 2})
	require.Error(t, err)
	assert.Equal(t, types.ErrInvalidConfiguration, types.GetErrorCode(err))

	_, err = NewEvaluator(3, Options{HiddenUnits: 0})
	require.Error(t, err)
	assert.Equal(t, types.ErrInvalidConfiguration, types.GetErrorCode(err))
}

func TestFoldUnfold_Roundtrip(t *testing.T) {
	t.Parallel()

	params := dense.Vector{1, 2, 3, 4, 5, 6}
	m := unfold(params, 2, 3)

	require.Equal(t, 2, m.Rows())
	require.Equal(t, 3, m.Cols())
	assert.Equal(t, 6.0, m.At(1, 2))
	assert.Equal(t, params, fold(m))
}

func TestEvaluator_ParamLen(t *testing.T) {
	t.Parallel()

	ev, err := NewEvaluator(3, Options{HiddenUnits: 2})
	require.NoError(t, err)
	// (hidden+1) x (visible+1)
	assert.Equal(t, 12, ev.ParamLen())
	assert.Equal(t, 12, ev.InitialParams().Len())
}

func TestEvaluateBatch_ContractChecks(t *testing.T) {
	t.Parallel()

	ev, err := NewEvaluator(3, Options{HiddenUnits: 2})
	require.NoError(t, err)

	batch := dense.WithBias([]dense.Vector{{1, 0, 1}})

	_, err = ev.EvaluateBatch(context.Background(), dense.Zeros(5), batch)
	require.Error(t, err, "wrong parameter length")

	wrong := dense.WithBias([]dense.Vector{{1, 0}})
	_, err = ev.EvaluateBatch(context.Background(), dense.Zeros(ev.ParamLen()), wrong)
	require.Error(t, err, "wrong batch width")
}

func TestEvaluateBatch_ShapeAndDeterminism(t *testing.T) {
	t.Parallel()

	batch := dense.WithBias([]dense.Vector{
		{1, 1, 0, 0},
		{1, 0, 1, 0},
		{0, 0, 1, 1},
	})

	run := func() minimize.CostGradient {
		ev, err := NewEvaluator(4, Options{HiddenUnits: 3, Seed: 7})
		require.NoError(t, err)
		params := ev.InitialParams()
		result, err := ev.EvaluateBatch(context.Background(), params, batch)
		require.NoError(t, err)
		return result
	}

	first := run()
	second := run()

	assert.Equal(t, (3+1)*(4+1), first.Gradient.Len())
	assert.False(t, math.IsNaN(first.Cost))
	assert.GreaterOrEqual(t, first.Cost, 0.0, "squared reconstruction error")
	assert.Equal(t, first.Cost, second.Cost, "same seed, same batch, same result")
	assert.Equal(t, first.Gradient, second.Gradient)
}

func TestEvaluateBatch_WeightDecaySkipsBias(t *testing.T) {
	t.Parallel()

	batch := dense.WithBias([]dense.Vector{{1, 0}, {0, 1}})

	resultFor := func(lambda float64) minimize.CostGradient {
		ev, err := NewEvaluator(2, Options{HiddenUnits: 2, Seed: 3, Lambda: lambda})
		require.NoError(t, err)
		params := dense.Ones(ev.ParamLen())
		result, err := ev.EvaluateBatch(context.Background(), params, batch)
		require.NoError(t, err)
		return result
	}

	plain := resultFor(0)
	decayed := resultFor(0.5)

	// The gradient layout is (hidden+1) rows x (visible+1) cols,
	// row-major; column 0 of the pre-transpose matrix becomes row 0 here,
	// i.e. the first (visible+1) entries are the undecayed bias weights.
	for i := 0; i < 3; i++ {
		assert.Equal(t, plain.Gradient[i], decayed.Gradient[i], "bias entry %d must not decay", i)
	}
	assert.NotEqual(t, plain.Gradient, decayed.Gradient, "decay must change non-bias weights")
}

func TestEvaluateBatch_MulModesAgree(t *testing.T) {
	t.Parallel()

	batch := dense.WithBias([]dense.Vector{
		{1, 0, 1},
		{0, 1, 1},
		{1, 1, 0},
		{0, 0, 1},
	})

	resultFor := func(mode dense.MulMode) minimize.CostGradient {
		ev, err := NewEvaluator(3, Options{HiddenUnits: 2, Seed: 11, MulMode: mode})
		require.NoError(t, err)
		params := ev.InitialParams()
		result, err := ev.EvaluateBatch(context.Background(), params, batch)
		require.NoError(t, err)
		return result
	}

	single := resultFor(dense.MulSingle)
	parallel := resultFor(dense.MulParallel)

	assert.Equal(t, single.Cost, parallel.Cost)
	assert.Equal(t, single.Gradient, parallel.Gradient)
}

// Gradient-descent smoke test: a few CD-1 steps on a tiny structured
// dataset should reduce the reconstruction error.
func TestTraining_ReconstructionErrorDecreases(t *testing.T) {
	t.Parallel()

	examples := []dense.Vector{
		{1, 1, 1, 0, 0, 0},
		{1, 1, 1, 0, 0, 0},
		{1, 1, 0, 0, 0, 0},
		{0, 0, 0, 1, 1, 1},
		{0, 0, 0, 1, 1, 1},
		{0, 0, 1, 1, 1, 0},
	}

	ev, err := NewEvaluator(6, Options{HiddenUnits: 2, Seed: 42})
	require.NoError(t, err)

	// Full-batch engine: single worker, deterministic given the seed.
	m, err := minimize.NewMiniBatch(examples, ev, minimize.Options{BatchSize: 0, Workers: 1})
	require.NoError(t, err)
	defer m.Close()

	params := ev.InitialParams()

	const (
		steps        = 120
		learningRate = 0.1
	)

	initial, err := m.Evaluate(context.Background(), params)
	require.NoError(t, err)

	var last minimize.CostGradient
	for i := 0; i < steps; i++ {
		result, err := m.Evaluate(context.Background(), params)
		require.NoError(t, err)
		// The gradient is pre-negated for subtracting descent.
		params.AddInPlace(result.Gradient.Scale(-learningRate))
		last = result
	}

	assert.Less(t, last.Cost, initial.Cost, "CD-1 should reduce reconstruction error")
}

func TestNewCostFunction(t *testing.T) {
	t.Parallel()

	examples := []dense.Vector{{1, 0}, {0, 1}, {1, 1}}
	m, err := NewCostFunction(examples, Options{HiddenUnits: 2, Seed: 1},
		minimize.Options{BatchSize: 2, Workers: 2})
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 2, m.Batches())

	_, err = NewCostFunction(nil, Options{HiddenUnits: 1}, minimize.Options{Workers: 1})
	require.Error(t, err)
	assert.Equal(t, types.ErrInvalidConfiguration, types.GetErrorCode(err))
}
