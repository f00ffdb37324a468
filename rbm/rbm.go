package rbm

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/gradflow/gradflow/dense"
	"github.com/gradflow/gradflow/minimize"
	"github.com/gradflow/gradflow/types"
)

// Activation maps a pre-activation value into an activation.
type Activation func(float64) float64

// Sigmoid is the logistic activation 1 / (1 + e^-x).
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// Options configures the CD-1 evaluator.
type Options struct {
	// HiddenUnits is the number of hidden feature detectors (without the
	// hidden bias unit). Must be at least 1.
	HiddenUnits int

	// Activation defaults to Sigmoid.
	Activation Activation

	// Lambda is the weight decay; 0 disables it. The bias row is never
	// decayed.
	Lambda float64

	// Seed seeds the binarization sampler, making single-batch
	// single-worker training reproducible.
	Seed int64

	// MulMode selects the matrix multiplication path for the four inner
	// multiplications of each batch evaluation.
	MulMode dense.MulMode
}

// Evaluator computes cost and gradient for one batch using CD-1.
// The seeded sampler is the only mutable state; it sits behind a mutex
// so concurrent batch evaluations stay safe, at the price of a fixed
// sampling order only when batches are evaluated one at a time.
type Evaluator struct {
	visible    int // example dimension without the bias column
	hidden     int
	activation Activation
	lambda     float64
	mulMode    dense.MulMode

	mu  sync.Mutex
	rng *rand.Rand
}

var _ minimize.Evaluator = (*Evaluator)(nil)

// NewEvaluator creates a CD-1 evaluator for examples of the given
// dimension (without bias).
func NewEvaluator(visibleUnits int, opts Options) (*Evaluator, error) {
	if visibleUnits < 1 {
		return nil, types.Errorf(types.ErrInvalidConfiguration, "visible units must be at least 1, got %d", visibleUnits)
	}
	if opts.HiddenUnits < 1 {
		return nil, types.Errorf(types.ErrInvalidConfiguration, "hidden units must be at least 1, got %d", opts.HiddenUnits)
	}
	activation := opts.Activation
	if activation == nil {
		activation = Sigmoid
	}
	return &Evaluator{
		visible:    visibleUnits,
		hidden:     opts.HiddenUnits,
		activation: activation,
		lambda:     opts.Lambda,
		mulMode:    opts.MulMode,
		rng:        rand.New(rand.NewSource(opts.Seed)),
	}, nil
}

// NewCostFunction builds a mini-batch cost function over examples with a
// CD-1 evaluator, ready for an iterative optimizer.
func NewCostFunction(examples []dense.Vector, rbmOpts Options, engineOpts minimize.Options) (*minimize.MiniBatch, error) {
	if len(examples) == 0 {
		return nil, types.NewError(types.ErrInvalidConfiguration, "dataset must not be empty")
	}
	ev, err := NewEvaluator(examples[0].Len(), rbmOpts)
	if err != nil {
		return nil, err
	}
	return minimize.NewMiniBatch(examples, ev, engineOpts)
}

// ParamLen returns the expected parameter vector length: one weight per
// (hidden unit + hidden bias) × (visible unit + visible bias) pair.
func (e *Evaluator) ParamLen() int {
	return (e.hidden + 1) * (e.visible + 1)
}

// InitialParams returns small random starting weights drawn from the
// evaluator's seeded source.
func (e *Evaluator) InitialParams() dense.Vector {
	e.mu.Lock()
	defer e.mu.Unlock()
	params := make(dense.Vector, e.ParamLen())
	for i := range params {
		params[i] = (e.rng.Float64() - 0.5) * 0.1
	}
	return params
}

// EvaluateBatch implements minimize.Evaluator. The batch matrix carries
// the bias column as column 0; params is read-only.
func (e *Evaluator) EvaluateBatch(ctx context.Context, params dense.Vector, batch *dense.Matrix) (minimize.CostGradient, error) {
	if err := ctx.Err(); err != nil {
		return minimize.CostGradient{}, err
	}
	if params.Len() != e.ParamLen() {
		return minimize.CostGradient{}, fmt.Errorf("parameter length %d, want %d for %d visible and %d hidden units",
			params.Len(), e.ParamLen(), e.visible, e.hidden)
	}
	if batch.Cols() != e.visible+1 {
		return minimize.CostGradient{}, fmt.Errorf("batch has %d columns, want %d (visible units plus bias)",
			batch.Cols(), e.visible+1)
	}

	// params holds the weights between visible and hidden units.
	theta := unfold(params, e.hidden+1, e.visible+1).Transpose()

	// Positive phase: hidden activations driven by the data, hidden bias
	// pinned back to 1.
	posHidden := dense.MatMul(batch, theta, e.mulMode).Apply(e.activation)
	posHidden.SetColumnOnes(0)
	posAssoc := dense.MatMul(batch.Transpose(), posHidden, e.mulMode)

	e.binarize(posHidden)

	// Negative phase: reconstruct the data from the sampled hidden states,
	// then drive the hidden units once more.
	negData := dense.MatMul(posHidden, theta.Transpose(), e.mulMode).Apply(e.activation)
	negData.SetColumnOnes(0)
	negHidden := dense.MatMul(negData, theta, e.mulMode).Apply(e.activation)
	negHidden.SetColumnOnes(0)
	negAssoc := dense.MatMul(negData.Transpose(), negHidden, e.mulMode)

	// Simple squared reconstruction error; bias columns cancel out.
	cost := batch.Sub(negData).SquaredSum()

	rows := float64(batch.Rows())
	gradient := posAssoc.Sub(negAssoc).Scale(1.0 / rows)

	if e.lambda != 0 {
		bias := gradient.ColumnVector(0)
		gradient = gradient.Sub(gradient.Scale(e.lambda / rows))
		gradient.SetColumn(0, bias)
	}

	// Negate so that a subtracting gradient-descent step moves along the
	// CD update direction, and transpose back into parameter layout.
	return minimize.CostGradient{
		Cost:     cost,
		Gradient: fold(gradient.Scale(-1).Transpose()),
	}, nil
}

func (e *Evaluator) binarize(m *dense.Matrix) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			if m.At(i, j) > e.rng.Float64() {
				m.Set(i, j, 1)
			} else {
				m.Set(i, j, 0)
			}
		}
	}
}

// unfold reshapes a flat parameter vector into a rows×cols matrix in
// row-major order. fold is its inverse.
func unfold(params dense.Vector, rows, cols int) *dense.Matrix {
	m := dense.NewMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, params[i*cols+j])
		}
	}
	return m
}

func fold(m *dense.Matrix) dense.Vector {
	out := make(dense.Vector, m.Rows()*m.Cols())
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			out[i*m.Cols()+j] = m.At(i, j)
		}
	}
	return out
}
