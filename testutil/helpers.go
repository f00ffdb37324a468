// Package testutil provides shared helpers for gradflow tests.
package testutil

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/gradflow/gradflow/dense"
)

// TestContext returns a context with a 30 second timeout, cancelled on
// test cleanup.
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// CancelledContext returns an already-cancelled context.
func CancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

// RandomExamples returns n example vectors of the given dimension with
// standard normal entries, reproducible by seed.
func RandomExamples(n, dim int, seed int64) []dense.Vector {
	rng := rand.New(rand.NewSource(seed))
	out := make([]dense.Vector, n)
	for i := range out {
		v := make(dense.Vector, dim)
		for j := range v {
			v[j] = rng.NormFloat64()
		}
		out[i] = v
	}
	return out
}

// RandomBinaryExamples returns n example vectors of the given dimension
// with independent 0/1 entries, reproducible by seed.
func RandomBinaryExamples(n, dim int, seed int64) []dense.Vector {
	rng := rand.New(rand.NewSource(seed))
	out := make([]dense.Vector, n)
	for i := range out {
		v := make(dense.Vector, dim)
		for j := range v {
			if rng.Float64() < 0.5 {
				v[j] = 1
			}
		}
		out[i] = v
	}
	return out
}
