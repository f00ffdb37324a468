package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordsEvaluations(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := NewCollector("gradflow_test", reg, nil)

	c.RecordEvaluation("engine-1", "full", "ok", 50*time.Millisecond)
	c.RecordEvaluation("engine-1", "full", "ok", 70*time.Millisecond)
	c.RecordEvaluation("engine-1", "stochastic", "error", 10*time.Millisecond)
	c.RecordBatch("engine-1", "full", 5*time.Millisecond)
	c.RecordEngine("engine-1", 3, 2)

	assert.InDelta(t, 2.0, testutil.ToFloat64(
		c.evaluationsTotal.WithLabelValues("engine-1", "full", "ok")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(
		c.evaluationsTotal.WithLabelValues("engine-1", "stochastic", "error")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(
		c.batchesTotal.WithLabelValues("engine-1", "full")), 1e-9)
	assert.InDelta(t, 3.0, testutil.ToFloat64(
		c.batchesConfigured.WithLabelValues("engine-1")), 1e-9)
	assert.InDelta(t, 2.0, testutil.ToFloat64(
		c.poolWorkers.WithLabelValues("engine-1")), 1e-9)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNewCollector_NilRegistererAndLogger(t *testing.T) {
	// Uses the default registry; must not panic on nil logger. Registered
	// once per process, so no t.Parallel and a distinct namespace.
	c := NewCollector("gradflow_test_defaults", nil, nil)
	require.NotNil(t, c)
	c.RecordEvaluation("engine-2", "full", "ok", time.Millisecond)
}
