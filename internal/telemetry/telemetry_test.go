package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gradflow/gradflow/config"
)

func TestInit_DisabledReturnsNoop(t *testing.T) {
	t.Parallel()

	p, err := Init(config.TelemetryConfig{Enabled: false}, nil)
	require.NoError(t, err)
	require.NotNil(t, p)

	// Noop providers must shut down cleanly.
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestShutdown_NilReceiver(t *testing.T) {
	t.Parallel()

	var p *Providers
	require.NoError(t, p.Shutdown(context.Background()))
}
