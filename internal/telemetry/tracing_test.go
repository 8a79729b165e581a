package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracingDisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), "formrelay", "dev", "")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestExporterOptions(t *testing.T) {
	tests := []struct {
		endpoint string
		options  int
	}{
		{"collector:4317", 2},
		{"http://collector:4317", 2},
		{"http://collector:4317/", 2},
		{"https://collector.example.com:4317", 1},
	}

	for _, tt := range tests {
		assert.Len(t, exporterOptions(tt.endpoint), tt.options, tt.endpoint)
	}
}

func TestInitTracingWithEndpoint(t *testing.T) {
	// The gRPC exporter connects lazily, so no collector needs to listen
	shutdown, err := InitTracing(context.Background(), "formrelay", "dev", "127.0.0.1:4317")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
