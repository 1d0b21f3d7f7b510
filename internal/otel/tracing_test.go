package otel

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampler(t *testing.T) {
	cases := map[string]string{
		"always_on":                "AlwaysOnSampler",
		"always_off":               "AlwaysOffSampler",
		"traceidratio":             "TraceIDRatioBased{0.25}",
		"parentbased_traceidratio": "ParentBased{root:TraceIDRatioBased{0.25}",
		"bogus":                    "ParentBased{root:AlwaysOnSampler",
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, Sampler(name, "0.25").Description(), want)
		})
	}
}

func TestInitDisabled(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "true")

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	shutdown, err := Init(context.Background(), log)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"msg":"tracing_configured"`)
	assert.Contains(t, buf.String(), `"tracing_enabled":false`)
}

func TestInitUnsupportedProtocol(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "carrier-pigeon")

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	shutdown, err := Init(context.Background(), log)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "tracing_init_failed")
}
