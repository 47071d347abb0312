package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	var out map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &out))
	return out
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "nivel %q", in)
	}
}

func TestNewWithWriter_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "warn")

	l.Info().Msg("descartado")
	assert.Zero(t, buf.Len())

	l.Warn().Str("movement_id", "m1").Msg("conflicto")
	line := lastLine(t, &buf)
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "m1", line["movement_id"])
	assert.Equal(t, "conflicto", line["message"])
}

func TestBuild_CampoService(t *testing.T) {
	var buf bytes.Buffer
	build(&buf, "info", "cajas-api").Named("movements").Info().Msg("ok")

	line := lastLine(t, &buf)
	assert.Equal(t, "cajas-api", line["service"])
	assert.Equal(t, "movements", line["component"])
}

func TestCtx_AgregaIdentificadoresDeTraza(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info")

	// Sin span: el mismo logger
	assert.Same(t, l, l.Ctx(context.Background()))

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	l.Ctx(ctx).Info().Msg("con traza")
	line := lastLine(t, &buf)
	assert.Equal(t, span.SpanContext().TraceID().String(), line["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), line["span_id"])
}

func TestNop_NoEscribe(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Named("x").Ctx(context.Background()).Error().Msg("nada")
	})
}
