package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/cinelens/pkg/errors"
)

func TestDisabledTracingIsNoop(t *testing.T) {
	p, err := Initialize(DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, p.Tracer())

	st := NewStageTracer(p, "cinelens")
	rows, err := st.TraceStage(context.Background(), "load", 0, func(context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, rows)
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestTraceStageExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.ServiceName = "cinelens-test"
	cfg.Writer = &buf

	p, err := Initialize(cfg)
	require.NoError(t, err)

	st := NewStageTracer(p, "cinelens")
	_, err = st.TraceStage(context.Background(), "dedupe", 10, func(context.Context) (int, error) {
		return 9, nil
	})
	require.NoError(t, err)

	_, err = st.TraceStage(context.Background(), "load", 0, func(context.Context) (int, error) {
		return 0, errors.New(errors.ErrorTypeIO, "missing file")
	})
	require.Error(t, err)

	require.NoError(t, p.Shutdown(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "cinelens.dedupe")
	assert.Contains(t, out, "stage.rows_out")
	assert.Contains(t, out, "cinelens.load")
	assert.Contains(t, out, "missing file")
}

func TestSpanAttributes(t *testing.T) {
	p, err := Initialize(DefaultConfig())
	require.NoError(t, err)

	_, span := NewSpan(context.Background(), p.Tracer(), "report")
	span.SetAttribute("rows", 3)
	span.SetAttribute("format", "json")
	span.SetAttribute("ratio", 0.5)
	span.SetAttribute("cached", false)
	span.SetAttribute("other", []int{1})
	assert.Len(t, span.attributes, 5)
	assert.GreaterOrEqual(t, span.Elapsed().Nanoseconds(), int64(0))
	span.End()
}
