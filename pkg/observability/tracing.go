package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ajitpratap0/cinelens/pkg/errors"
)

// Span wraps a trace span and batches its attributes until End
type Span struct {
	span       trace.Span
	startTime  time.Time
	attributes []attribute.KeyValue
}

// NewSpan starts a span on tracer
func NewSpan(ctx context.Context, tracer trace.Tracer, operationName string) (context.Context, *Span) {
	ctx, span := tracer.Start(ctx, operationName)

	return ctx, &Span{
		span:      span,
		startTime: time.Now(),
	}
}

// SetAttribute adds an attribute to the span
func (s *Span) SetAttribute(key string, value interface{}) {
	var attr attribute.KeyValue

	switch v := value.(type) {
	case string:
		attr = attribute.String(key, v)
	case int:
		attr = attribute.Int(key, v)
	case int64:
		attr = attribute.Int64(key, v)
	case float64:
		attr = attribute.Float64(key, v)
	case bool:
		attr = attribute.Bool(key, v)
	default:
		attr = attribute.String(key, fmt.Sprintf("%v", v))
	}

	s.attributes = append(s.attributes, attr)
}

// AddEvent adds an event to the span
func (s *Span) AddEvent(name string, attrs ...attribute.KeyValue) {
	s.span.AddEvent(name, trace.WithAttributes(attrs...))
}

// SetStatus sets the span status
func (s *Span) SetStatus(code codes.Code, description string) {
	s.span.SetStatus(code, description)
}

// Elapsed returns the time since the span started
func (s *Span) Elapsed() time.Duration {
	return time.Since(s.startTime)
}

// End flushes the batched attributes and ends the span
func (s *Span) End() {
	if len(s.attributes) > 0 {
		s.span.SetAttributes(s.attributes...)
	}
	s.span.End()
}

// StageTracer traces pipeline stages
type StageTracer struct {
	pipeline string
	tracer   trace.Tracer
}

// NewStageTracer creates a stage tracer for the named pipeline
func NewStageTracer(p *Provider, pipeline string) *StageTracer {
	return &StageTracer{
		pipeline: pipeline,
		tracer:   p.Tracer(),
	}
}

// TraceStage runs fn inside a span named after the stage. fn returns the
// number of rows the stage produced.
func (st *StageTracer) TraceStage(ctx context.Context, stage string, rowsIn int, fn func(context.Context) (int, error)) (int, error) {
	ctx, span := NewSpan(ctx, st.tracer, fmt.Sprintf("%s.%s", st.pipeline, stage))
	defer span.End()

	span.SetAttribute("pipeline.name", st.pipeline)
	span.SetAttribute("stage.name", stage)
	span.SetAttribute("stage.rows_in", rowsIn)

	rowsOut, err := fn(ctx)
	span.SetAttribute("stage.status", getStatus(err))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttribute("error.kind", string(errors.TypeOf(err)))
		return rowsOut, err
	}

	span.SetAttribute("stage.rows_out", rowsOut)
	span.SetStatus(codes.Ok, "")
	return rowsOut, nil
}

func getStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
