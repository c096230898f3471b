package tracing_test

import (
	"context"
	"testing"

	"orderflow/internal/pkg/tracing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestKafkaHeaders_RoundTrip(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	headers := tracing.InjectKafkaHeaders(ctx)
	require.Len(t, headers, 1)
	assert.Equal(t, "traceparent", headers[0].Key)

	links := tracing.ExtractKafkaLinks(context.Background(), headers)
	require.Len(t, links, 1)
	assert.Equal(t, span.SpanContext().TraceID(), links[0].SpanContext.TraceID())
	assert.Equal(t, span.SpanContext().SpanID(), links[0].SpanContext.SpanID())
}

func TestKafkaHeaders_NoSpan(t *testing.T) {
	assert.Empty(t, tracing.InjectKafkaHeaders(context.Background()))
	assert.Nil(t, tracing.ExtractKafkaLinks(context.Background(), nil))
	assert.Nil(t, tracing.ExtractKafkaLinks(context.Background(), []kgo.RecordHeader{{Key: "traceparent", Value: []byte("garbage")}}))
}
