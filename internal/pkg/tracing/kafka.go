package tracing

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const traceparentHeader = "traceparent"

// InjectKafkaHeaders returns the traceparent header for ctx, or nothing when ctx carries no span.
func InjectKafkaHeaders(ctx context.Context) []kgo.RecordHeader {
	carrier := propagation.MapCarrier{}
	propagation.TraceContext{}.Inject(ctx, carrier)

	traceparent, ok := carrier[traceparentHeader]
	if !ok {
		return nil
	}

	return []kgo.RecordHeader{
		{Key: traceparentHeader, Value: []byte(traceparent)},
	}
}

// ExtractKafkaLinks turns a producer's traceparent header into a span link for the consumer side.
func ExtractKafkaLinks(ctx context.Context, headers []kgo.RecordHeader) []trace.Link {
	carrier := propagation.MapCarrier{}
	for _, h := range headers {
		if h.Key == traceparentHeader {
			carrier[traceparentHeader] = string(h.Value)
			break
		}
	}
	if carrier[traceparentHeader] == "" {
		return nil
	}

	parent := trace.SpanContextFromContext(propagation.TraceContext{}.Extract(ctx, carrier))
	if !parent.IsValid() {
		return nil
	}

	return []trace.Link{{
		SpanContext: parent,
		Attributes: []attribute.KeyValue{
			attribute.String("link.type", "async"),
			attribute.String("link.protocol", "kafka"),
			attribute.String("link.role", "consumer"),
		},
	}}
}
