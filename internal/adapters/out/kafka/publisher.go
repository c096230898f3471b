// Package kafka publishes domain events to the durable event bus.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/tracing"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel/attribute"
)

// EventTypeHeader carries the event type so consumers can route before decoding.
const EventTypeHeader = "event_type"

type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Publisher implements ports.EventPublisher on a franz-go client.
type Publisher struct {
	client producer
	topic  string
}

var _ ports.EventPublisher = (*Publisher)(nil)

// NewClient opens a producing client for the events topic.
func NewClient(brokers []string, topic, clientID string) (*kgo.Client, error) {
	return kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProduceRequestTimeout(10*time.Second),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ClientID(clientID),
	)
}

// NewPublisher creates a publisher writing to topic.
func NewPublisher(client producer, topic string) *Publisher {
	return &Publisher{client: client, topic: topic}
}

// Topic is the topic events are written to.
func (p *Publisher) Topic() string {
	return p.topic
}

// Publish writes one event keyed by its order id, so every event of an order lands on one partition.
func (p *Publisher) Publish(ctx context.Context, e event.DomainEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", e.ID, err)
	}
	return p.PublishRaw(ctx, p.topic, e.Payload.OrderID, payload)
}

// PublishRaw writes an already encoded event.
func (p *Publisher) PublishRaw(ctx context.Context, topic, key string, payload []byte) error {
	ctx, span := tracing.Start(ctx, "Kafka Publish")
	defer span.End()

	record := &kgo.Record{
		Topic:   topic,
		Key:     []byte(key),
		Value:   payload,
		Headers: tracing.InjectKafkaHeaders(ctx),
	}
	if typ := peekType(payload); typ != "" {
		record.Headers = append(record.Headers, kgo.RecordHeader{Key: EventTypeHeader, Value: []byte(typ)})
	}

	span.SetAttributes(attribute.String("kafka.topic", topic), attribute.String("kafka.key", key))
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("produce to %s: %w", topic, err)
	}
	return nil
}

func peekType(payload []byte) string {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(payload, &head); err != nil {
		return ""
	}
	return head.Type
}

// EnsureTopic creates topic with the given partition count when it does not exist yet.
func EnsureTopic(ctx context.Context, client *kgo.Client, topic string, partitions int32) error {
	admin := kadm.NewClient(client)

	topics, err := admin.ListTopics(ctx)
	if err != nil {
		return fmt.Errorf("list topics: %w", err)
	}
	if topics.Has(topic) {
		return nil
	}

	resp, err := admin.CreateTopics(ctx, partitions, 1, map[string]*string{
		"min.insync.replicas": kadm.StringPtr("1"),
	}, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	if ct, ok := resp[topic]; ok && ct.Err != nil {
		return fmt.Errorf("create topic %s: %w", topic, ct.Err)
	}
	return nil
}
