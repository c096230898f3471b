// Package kafka consumes the event bus and hands every record to an EventRouter.
package kafka

import (
	"context"
	"errors"
	"log/slog"

	"orderflow/internal/pkg/tracing"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// EventRouter handles one raw event from the bus.
type EventRouter interface {
	Route(ctx context.Context, payload []byte) error
}

type fetcher interface {
	PollFetches(ctx context.Context) kgo.Fetches
	Close()
}

// Consumer is a consumer-group member reading the events topic. A failed record is
// logged and skipped; redelivery is the outbox's job on the producing side.
type Consumer struct {
	client fetcher
	router EventRouter
	logger *slog.Logger
}

// NewClient opens a consumer-group client on topics.
func NewClient(brokers []string, group string, topics ...string) (*kgo.Client, error) {
	return kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topics...),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
}

func NewConsumer(client fetcher, router EventRouter, logger *slog.Logger) *Consumer {
	return &Consumer{
		client: client,
		router: router,
		logger: logger.With("component", "EventConsumer"),
	}
}

// Run polls until ctx is cancelled or the client is closed.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("event consumer started")
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			c.logger.Info("event consumer stopped")
			return nil
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			if errors.Is(err, context.Canceled) {
				return
			}
			c.logger.Error("fetch failed", "topic", topic, "partition", partition, "error", err)
		})

		iter := fetches.RecordIter()
		for !iter.Done() {
			c.handle(ctx, iter.Next())
		}
	}
}

func (c *Consumer) handle(ctx context.Context, record *kgo.Record) {
	links := tracing.ExtractKafkaLinks(ctx, record.Headers)
	ctx, span := tracing.Start(ctx, "Kafka Consume", trace.WithLinks(links...))
	defer span.End()
	span.SetAttributes(
		attribute.String("kafka.topic", record.Topic),
		attribute.Int64("kafka.offset", record.Offset),
	)

	if err := c.router.Route(ctx, record.Value); err != nil {
		span.RecordError(err)
		c.logger.Error("failed to route event",
			"topic", record.Topic,
			"partition", record.Partition,
			"offset", record.Offset,
			"error", err,
		)
	}
}

// Close leaves the group and closes the client.
func (c *Consumer) Close() {
	c.client.Close()
}
