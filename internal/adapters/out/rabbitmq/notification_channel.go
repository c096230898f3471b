package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"orderflow/internal/core/ports"

	"github.com/streadway/amqp"
)

const (
	headerTenantID = "tenant_id"
	headerUserID   = "user_id"
)

type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// NotificationChannel implements ports.NotificationChannel.
type NotificationChannel struct {
	mu       sync.Mutex
	channel  amqpChannel
	exchange string
}

var _ ports.NotificationChannel = (*NotificationChannel)(nil)

// NewNotificationChannel declares the headers exchange and returns a channel publishing to it.
func NewNotificationChannel(channel amqpChannel, exchange string) (*NotificationChannel, error) {
	if err := channel.ExchangeDeclare(exchange, amqp.ExchangeHeaders, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &NotificationChannel{channel: channel, exchange: exchange}, nil
}

type message struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Publish sends msg to every queue registered for the filter's recipient.
func (n *NotificationChannel) Publish(_ context.Context, filter ports.RecipientFilter, msg ports.Notification) error {
	body, err := json.Marshal(message{Subject: msg.Subject, Body: msg.Body})
	if err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	err = n.channel.Publish(n.exchange, "", false, false, amqp.Publishing{
		Headers:      filterHeaders(filter),
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish notification to %s/%s: %w", filter.TenantID, filter.UserID, err)
	}
	return nil
}

// Subscribe declares the endpoint's queue and binds it with the recipient filter.
// Declaring and binding are idempotent on the broker, so repeating it is harmless.
func (n *NotificationChannel) Subscribe(_ context.Context, endpoint string, filter ports.RecipientFilter) error {
	queue := QueueName(endpoint)

	n.mu.Lock()
	defer n.mu.Unlock()

	if _, err := n.channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}

	args := filterHeaders(filter)
	args["x-match"] = "all"
	if err := n.channel.QueueBind(queue, "", n.exchange, false, args); err != nil {
		return fmt.Errorf("bind queue %s: %w", queue, err)
	}
	return nil
}

// QueueName is the queue holding an endpoint's notifications.
func QueueName(endpoint string) string {
	return "notifications." + endpoint
}

func filterHeaders(filter ports.RecipientFilter) amqp.Table {
	return amqp.Table{
		headerTenantID: filter.TenantID,
		headerUserID:   filter.UserID,
	}
}
