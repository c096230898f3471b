// Package rabbitmq is the outbound notification channel. Recipients are queues
// bound to a headers exchange with an all-match filter on tenant_id and user_id,
// so a message published for one user reaches only that user's queues.
package rabbitmq

import (
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"
)

// Client owns one AMQP connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Dial connects and opens a channel.
func Dial(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	slog.Info("RabbitMQ connected")
	return &Client{conn: conn, channel: channel}, nil
}

// Channel returns the underlying AMQP channel.
func (c *Client) Channel() *amqp.Channel {
	return c.channel
}

// Close closes the channel and connection for graceful shutdown.
func (c *Client) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			return err
		}
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
