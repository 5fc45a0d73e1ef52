// Package bus bridges the routing engine to a topic-based broker. Outbound,
// every coordinator state change is published to a family exchange keyed by
// the primary entity so per-entity ordering is preserved. Inbound, per-topic
// consumers replay events into the coordinator and the fan-out registry,
// which is what keeps several stateless engine instances consistent.
package bus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Config struct {
	URL        string
	InstanceID string
	// PoolSize bounds concurrent publishers sharing the connection.
	PoolSize int
	Prefetch int
}

// Client owns the AMQP connection, a publisher channel pool and the five
// family exchanges.
type Client struct {
	log  *slog.Logger
	conn *amqp.Connection
	pool chan *amqp.Channel
	cfg  Config
}

func Connect(cfg Config, log *slog.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("broker URL is required")
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 8
	}
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 16
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}
	c := &Client{log: log, conn: conn, cfg: cfg}

	setup, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open setup channel: %w", err)
	}
	for _, topic := range AllTopics() {
		if err := setup.ExchangeDeclare(string(topic), "topic", true, false, false, false, nil); err != nil {
			_ = setup.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("declare exchange %s: %w", topic, err)
		}
	}
	_ = setup.Close()

	c.pool = make(chan *amqp.Channel, cfg.PoolSize)
	for i := 0; i < cfg.PoolSize; i++ {
		ch, err := conn.Channel()
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("open publisher channel: %w", err)
		}
		c.pool <- ch
	}

	log.Info("Connected to event bus", "instance_id", cfg.InstanceID)
	return c, nil
}

func (c *Client) borrow(ctx context.Context) (*amqp.Channel, error) {
	select {
	case ch := <-c.pool:
		return ch, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("publisher channel pool exhausted")
	}
}

func (c *Client) giveBack(ch *amqp.Channel) {
	select {
	case c.pool <- ch:
	default:
		_ = ch.Close()
	}
}

func (c *Client) Close() {
	for {
		select {
		case ch := <-c.pool:
			_ = ch.Close()
		default:
			if c.conn != nil {
				_ = c.conn.Close()
			}
			return
		}
	}
}
