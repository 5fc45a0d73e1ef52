package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"support-chat/domain/event"
)

// Consumer runs one supervised delivery loop per topic and feeds the bridge.
// Every instance gets its own auto-deleted queue per exchange, so each
// instance sees every event; handler idempotence is what makes that safe.
type Consumer struct {
	log    *slog.Logger
	client *Client
	bridge *Bridge
}

func NewConsumer(log *slog.Logger, client *Client, bridge *Bridge) *Consumer {
	return &Consumer{log: log, client: client, bridge: bridge}
}

// Run blocks consuming all five topics until the context is cancelled. It
// satisfies contract.Worker so the supervisor restarts it after broker
// hiccups.
func (c *Consumer) Run(ctx context.Context) error {
	deliveries := make(chan delivery)

	for _, topic := range AllTopics() {
		if err := c.startTopic(ctx, topic, deliveries); err != nil {
			return fmt.Errorf("start consumer for %s: %w", topic, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d := <-deliveries:
			c.handle(ctx, d)
		}
	}
}

type delivery struct {
	topic Topic
	msg   amqp.Delivery
}

func (c *Consumer) startTopic(ctx context.Context, topic Topic, out chan<- delivery) error {
	ch, err := c.client.conn.Channel()
	if err != nil {
		return err
	}
	if err := ch.Qos(c.client.cfg.Prefetch, 0, false); err != nil {
		_ = ch.Close()
		return err
	}

	queueName := fmt.Sprintf("engine.%s.%s", topic, c.client.cfg.InstanceID)
	if _, err := ch.QueueDeclare(queueName, false, true, false, false, nil); err != nil {
		_ = ch.Close()
		return err
	}
	if err := ch.QueueBind(queueName, "#", string(topic), false, nil); err != nil {
		_ = ch.Close()
		return err
	}
	msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return err
	}

	go func() {
		defer func() { _ = ch.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- delivery{topic: topic, msg: m}:
				case <-ctx.Done():
					_ = m.Nack(false, true)
					return
				}
			}
		}
	}()

	c.log.Info("Consumer started", "topic", topic, "queue", queueName)
	return nil
}

func (c *Consumer) handle(ctx context.Context, d delivery) {
	var e event.Event
	if err := json.Unmarshal(d.msg.Body, &e); err != nil {
		// Poison payload: keep it out of the queue, there is nothing to retry.
		c.log.Error("Undecodable event dropped", "topic", d.topic, "error", err)
		_ = d.msg.Ack(false)
		return
	}

	if err := c.bridge.Dispatch(ctx, d.topic, e); err != nil {
		c.log.Error("Event handling failed", "topic", d.topic, "event_type", e.Type, "event_id", e.ID, "error", err)
		_ = d.msg.Nack(false, true)
		return
	}
	_ = d.msg.Ack(false)
}
