package bus

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"support-chat/domain/event"
)

// Publish sends one event to its family exchange as persistent JSON. The
// routing key is the entity key, so the broker keeps per-entity ordering.
func (c *Client) Publish(ctx context.Context, e event.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ch, err := c.borrow(ctx)
	if err != nil {
		return fmt.Errorf("borrow channel: %w", err)
	}
	defer c.giveBack(ch)

	topic := TopicFor(e.Type)
	err = ch.PublishWithContext(ctx, string(topic), e.Key(), false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID,
		Type:         string(e.Type),
		Timestamp:    e.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	c.log.Debug("Event published", "topic", topic, "event_type", e.Type, "key", e.Key())
	return nil
}
