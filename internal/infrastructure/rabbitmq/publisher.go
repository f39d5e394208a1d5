// Package rabbitmq publishes notification events to an AMQP topic exchange so
// downstream consumers (dashboards, archival workers) can react to the same
// alerts the chat channel receives.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Falleiro/Finova/internal/domain/notification"
)

const defaultExchange = "finova.notifications"

type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

var _ notification.Messenger = (*Publisher)(nil)

// event is the wire shape published to the exchange.
type event struct {
	Destination string    `json:"destination"`
	Text        string    `json:"text"`
	ImagePath   string    `json:"imagePath,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = defaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", exchange, err)
	}

	return &Publisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// Send publishes the message as a persistent JSON event. The destination is
// used as the routing key so consumers can bind per channel.
func (p *Publisher) Send(ctx context.Context, destination, text string) error {
	return p.publish(ctx, destination, event{
		Destination: destination,
		Text:        text,
		PublishedAt: time.Now().UTC(),
	})
}

// SendPhoto has no image transport of its own; it publishes the caption with a
// pointer to the image on shared storage.
func (p *Publisher) SendPhoto(ctx context.Context, destination, imagePath, caption string) error {
	return p.publish(ctx, destination, event{
		Destination: destination,
		Text:        caption,
		ImagePath:   imagePath,
		PublishedAt: time.Now().UTC(),
	})
}

func (p *Publisher) publish(ctx context.Context, routingKey string, ev event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.PublishedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %q: %w", p.exchange, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return fmt.Errorf("failed to close channel: %w", err)
	}
	return p.conn.Close()
}
