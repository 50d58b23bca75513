package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"arena/config"
	"arena/shared/constant"
	"arena/shared/timezone"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const exchangeKind = "topic"

type Client interface {
	PublishJSON(ctx context.Context, routingKey string, value any) error
	Close() error
}

type rabbitClientImpl struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// New dials the broker and declares a durable topic exchange named after the topic prefix.
// Consumers bind their own queues with patterns such as "booking.*".
func New(config *config.Config) (Client, error) {
	conn, err := amqp.Dial(config.Event.RabbitMQ.URL)
	if err != nil {
		log.Error().Err(err).Msg("Failed to dial RabbitMQ")

		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	exchange := config.Event.TopicPrefix

	err = ch.ExchangeDeclare(exchange, exchangeKind, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()

		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	log.Info().Str("exchange", exchange).Msg("Connected to RabbitMQ")

	return &rabbitClientImpl{conn: conn, ch: ch, exchange: exchange}, nil
}

// PublishJSON publishes a persistent message. amqp channels are not safe for concurrent
// publishing, so calls are serialized.
func (r *rabbitClientImpl) PublishJSON(ctx context.Context, routingKey string, value any) error {
	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.ch.PublishWithContext(ctx, r.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  constant.ContentTypeJSON,
		DeliveryMode: amqp.Persistent,
		Timestamp:    timezone.Now(),
		Body:         body,
	})
	if err != nil {
		log.Error().Err(err).Str("routing_key", routingKey).Msg("Failed to publish message to RabbitMQ")

		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

func (r *rabbitClientImpl) Close() error {
	if r.ch != nil {
		_ = r.ch.Close()
	}

	if r.conn != nil {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("failed to close rabbitmq connection: %w", err)
		}
	}

	return nil
}
