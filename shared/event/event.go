package event

import (
	"context"
	"fmt"
	"time"

	"arena/config"
	"arena/infras/kafka"
	"arena/infras/rabbitmq"
	"arena/shared/constant"
	"arena/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Type string

const (
	BookingCreated              Type = "booking.created"
	BookingStatusChanged        Type = "booking.status_changed"
	BookingPaymentRequested     Type = "booking.payment_requested"
	BookingPaymentStatusChanged Type = "booking.payment_status_changed"
)

// Event is the envelope every broker receives. Key is the aggregate id and keeps a booking's
// events on the same Kafka partition.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

func New(eventType Type, key string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Key:        key,
		OccurredAt: timezone.Now(),
		Payload:    payload,
	}
}

// Publisher delivers events to notification and payment collaborators. Callers treat
// delivery as fire-and-forget: a publish error is logged, never propagated into a booking.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

// NewPublisher picks the backend from EVENT_BROKER. Anything other than kafka or rabbitmq
// logs the events instead of sending them.
func NewPublisher(cfg *config.Config) Publisher {
	switch cfg.Event.Broker {
	case constant.EventBrokerKafka:
		return NewKafkaPublisher(kafka.New(cfg), cfg.Event.TopicPrefix)
	case constant.EventBrokerRabbitMQ:
		client, err := rabbitmq.New(cfg)
		if err != nil {
			log.Error().Err(err).Msg("RabbitMQ unavailable, falling back to log publisher")

			return NewLogPublisher()
		}

		return NewRabbitPublisher(client)
	default:
		return NewLogPublisher()
	}
}

func Topic(prefix string, eventType Type) string {
	if prefix == "" {
		return string(eventType)
	}

	return fmt.Sprintf("%s.%s", prefix, eventType)
}

type kafkaPublisher struct {
	client kafka.Client
	prefix string
}

func NewKafkaPublisher(client kafka.Client, prefix string) Publisher {
	return &kafkaPublisher{client: client, prefix: prefix}
}

func (p *kafkaPublisher) Publish(ctx context.Context, events ...Event) error {
	messages := make([]kafka.Message, 0, len(events))

	for _, evt := range events {
		messages = append(messages, kafka.Message{
			Topic:   Topic(p.prefix, evt.Type),
			Key:     evt.Key,
			Value:   evt,
			Headers: map[string]string{"event-type": string(evt.Type), "event-id": evt.ID},
		})
	}

	if err := p.client.SendMessages(ctx, messages...); err != nil {
		return fmt.Errorf("failed to publish events: %w", err)
	}

	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.client.Close() //nolint:wrapcheck
}

type rabbitPublisher struct {
	client rabbitmq.Client
}

func NewRabbitPublisher(client rabbitmq.Client) Publisher {
	return &rabbitPublisher{client: client}
}

func (p *rabbitPublisher) Publish(ctx context.Context, events ...Event) error {
	for _, evt := range events {
		if err := p.client.PublishJSON(ctx, string(evt.Type), evt); err != nil {
			return fmt.Errorf("failed to publish %s: %w", evt.Type, err)
		}
	}

	return nil
}

func (p *rabbitPublisher) Close() error {
	return p.client.Close() //nolint:wrapcheck
}

type logPublisher struct{}

func NewLogPublisher() Publisher {
	return &logPublisher{}
}

func (p *logPublisher) Publish(_ context.Context, events ...Event) error {
	for _, evt := range events {
		log.Info().
			Str("event_id", evt.ID).
			Str("event_type", string(evt.Type)).
			Str("key", evt.Key).
			Interface("payload", evt.Payload).
			Msg("event published")
	}

	return nil
}

func (p *logPublisher) Close() error {
	return nil
}
