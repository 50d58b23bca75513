package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"arena/config"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const writeTimeout = 10 * time.Second

type Message struct {
	Topic   string
	Key     string
	Value   any
	Headers map[string]string
}

func (m *Message) ToKafkaMessage() (kafkaGo.Message, error) {
	jsonValue, err := json.Marshal(m.Value)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal message value to JSON")

		return kafkaGo.Message{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	headers := make([]kafkaGo.Header, 0, len(m.Headers))
	for key, value := range m.Headers {
		headers = append(headers, kafkaGo.Header{Key: key, Value: []byte(value)})
	}

	return kafkaGo.Message{
		Topic:   m.Topic,
		Key:     []byte(m.Key),
		Value:   jsonValue,
		Headers: headers,
	}, nil
}

type Client interface {
	SendMessages(ctx context.Context, messages ...Message) error
	Close() error
}

type kafkaClientImpl struct {
	writer *kafkaGo.Writer
}

// New builds a single long-lived writer. The topic travels on each message so one writer
// serves every event type.
func New(config *config.Config) Client {
	transport := &kafkaGo.Transport{}

	if config.Event.Kafka.SASL.Username != "" {
		transport.SASL = plain.Mechanism{
			Username: config.Event.Kafka.SASL.Username,
			Password: config.Event.Kafka.SASL.Password,
		}
	}

	writer := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(config.Event.Kafka.Brokers...),
		Balancer:               &kafkaGo.Hash{},
		Transport:              transport,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafkaGo.RequireOne,
		WriteTimeout:           writeTimeout,
	}

	log.Info().Strs("brokers", config.Event.Kafka.Brokers).Msg("Kafka client initialized")

	return &kafkaClientImpl{writer: writer}
}

func (k *kafkaClientImpl) SendMessages(ctx context.Context, messages ...Message) error {
	msgs := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.ToKafkaMessage()
		if err != nil {
			log.Error().Err(err).Str("topic", message.Topic).Msg("Failed to convert message to Kafka message.")

			return fmt.Errorf("failed to convert message to Kafka message: %w", err)
		}

		msgs = append(msgs, msg)
	}

	err := k.writer.WriteMessages(ctx, msgs...)
	if err != nil {
		log.Error().Err(err).Int("count", len(msgs)).Msg("Failed to send message to Kafka.")

		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	log.Debug().Int("count", len(msgs)).Msg("Sent message successfully.")

	return nil
}

func (k *kafkaClientImpl) Close() error {
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka writer: %w", err)
	}

	return nil
}
