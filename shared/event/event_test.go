package event_test

import (
	"context"
	"errors"
	"testing"

	"arena/infras/kafka"
	"arena/shared/event"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kafkaClient struct {
	sent []kafka.Message
	err  error
}

func (k *kafkaClient) SendMessages(_ context.Context, messages ...kafka.Message) error {
	k.sent = append(k.sent, messages...)

	return k.err
}

func (k *kafkaClient) Close() error { return nil }

type rabbitClient struct {
	keys []string
	err  error
}

func (r *rabbitClient) PublishJSON(_ context.Context, routingKey string, _ any) error {
	r.keys = append(r.keys, routingKey)

	return r.err
}

func (r *rabbitClient) Close() error { return nil }

func TestTopic(t *testing.T) {
	assert.Equal(t, "arena.booking.created", event.Topic("arena", event.BookingCreated))
	assert.Equal(t, "booking.created", event.Topic("", event.BookingCreated))
}

func TestKafkaPublisher(t *testing.T) {
	client := &kafkaClient{}
	publisher := event.NewKafkaPublisher(client, "arena")

	evt := event.New(event.BookingPaymentRequested, "b-1", map[string]any{"amount": 100000})
	require.NoError(t, publisher.Publish(context.Background(), evt))

	require.Len(t, client.sent, 1)
	assert.Equal(t, "arena.booking.payment_requested", client.sent[0].Topic)
	assert.Equal(t, "b-1", client.sent[0].Key)
	assert.Equal(t, "booking.payment_requested", client.sent[0].Headers["event-type"])

	client.err = errors.New("broker down")
	assert.Error(t, publisher.Publish(context.Background(), evt))
}

func TestRabbitPublisher(t *testing.T) {
	client := &rabbitClient{}
	publisher := event.NewRabbitPublisher(client)

	err := publisher.Publish(context.Background(),
		event.New(event.BookingCreated, "b-1", nil),
		event.New(event.BookingStatusChanged, "b-1", nil),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"booking.created", "booking.status_changed"}, client.keys)

	client.err = errors.New("channel closed")
	assert.Error(t, publisher.Publish(context.Background(), event.New(event.BookingCreated, "b-2", nil)))
}

func TestLogPublisher(t *testing.T) {
	publisher := event.NewLogPublisher()

	assert.NoError(t, publisher.Publish(context.Background(), event.New(event.BookingCreated, "b-1", nil)))
	assert.NoError(t, publisher.Close())
}
