package service

import (
	"context"
	"encoding/json"
	"fmt"
	"go-ledger/model"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

const EventTransferCompleted = "transfer.completed"

// EventPublisher announces committed transfers to other systems.
type EventPublisher interface {
	Publish(ctx context.Context, event model.TransferCompleted) error
}

// Event is the envelope written to the event transport.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

func encodeEvent(event model.TransferCompleted) ([]byte, error) {
	data, err := json.Marshal(Event{
		Type:      EventTransferCompleted,
		Timestamp: time.Now().UTC(),
		Data:      event,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return data, nil
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.TransferCompleted) error { return nil }

// RedisStreamPublisher appends events to a Redis stream.
type RedisStreamPublisher struct {
	client redis.Cmdable
	stream string
}

func NewRedisStreamPublisher(client redis.Cmdable, stream string) *RedisStreamPublisher {
	return &RedisStreamPublisher{client: client, stream: stream}
}

func (p *RedisStreamPublisher) Publish(ctx context.Context, event model.TransferCompleted) error {
	data, err := encodeEvent(event)
	if err != nil {
		return err
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"type":  EventTransferCompleted,
			"event": data,
		},
	}
	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// KafkaPublisher writes events to a Kafka topic keyed by source account.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event model.TransferCompleted) error {
	data, err := encodeEvent(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", event.FromAccountID)),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
