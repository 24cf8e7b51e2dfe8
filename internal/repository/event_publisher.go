package repository

import (
	"context"

	"FinCast/internal/domain/models"
	"FinCast/internal/domain/repository"
	pkgkafka "FinCast/pkg/kafka"
)

// KafkaEventPublisher implements EventPublisher over a Kafka producer.
// Events are keyed by ticker so consumers see per-ticker ordering.
type KafkaEventPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaEventPublisher creates a Kafka-backed event publisher.
func NewKafkaEventPublisher(producer *pkgkafka.Producer, topic string) repository.EventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) StatementSaved(ctx context.Context, ev models.StatementEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Ticker), ev)
}

func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NoopEventPublisher is used when event publishing is disabled.
type NoopEventPublisher struct{}

func (NoopEventPublisher) StatementSaved(context.Context, models.StatementEvent) error { return nil }

func (NoopEventPublisher) Close() error { return nil }
