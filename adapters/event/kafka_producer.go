package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/talent-directory/internal/config"
	"github.com/khoahotran/talent-directory/internal/domain/directory"
	"github.com/khoahotran/talent-directory/pkg/logger"
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer MessageWriter
	topic  string
	logger logger.Logger
}

// NewKafkaPublisher writes directory events to cfg.Kafka.Topic. The writer is
// asynchronous, so a slow broker never holds up a store mutation; delivery
// errors are reported through the logger.
func NewKafkaPublisher(cfg config.Config, log logger.Logger) (*KafkaPublisher, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    cfg.Kafka.Topic,
		Balancer: &kafka.LeastBytes{},
		Async:    true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Error("Failed to deliver directory events", err, zap.Int("count", len(messages)))
			}
		},
	}

	log.Info("Initialize Kafka Producer successfully.", zap.String("topic", cfg.Kafka.Topic))
	return NewPublisher(writer, cfg.Kafka.Topic, log), nil
}

func NewPublisher(w MessageWriter, topic string, log logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic, logger: log}
}

// Publish keys the message by resource id so events about one record stay
// ordered within a partition.
func (p *KafkaPublisher) Publish(ctx context.Context, evt directory.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal directory event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(evt.ResourceID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write directory event: %w", err)
	}
	p.logger.Debug("Directory event published",
		zap.String("topic", p.topic),
		zap.String("type", string(evt.Type)),
		zap.String("resource_id", evt.ResourceID),
	)
	return nil
}

func (p *KafkaPublisher) Close() {
	if err := p.writer.Close(); err != nil {
		p.logger.Warn("Failed to close Kafka producer", zap.Error(err))
		return
	}
	p.logger.Info("Closed Kafka Producer")
}
