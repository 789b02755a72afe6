// Package broker wraps the Kafka consumer used by the inventory listener.
package broker

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// Config holds consumer-group settings.
type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// KafkaConsumer reads messages from a single topic within a consumer group.
type KafkaConsumer struct {
	reader *kafka.Reader
}

// NewConsumer builds a consumer; offsets are committed as messages are read.
func NewConsumer(cfg *Config) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Brokers,
			Topic:    cfg.Topic,
			GroupID:  cfg.GroupID,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
	}
}

// ReadMessage blocks until a message arrives or ctx is done.
func (c *KafkaConsumer) ReadMessage(ctx context.Context) (kafka.Message, error) {
	return c.reader.ReadMessage(ctx)
}

// Close shuts the reader down.
func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
