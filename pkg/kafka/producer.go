package kafka

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		Writer: kafka.NewWriter(kafka.WriterConfig{
			Brokers:      brokers,
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 50 * time.Millisecond,
		}),
	}
}

// Publish writes one message. Messages sharing a key land on the same partition,
// so events about one alert stay ordered.
func (p *Producer) Publish(ctx context.Context, key string, value []byte) error {
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now().UTC(),
	}
	if err := p.Writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrapf(err, "write message to %s", p.Writer.Topic)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
