// Package kafka publishes outbox rows to Kafka topics.
package kafka

import (
	"context"
	"sort"
	"time"

	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type ProducerConfig struct {
	Brokers      []string
	BatchTimeout time.Duration
	WriteTimeout time.Duration
}

// Producer implements ports.MessagePublisher. Messages that share a key land
// on the same partition, so events of one order keep their order per topic.
type Producer struct {
	writer MessageWriter
}

func NewProducer(cfg ProducerConfig) *Producer {
	return NewProducerWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           cfg.BatchTimeout,
		WriteTimeout:           cfg.WriteTimeout,
		AllowAutoTopicCreation: false,
	})
}

func NewProducerWithWriter(writer MessageWriter) *Producer {
	return &Producer{writer: writer}
}

// Publish blocks until every message is acknowledged by all in-sync replicas.
// Broker failures are reported as errs.TransientError.
func (p *Producer) Publish(ctx context.Context, messages ...ports.BrokerMessage) error {
	if len(messages) == 0 {
		return nil
	}

	out := make([]kafka.Message, 0, len(messages))
	for _, m := range messages {
		if m.Topic == "" {
			return errs.NewValueIsRequiredError("topic")
		}
		out = append(out, kafka.Message{
			Topic:   m.Topic,
			Key:     []byte(m.Key),
			Value:   m.Value,
			Headers: toHeaders(m.Headers),
		})
	}

	if err := p.writer.WriteMessages(ctx, out...); err != nil {
		return errs.NewTransientError("publish to kafka", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

func toHeaders(headers map[string]string) []kafka.Header {
	if len(headers) == 0 {
		return nil
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]kafka.Header, 0, len(keys))
	for _, k := range keys {
		out = append(out, kafka.Header{Key: k, Value: []byte(headers[k])})
	}
	return out
}
