package ports

import "context"

// BrokerMessage is one outbox row on its way to a topic.
type BrokerMessage struct {
	Topic   string
	Key     string
	Value   []byte
	Headers map[string]string
}

// MessagePublisher delivers messages to the broker. Publish returns only
// after the broker acknowledged every message.
type MessagePublisher interface {
	Publish(ctx context.Context, messages ...BrokerMessage) error
}
