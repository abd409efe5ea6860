package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"
)

type ReaderConfig struct {
	Brokers []string
	GroupID string
	MaxWait time.Duration
}

// NewReader returns a consumer group reader for topic with auto-commit
// disabled.
func NewReader(cfg ReaderConfig, topic string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          topic,
		MaxWait:        cfg.MaxWait,
		CommitInterval: 0,
		StartOffset:    kafka.FirstOffset,
	})
}

// Group runs one consumer per topic. The first consumer that fails stops the
// others.
type Group struct {
	consumers []*Consumer
}

func NewGroup(consumers ...*Consumer) *Group {
	return &Group{consumers: consumers}
}

// Run blocks until ctx is done or a consumer fails, and returns that
// consumer's error.
func (g *Group) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, c := range g.consumers {
		eg.Go(func() error {
			return c.Run(ctx)
		})
	}
	return eg.Wait()
}

func (g *Group) Close() error {
	var err error
	for _, c := range g.consumers {
		err = errors.Join(err, c.Close())
	}
	return err
}
