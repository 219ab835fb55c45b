package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(context.Context, ...kafka.Message) error
	Close() error
}

// KafkaAcceptor publishes mutations to a topic, keyed by entity type so
// changes to one kind of entity stay ordered within a partition.
type KafkaAcceptor struct {
	brokers []string
	topic   string

	mu     sync.Mutex
	writer messageWriter
}

// NewKafkaAcceptor creates a KafkaAcceptor. The writer is created lazily on
// first delivery.
func NewKafkaAcceptor(brokers []string, topic string) *KafkaAcceptor {
	return &KafkaAcceptor{brokers: brokers, topic: topic}
}

func (k *KafkaAcceptor) Accept(ctx context.Context, m Mutation) error {
	value, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding mutation: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(m.EntityType),
		Value: value,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "idempotency-key", Value: []byte(m.ID)},
			{Key: "action", Value: []byte(m.Action)},
		},
	}
	if err := k.writerForTopic().WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publishing mutation %s: %w", m.ID, err)
	}
	return nil
}

// Probe dials the first reachable broker.
func (k *KafkaAcceptor) Probe(ctx context.Context) error {
	var lastErr error
	for _, broker := range k.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		return conn.Close()
	}
	if lastErr == nil {
		return fmt.Errorf("%w: no brokers configured", ErrUnreachable)
	}
	return fmt.Errorf("%w: %w", ErrUnreachable, lastErr)
}

func (k *KafkaAcceptor) writerForTopic() messageWriter {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.writer != nil {
		return k.writer
	}
	k.writer = &kafka.Writer{
		Addr:         kafka.TCP(k.brokers...),
		Topic:        k.topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return k.writer
}

// Close releases the writer.
func (k *KafkaAcceptor) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.writer == nil {
		return nil
	}
	err := k.writer.Close()
	k.writer = nil
	return err
}
