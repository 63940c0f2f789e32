package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/erain9/tickbook/pkg/messaging"
)

// KafkaEventSender implements EventSender using Kafka
type KafkaEventSender struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaEventSender creates a new Kafka event sender
func NewKafkaEventSender(brokerAddr, topic string) (*KafkaEventSender, error) {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokerAddr),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &KafkaEventSender{
		writer: writer,
		topic:  topic,
	}, nil
}

// SendBookTop sends a top-of-book message to Kafka, keyed by instrument
// so per-instrument ordering is preserved.
func (k *KafkaEventSender) SendBookTop(msg *messaging.BookTopMessage) error {
	return k.send(msg.InstrumentID, msg)
}

// SendCrossedBook sends a crossed-book message to Kafka.
func (k *KafkaEventSender) SendCrossedBook(msg *messaging.CrossedBookMessage) error {
	return k.send(msg.InstrumentID, msg)
}

func (k *KafkaEventSender) send(key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal book event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka writer
func (k *KafkaEventSender) Close() error {
	return k.writer.Close()
}

// Ensure KafkaEventSender implements EventSender
var _ messaging.EventSender = (*KafkaEventSender)(nil)
