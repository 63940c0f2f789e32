package kafka

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// PayloadHandler processes one raw feed payload from the topic.
type PayloadHandler func(payload []byte) error

// FeedConsumer reads venue market-data payloads off a Kafka topic and
// hands them to a handler, typically a feed.Decoder wired to a book.
type FeedConsumer struct {
	reader *kafka.Reader
	logger zerolog.Logger
}

// NewFeedConsumer creates a consumer in the given group.
func NewFeedConsumer(brokerAddr, topic, groupID string, logger zerolog.Logger) *FeedConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{brokerAddr},
		Topic:   topic,
		GroupID: groupID,
	})
	return &FeedConsumer{
		reader: reader,
		logger: logger,
	}
}

// Consume reads messages until the context is canceled, passing each
// payload to the handler. Handler errors are logged and the message is
// skipped; the consumer keeps going.
func (c *FeedConsumer) Consume(ctx context.Context, handler PayloadHandler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if err := handler(msg.Value); err != nil {
			c.logger.Warn().Err(err).
				Str("key", string(msg.Key)).
				Int64("offset", msg.Offset).
				Msg("Failed to process feed payload")
		}
	}
}

// Close closes the underlying reader.
func (c *FeedConsumer) Close() error {
	return c.reader.Close()
}
