package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/astro-snapshots/internal/config"
	"github.com/couchcryptid/astro-snapshots/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes newly created snapshots to a Kafka topic.
// It implements generator.Publisher.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish sends every snapshot in a single WriteMessages call. The message
// value is the same document that was written to disk.
func (w *Writer) Publish(ctx context.Context, snaps []domain.Snapshot) error {
	if len(snaps) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(snaps))
	for i := range snaps {
		msg, err := serializeToMessage(snaps[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish snapshots: %w", err)
	}
	w.logger.Debug("snapshots published", "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// MessageKey identifies a snapshot on the topic, e.g. "weekly/2024-W03".
func MessageKey(p domain.PeriodType, id string) string {
	return string(p) + "/" + id
}

// serializeToMessage encodes a Snapshot into a Kafka message.
func serializeToMessage(snap domain.Snapshot) (kafkago.Message, error) {
	data, err := snap.Encode()
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(MessageKey(snap.Type, snap.ID)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "snapshot_type", Value: []byte(snap.Type)},
			{Key: "generated_at", Value: []byte(snap.GeneratedAt)},
		},
	}, nil
}
