package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/bird-observations-service/internal/config"
	"github.com/couchcryptid/bird-observations-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer used by Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes query audit records to a Kafka topic.
// It implements query.AuditSink.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured audit topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.AuditBrokers...),
		Topic:                  cfg.AuditTopic,
		Balancer:               &kafkago.LeastBytes{},
		RequiredAcks:           kafkago.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishAudit serializes and publishes a single audit record.
func (w *Writer) PublishAudit(ctx context.Context, audit domain.QueryAudit) error {
	msg, err := serializeToMessage(audit)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish query audit: %w", err)
	}
	w.logger.Debug("query audit published", "query_id", audit.ID, "outcome", audit.Outcome)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a QueryAudit into a Kafka message keyed by audit ID.
func serializeToMessage(audit domain.QueryAudit) (kafkago.Message, error) {
	data, err := json.Marshal(audit)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize query audit: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(audit.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "outcome", Value: []byte(audit.Outcome)},
			{Key: "asked_at", Value: []byte(audit.AskedAt.Format(time.RFC3339))},
		},
	}, nil
}
