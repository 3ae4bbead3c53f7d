package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/firewatch-nz/fire-data-feed/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes emitted features to a Kafka topic, one message per
// feature, keyed by the feature ID so consumers can partition and dedupe
// per detection.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes every feature in the collection and writes them in a
// single WriteMessages call. An empty collection is a no-op.
func (w *Writer) Publish(ctx context.Context, fc domain.FeatureCollection) error {
	if len(fc.Features) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(fc.Features))
	for i := range fc.Features {
		msg, err := serializeToMessage(fc.Features[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a feature into a Kafka message.
func serializeToMessage(feat domain.Feature) (kafkago.Message, error) {
	data, err := json.Marshal(feat)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize feature: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(feat.Properties.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "satellite", Value: []byte(feat.Properties.Detection.Satellite)},
			{Key: "acquired_at", Value: []byte(feat.Properties.Start)},
			{Key: "published_at", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		},
	}, nil
}
