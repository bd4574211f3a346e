// Package stream publishes completed threat assessments to a Kafka topic so
// downstream consumers can react without polling the HTTP API.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/neowatch/neo-risk-service/internal/observability"
)

// Envelope is the wire format for one published assessment.
type Envelope struct {
	EventID     string          `json:"event_id"`
	NeoID       string          `json:"neo_id"`
	Label       string          `json:"label"`
	ThreatLevel string          `json:"threat_level"`
	PublishedAt time.Time       `json:"published_at"`
	Assessment  json.RawMessage `json:"assessment"`
}

// messageWriter is the subset of kafka-go's Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher produces assessment envelopes to the configured topic, keyed by
// NEO id so per-object ordering is preserved.
type Publisher struct {
	writer  messageWriter
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPublisher creates a Kafka producer for the assessment topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	metrics.StreamEnabled.Set(1)
	return &Publisher{writer: w, logger: logger, metrics: metrics}
}

// Publish serializes one assessment and writes it to the topic. The
// assessment payload is marshaled as-is into the envelope.
func (p *Publisher) Publish(ctx context.Context, neoID, label, threatLevel string, assessment any) error {
	payload, err := json.Marshal(assessment)
	if err != nil {
		return fmt.Errorf("serialize assessment: %w", err)
	}

	env := Envelope{
		EventID:     uuid.New().String(),
		NeoID:       neoID,
		Label:       label,
		ThreatLevel: threatLevel,
		PublishedAt: time.Now().UTC(),
		Assessment:  payload,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("serialize envelope: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(neoID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "threat_level", Value: []byte(threatLevel)},
			{Key: "published_at", Value: []byte(env.PublishedAt.Format(time.RFC3339))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.StreamErrors.Inc()
		p.logger.Warn("assessment publish failed", "neo_id", neoID, "error", err)
		return fmt.Errorf("publish assessment: %w", err)
	}
	p.metrics.StreamPublished.Inc()
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
