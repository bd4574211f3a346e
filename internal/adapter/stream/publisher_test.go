package stream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neowatch/neo-risk-service/internal/observability"
)

type capturingWriter struct {
	messages []kafkago.Message
	err      error
}

func (w *capturingWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *capturingWriter) Close() error { return nil }

func testPublisher(w messageWriter) *Publisher {
	return &Publisher{
		writer:  w,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: observability.NewMetricsForTesting(),
	}
}

func TestPublish_EnvelopeAndHeaders(t *testing.T) {
	w := &capturingWriter{}
	p := testPublisher(w)

	payload := map[string]any{"threat_level": "high", "score": 3.5}
	err := p.Publish(context.Background(), "2000433", "433 Eros (A898 PA)", "high", payload)
	require.NoError(t, err)

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, []byte("2000433"), msg.Key)

	var env Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, "2000433", env.NeoID)
	assert.Equal(t, "433 Eros (A898 PA)", env.Label)
	assert.Equal(t, "high", env.ThreatLevel)
	assert.False(t, env.PublishedAt.IsZero())
	_, err = uuid.Parse(env.EventID)
	assert.NoError(t, err, "event id must be a valid uuid")

	var inner map[string]any
	require.NoError(t, json.Unmarshal(env.Assessment, &inner))
	assert.Equal(t, "high", inner["threat_level"])

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "threat_level", msg.Headers[0].Key)
	assert.Equal(t, []byte("high"), msg.Headers[0].Value)
	assert.Equal(t, "published_at", msg.Headers[1].Key)
}

func TestPublish_WriteFailure(t *testing.T) {
	w := &capturingWriter{err: errors.New("broker unavailable")}
	p := testPublisher(w)

	err := p.Publish(context.Background(), "2000433", "433 Eros", "low", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish assessment")
}

func TestPublish_UnserializablePayload(t *testing.T) {
	w := &capturingWriter{}
	p := testPublisher(w)

	err := p.Publish(context.Background(), "2000433", "433 Eros", "low", func() {})
	require.Error(t, err)
	assert.Empty(t, w.messages)
}
