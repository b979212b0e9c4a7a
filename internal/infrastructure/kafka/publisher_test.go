package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestPublishOrderEvent_KeysByOrder(t *testing.T) {
	w := &recordingWriter{}
	p := &KafkaPublisher{writer: w}
	at := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	err := p.PublishOrderEvent(context.Background(), domain.OrderEvent{
		Type:       domain.EventPaymentConfirmed,
		OrderID:    "o-1",
		Amount:     "150.00",
		Details:    map[string]string{"cause": "wallet"},
		OccurredAt: at,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "o-1", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "payment.confirmed", string(msg.Headers[0].Value))

	var decoded domain.OrderEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "wallet", decoded.Details["cause"])
	assert.Equal(t, "150.00", decoded.Amount)
}

func TestPublishOrderEvent_WrapsWriterError(t *testing.T) {
	p := &KafkaPublisher{writer: &recordingWriter{err: errors.New("leader not available")}}

	err := p.PublishOrderEvent(context.Background(), domain.OrderEvent{Type: domain.EventOrderCreated, OrderID: "o-2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order.created")
	assert.Contains(t, err.Error(), "o-2")
}
