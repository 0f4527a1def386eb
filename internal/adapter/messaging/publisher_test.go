package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-vendas/internal/domain/event"
	"github.com/hugohenrick/erp-vendas/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_KeysBySale(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisher(w)
	id := uuid.New()

	require.NoError(t, p.Publish(context.Background(), event.Cancelled(id, "corr-1")))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, id.String(), string(msg.Key))
	assert.Equal(t, "sale.cancelled", string(msg.Headers[0].Value))

	var decoded event.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.KindSaleCancelled, decoded.Kind)
	assert.Equal(t, id, decoded.AggregateID)
	assert.Equal(t, "corr-1", decoded.CorrelationID)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WrapsWriteError(t *testing.T) {
	boom := errors.New("broker indisponível")
	p := NewKafkaPublisher(&fakeWriter{err: boom})

	err := p.Publish(context.Background(), event.Created(uuid.New(), ""))
	assert.ErrorIs(t, err, boom)
}

func TestLogPublisher(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	p := NewLogPublisher(logger.FromZap(zap.New(core)))
	id := uuid.New()

	require.NoError(t, p.Publish(context.Background(), event.Deleted(id, "corr-2")))

	entries := logs.FilterMessage("evento de venda").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "sale.deleted", entries[0].ContextMap()["kind"])
	assert.Equal(t, id.String(), entries[0].ContextMap()["sale_id"])
}
