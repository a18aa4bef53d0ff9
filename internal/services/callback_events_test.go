package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingSink struct {
	events []CallbackEvent
	err    error
}

func (r *recordingSink) Record(_ context.Context, ev CallbackEvent) error {
	r.events = append(r.events, ev)
	return r.err
}

func TestCallbackEventFromError(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	err := &CallbackError{Kind: CallbackKindExchangeFailed, UserID: "7", Err: errors.New("invalid_grant")}

	ev := CallbackEventFromError("corr-1", err, now)

	assert.Equal(t, "corr-1", ev.CorrelationID)
	assert.Equal(t, CallbackKindExchangeFailed, ev.Kind)
	assert.Equal(t, "7", ev.UserID)
	assert.Contains(t, ev.Error, "invalid_grant")
	assert.Equal(t, time.UTC, ev.OccurredAt.Location())

	other := CallbackEventFromError("corr-2", errors.New("boom"), now)
	assert.Equal(t, "unknown", other.Kind)
}

func TestLogCallbackSink(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := NewLogCallbackSink(zap.New(core))

	require.NoError(t, sink.Record(context.Background(), CallbackEvent{CorrelationID: "c", Kind: CallbackKindMissingState}))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.ErrorLevel, entries[0].Level)
	assert.Equal(t, CallbackKindMissingState, entries[0].ContextMap()["kind"])
	assert.Equal(t, "c", entries[0].ContextMap()["correlation_id"])
}

func TestMultiCallbackSink(t *testing.T) {
	a := &recordingSink{}
	b := &recordingSink{err: errors.New("mongo down")}

	err := MultiCallbackSink{a, b}.Record(context.Background(), CallbackEvent{Kind: "k"})

	assert.ErrorContains(t, err, "mongo down")
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}
