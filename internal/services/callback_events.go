package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// CallbackEventsCollection holds one document per failed OAuth callback.
const CallbackEventsCollection = "oauth_callback_events"

// CallbackEvent is the operator-facing record of a callback that failed
// silently for the user.
type CallbackEvent struct {
	CorrelationID string    `bson:"correlation_id" json:"correlation_id"`
	Kind          string    `bson:"kind" json:"kind"`
	UserID        string    `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Error         string    `bson:"error,omitempty" json:"error,omitempty"`
	OccurredAt    time.Time `bson:"occurred_at" json:"occurred_at"`
}

// CallbackEventFromError builds an event from a HandleCallback failure.
func CallbackEventFromError(correlationID string, err error, now time.Time) CallbackEvent {
	ev := CallbackEvent{CorrelationID: correlationID, Kind: "unknown", OccurredAt: now.UTC()}
	var cbErr *CallbackError
	if errors.As(err, &cbErr) {
		ev.Kind = cbErr.Kind
		ev.UserID = cbErr.UserID
	}
	if err != nil {
		ev.Error = err.Error()
	}
	return ev
}

type CallbackSink interface {
	Record(ctx context.Context, ev CallbackEvent) error
}

// LogCallbackSink writes events to the structured log.
type LogCallbackSink struct {
	log *zap.Logger
}

func NewLogCallbackSink(log *zap.Logger) *LogCallbackSink {
	return &LogCallbackSink{log: log}
}

func (s *LogCallbackSink) Record(_ context.Context, ev CallbackEvent) error {
	s.log.Error("google oauth callback failed",
		zap.String("correlation_id", ev.CorrelationID),
		zap.String("kind", ev.Kind),
		zap.String("user_id", ev.UserID),
		zap.String("error", ev.Error),
		zap.Time("occurred_at", ev.OccurredAt))
	return nil
}

// MongoCallbackSink stores events so they can be queried after the fact.
type MongoCallbackSink struct {
	coll *mongo.Collection
}

func NewMongoCallbackSink(db *mongo.Database) *MongoCallbackSink {
	return &MongoCallbackSink{coll: db.Collection(CallbackEventsCollection)}
}

func (s *MongoCallbackSink) Record(ctx context.Context, ev CallbackEvent) error {
	_, err := s.coll.InsertOne(ctx, ev)
	return err
}

// MultiCallbackSink records to every sink and joins their errors.
type MultiCallbackSink []CallbackSink

func (m MultiCallbackSink) Record(ctx context.Context, ev CallbackEvent) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
