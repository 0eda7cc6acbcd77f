// Package events carries the lifecycle of rewrites (started, completed,
// failed, discarded) over watermill, either in memory or over Redis Streams,
// so that other processes can follow what the translator is doing.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Topic is the watermill topic rewrite events are published on.
const Topic = "rewrites"

type Type string

const (
	TypeStarted   Type = "rewrite.started"
	TypeCompleted Type = "rewrite.completed"
	TypeFailed    Type = "rewrite.failed"
	// TypeDiscarded is only emitted when stale results are dropped.
	TypeDiscarded Type = "rewrite.discarded"
)

type Event struct {
	ID        uuid.UUID `json:"id"`
	Seq       uint64    `json:"seq"`
	Type      Type      `json:"type"`
	Sentence  string    `json:"sentence"`
	Prefix    string    `json:"prefix,omitempty"`
	Rewritten string    `json:"rewritten,omitempty"`
	Error     string    `json:"error,omitempty"`
	Time      time.Time `json:"time"`
}

func New(t Type, seq uint64, sentence string) Event {
	return Event{
		ID:       uuid.New(),
		Seq:      seq,
		Type:     t,
		Sentence: sentence,
		Time:     time.Now(),
	}
}

func NewEventFromJson(b []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(b, &e); err != nil {
		return Event{}, errors.Wrap(err, "could not unmarshal rewrite event")
	}
	if e.Type == "" {
		return Event{}, errors.New("rewrite event has no type")
	}
	return e, nil
}

// Sink receives rewrite events. Publishing must not block the caller for
// long, it runs on the UI loop.
type Sink interface {
	Publish(e Event) error
}

type NopSink struct{}

func (NopSink) Publish(Event) error { return nil }

// SinkFunc adapts a function to Sink.
type SinkFunc func(e Event) error

func (f SinkFunc) Publish(e Event) error { return f(e) }
