// Package events is an in-memory audit trail. Each session appends to its own
// stream; subscribers are notified asynchronously and may never block a run.
package events

import (
	"time"
)

type Event interface {
	Type() string
	StreamID() string
	Data() any
	Timestamp() time.Time
	Version() int
}

type Handler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// HandlerFunc adapts a function to a Handler that accepts every event type.
type HandlerFunc func(event Event) error

func (f HandlerFunc) Handle(event Event) error        { return f(event) }
func (f HandlerFunc) CanHandle(eventType string) bool { return true }

type Store interface {
	Append(streamID string, event Event) error
	Read(streamID string, fromVersion int) ([]Event, error)
	ReadAll(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler Handler) error
	DropStream(streamID string)
}

type Record struct {
	EventType    string    `json:"type"`
	Stream       string    `json:"stream"`
	Payload      any       `json:"data"`
	OccurredAt   time.Time `json:"timestamp"`
	EventVersion int       `json:"version"`
}

func (r Record) Type() string         { return r.EventType }
func (r Record) StreamID() string     { return r.Stream }
func (r Record) Data() any            { return r.Payload }
func (r Record) Timestamp() time.Time { return r.OccurredAt }
func (r Record) Version() int         { return r.EventVersion }

func New(eventType, streamID string, data any, at time.Time) Event {
	return Record{
		EventType:  eventType,
		Stream:     streamID,
		Payload:    data,
		OccurredAt: at,
	}
}
