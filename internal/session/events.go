package session

import (
	"time"

	"github.com/mj1618/chatstress/internal/model"
)

// EventKind tells progress consumers what an Event carries.
type EventKind string

const (
	EventLog     EventKind = "log"     // a log line at info level or above
	EventState   EventKind = "state"   // the orchestrator entered State
	EventMessage EventKind = "message" // one message finished; see Outcome
)

// Event is one progress notification. Events are the only values that
// cross from the worker goroutine to the caller.
type Event struct {
	Time    time.Time             `json:"time"              yaml:"time"`
	Kind    EventKind             `json:"kind"              yaml:"kind"`
	Level   string                `json:"level,omitempty"   yaml:"level,omitempty"`
	Message string                `json:"message,omitempty" yaml:"message,omitempty"`
	Fields  map[string]any        `json:"fields,omitempty"  yaml:"fields,omitempty"`
	State   model.State           `json:"state,omitempty"   yaml:"state,omitempty"`
	Outcome *model.MessageOutcome `json:"outcome,omitempty" yaml:"outcome,omitempty"`
}

// ProgressSink receives events. Implementations must not block for long;
// the engine calls Emit on its own goroutine.
type ProgressSink interface {
	Emit(Event)
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) { f(e) }

type nopSink struct{}

func (nopSink) Emit(Event) {}
