package testutil

import (
	"context"
	"sync"

	"github.com/mcoot/scoreboard/internal/model"
)

// RecordingSink is an EventSink that keeps every event it receives
type RecordingSink struct {
	mu     sync.Mutex
	events []model.Event
}

// Publish records the event
func (r *RecordingSink) Publish(_ context.Context, event model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of everything recorded so far
func (r *RecordingSink) Events() []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfType returns the recorded events with the given type
func (r *RecordingSink) OfType(t model.EventType) []model.Event {
	var out []model.Event
	for _, e := range r.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
