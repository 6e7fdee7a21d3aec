package testutil

import (
	"context"
	"sync"

	"github.com/keelworks/pairpool/state"
)

// RecordingSink captures published events for assertions.
type RecordingSink struct {
	mu     sync.Mutex
	events []state.Event
}

// Publish appends the batch to the recording.
func (s *RecordingSink) Publish(_ context.Context, events []state.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return nil
}

// Events returns everything recorded so far.
func (s *RecordingSink) Events() []state.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]state.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Reset clears the recording.
func (s *RecordingSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
