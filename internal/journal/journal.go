// Package journal persists committed pool events outside the state store,
// as JSON lines or Postgres rows.
package journal

import (
	"context"
	"time"

	"github.com/keelworks/pairpool/pool"
	"github.com/keelworks/pairpool/state"
)

// Entry is one journaled event. Attribute order is preserved from emission.
type Entry struct {
	ID         string            `json:"id"`
	RecordedAt time.Time         `json:"recorded_at"`
	Type       string            `json:"type"`
	Attributes []state.Attribute `json:"attributes"`
}

// Journal receives committed events and persists them. Implementations must
// be safe for concurrent use.
type Journal interface {
	Publish(ctx context.Context, events []state.Event) error
	Close() error
}

// Every journal doubles as the pool's event sink.
var _ pool.EventSink = Journal(nil)

// Nop discards everything.
type Nop struct{}

func (Nop) Publish(context.Context, []state.Event) error { return nil }
func (Nop) Close() error                                 { return nil }
