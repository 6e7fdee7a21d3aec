package journal

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/keelworks/pairpool/state"
)

// JSONL appends events to a JSON-lines file, one entry per line.
type JSONL struct {
	path string
	mu   sync.Mutex
}

// NewJSONL creates a JSON-lines journal at path. The file and its directory
// are created on first publish.
func NewJSONL(path string) *JSONL {
	return &JSONL{path: path}
}

// Publish appends the batch as JSON lines and flushes before returning.
func (j *JSONL) Publish(_ context.Context, events []state.Event) error {
	if len(events) == 0 {
		return nil
	}

	dir := filepath.Dir(j.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create journal dir: %w", err)
		}
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, ev := range events {
		entry := Entry{
			ID:         uuid.New().String(),
			RecordedAt: time.Now().UTC(),
			Type:       ev.Type,
			Attributes: ev.Attributes,
		}
		line, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal entry: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write entry: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush journal: %w", err)
	}
	return nil
}

// Close is a no-op; the file is opened per batch.
func (j *JSONL) Close() error { return nil }
