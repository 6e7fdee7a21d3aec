package journal_test

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keelworks/pairpool/internal/journal"
	"github.com/keelworks/pairpool/pool"
	"github.com/keelworks/pairpool/state"
)

// TestJSONL_PublishAppends tests line-per-event appends across batches
func TestJSONL_PublishAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events", "journal.jsonl")
	j := journal.NewJSONL(path)
	ctx := context.Background()

	first := state.NewEvent(pool.EventTypeLiquidityAdded,
		state.NewAttribute(pool.AttributeKeyProvider, "alice"),
		state.NewAttribute(pool.AttributeKeyAmount0, "100"),
	)
	second := state.NewEvent(pool.EventTypeSwapExecuted,
		state.NewAttribute(pool.AttributeKeyUser, "bob"),
	)

	require.NoError(t, j.Publish(ctx, []state.Event{first}))
	require.NoError(t, j.Publish(ctx, []state.Event{second}))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var entries []journal.Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var entry journal.Entry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, entries, 2)
	require.Equal(t, pool.EventTypeLiquidityAdded, entries[0].Type)
	require.Equal(t, []state.Attribute{
		{Key: pool.AttributeKeyProvider, Value: "alice"},
		{Key: pool.AttributeKeyAmount0, Value: "100"},
	}, entries[0].Attributes)
	require.Equal(t, pool.EventTypeSwapExecuted, entries[1].Type)
	require.NotEmpty(t, entries[0].ID)
	require.NotEqual(t, entries[0].ID, entries[1].ID)
	require.False(t, entries[0].RecordedAt.IsZero())
}

// TestJSONL_EmptyBatch tests that an empty publish creates nothing
func TestJSONL_EmptyBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	j := journal.NewJSONL(path)

	require.NoError(t, j.Publish(context.Background(), nil))
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}
