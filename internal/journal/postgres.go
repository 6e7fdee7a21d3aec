package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/keelworks/pairpool/state"
)

// Postgres journals events into a pool_events table, creating it on open.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens the database, verifies connectivity and ensures the
// schema exists.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	j := &Postgres{db: db}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return j, nil
}

func (j *Postgres) initSchema() error {
	const schema = `
		CREATE TABLE IF NOT EXISTS pool_events (
			id UUID PRIMARY KEY,
			recorded_at TIMESTAMPTZ NOT NULL,
			event_type TEXT NOT NULL,
			attributes JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS pool_events_recorded_at_idx
			ON pool_events (recorded_at);
		CREATE INDEX IF NOT EXISTS pool_events_event_type_idx
			ON pool_events (event_type);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Publish inserts the batch in one transaction.
func (j *Postgres) Publish(ctx context.Context, events []state.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	const query = `
		INSERT INTO pool_events (id, recorded_at, event_type, attributes)
		VALUES ($1, $2, $3, $4)
	`
	for _, ev := range events {
		attributes, err := json.Marshal(ev.Attributes)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("marshal attributes: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query,
			uuid.New().String(), time.Now().UTC(), ev.Type, attributes); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert event: %w", err)
		}
	}

	return tx.Commit()
}

// Close releases the connection pool.
func (j *Postgres) Close() error { return j.db.Close() }
