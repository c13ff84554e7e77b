// Package journal persists an audit trail of settled mutations and
// change-feed events in Postgres.
package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"merchops/internal/mutation"
)

const (
	kindMutation = "mutation"
	kindChange   = "change"
)

// Entry is one journal row as served by the read endpoint.
type Entry struct {
	ID         int64     `json:"id"`
	Kind       string    `json:"kind"`
	Resource   string    `json:"resource"`
	Op         string    `json:"op,omitempty"`
	IDs        []string  `json:"ids,omitempty"`
	Outcome    string    `json:"outcome"`
	RolledBack bool      `json:"rolled_back"`
	DurMs      float64   `json:"dur_ms,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("journal connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("journal ping: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the journal table if it does not exist. Idempotent,
// safe to run on every start.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE SCHEMA IF NOT EXISTS merchops;
		CREATE TABLE IF NOT EXISTS merchops.journal (
		  id          bigserial PRIMARY KEY,
		  kind        text      NOT NULL,
		  resource    text      NOT NULL,
		  op          text      NOT NULL DEFAULT '',
		  ids         text[]    NOT NULL DEFAULT '{}',
		  outcome     text      NOT NULL,
		  rolled_back boolean   NOT NULL DEFAULT false,
		  dur_ms      double precision NOT NULL DEFAULT 0,
		  created_at  timestamptz NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS journal_created_at_idx
		  ON merchops.journal (created_at DESC);
	`)
	return err
}

// Append records one settled mutation.
func (s *Store) Append(ctx context.Context, e mutation.JournalEntry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO merchops.journal (kind, resource, op, ids, outcome, rolled_back, dur_ms)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, kindMutation, e.Resource, e.Op, e.IDs, e.Outcome, e.RolledBack, e.DurMs)
	return err
}

// RecordChange records one change-feed event.
func (s *Store) RecordChange(ctx context.Context, resource, id string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO merchops.journal (kind, resource, ids, outcome)
		VALUES ($1,$2,$3,$4)
	`, kindChange, resource, []string{id}, "ok")
	return err
}

// RecentEntries returns the newest rows first.
func (s *Store) RecentEntries(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, kind, resource, op, ids, outcome, rolled_back, dur_ms, created_at
		FROM merchops.journal
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Resource, &e.Op, &e.IDs,
			&e.Outcome, &e.RolledBack, &e.DurMs, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
