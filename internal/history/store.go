// Package history persists score runs keyed by patient session, with
// PostgreSQL and SQLite backends behind a common Store interface.
package history

import (
	"context"

	"github.com/felixphool/healthtwin/internal/domain"
)

// Store persists score runs. Saving the same (session, week) pair again
// replaces the stored result; week 0 holds the current (non-simulated)
// score.
type Store interface {
	// Save upserts a score record, filling in ID and timestamps.
	Save(ctx context.Context, record *domain.ScoreRecord) error

	// GetBySession returns a session's records ordered by week.
	GetBySession(ctx context.Context, sessionID string) ([]*domain.ScoreRecord, error)

	// List returns recent records across all sessions, newest first.
	List(ctx context.Context, limit, offset int) ([]*domain.ScoreRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)

	// Close releases the underlying database handle.
	Close() error
}
