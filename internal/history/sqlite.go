package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/felixphool/healthtwin/internal/domain"
)

// SQLiteStore implements Store on a local SQLite file. It creates the
// file and schema if they don't exist, which makes it the zero-setup
// backend for the CLI and for development.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS score_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		week INTEGER NOT NULL DEFAULT 0,
		overall_score INTEGER NOT NULL,
		category TEXT NOT NULL,
		result TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE(session_id, week)
	);
	CREATE INDEX IF NOT EXISTS idx_score_history_session ON score_history(session_id);
	CREATE INDEX IF NOT EXISTS idx_score_history_created ON score_history(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

func (s *SQLiteStore) Save(ctx context.Context, record *domain.ScoreRecord) error {
	payload, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	now := time.Now()
	query := `
		INSERT INTO score_history (
			session_id, week, overall_score, category, result, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_id, week) DO UPDATE SET
			overall_score = excluded.overall_score,
			category = excluded.category,
			result = excluded.result,
			updated_at = excluded.updated_at
		RETURNING id, created_at
	`

	err = s.db.QueryRowContext(ctx, query,
		record.SessionID,
		record.Week,
		record.OverallScore,
		string(record.Category),
		string(payload),
		now,
		now,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save score record: %w", err)
	}

	record.UpdatedAt = now
	return nil
}

func (s *SQLiteStore) GetBySession(ctx context.Context, sessionID string) ([]*domain.ScoreRecord, error) {
	query := `
		SELECT id, session_id, week, overall_score, category, result, created_at, updated_at
		FROM score_history
		WHERE session_id = ?
		ORDER BY week ASC
	`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query score history: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]*domain.ScoreRecord, error) {
	query := `
		SELECT id, session_id, week, overall_score, category, result, created_at, updated_at
		FROM score_history
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list score history: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM score_history").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count score history: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
