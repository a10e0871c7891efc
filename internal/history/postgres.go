package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/felixphool/healthtwin/internal/domain"
)

// PostgresStore implements Store on PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an existing connection. The schema is expected
// to exist already (created via migrations).
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromURL opens a pooled connection from a URL.
func NewPostgresStoreFromURL(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store, err := NewPostgresStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) Save(ctx context.Context, record *domain.ScoreRecord) error {
	payload, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	now := time.Now()
	query := `
		INSERT INTO score_history (
			session_id, week, overall_score, category, result, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id, week) DO UPDATE SET
			overall_score = EXCLUDED.overall_score,
			category = EXCLUDED.category,
			result = EXCLUDED.result,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	err = s.db.QueryRowContext(ctx, query,
		record.SessionID,
		record.Week,
		record.OverallScore,
		string(record.Category),
		payload,
		now,
		now,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save score record: %w", err)
	}

	record.UpdatedAt = now
	return nil
}

func (s *PostgresStore) GetBySession(ctx context.Context, sessionID string) ([]*domain.ScoreRecord, error) {
	query := `
		SELECT id, session_id, week, overall_score, category, result, created_at, updated_at
		FROM score_history
		WHERE session_id = $1
		ORDER BY week ASC
	`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query score history: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]*domain.ScoreRecord, error) {
	query := `
		SELECT id, session_id, week, overall_score, category, result, created_at, updated_at
		FROM score_history
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list score history: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM score_history").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count score history: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// scanner is satisfied by both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*domain.ScoreRecord, error) {
	record := &domain.ScoreRecord{}
	var category string
	var payload []byte

	err := s.Scan(
		&record.ID, &record.SessionID, &record.Week,
		&record.OverallScore, &category, &payload,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Category = domain.HealthCategory(category)
	if len(payload) > 0 {
		record.Result = &domain.HealthScoreResult{}
		if err := json.Unmarshal(payload, record.Result); err != nil {
			return nil, fmt.Errorf("failed to decode stored result: %w", err)
		}
	}
	return record, nil
}

func collectRecords(rows *sql.Rows) ([]*domain.ScoreRecord, error) {
	var records []*domain.ScoreRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
