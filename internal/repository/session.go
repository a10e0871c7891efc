package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/felixphool/healthtwin/internal/domain"
)

// SessionRepository handles patient session persistence
type SessionRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *pgxpool.Pool, logger *logrus.Logger) *SessionRepository {
	return &SessionRepository{
		db:  db,
		log: logger,
	}
}

// Create inserts a new patient session with a generated ID
func (r *SessionRepository) Create(ctx context.Context) (*domain.PatientSession, error) {
	session := &domain.PatientSession{
		ID: uuid.New().String(),
	}

	query := `
		INSERT INTO patient_sessions (id, created_at, updated_at)
		VALUES ($1, NOW(), NOW())
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query, session.ID).Scan(&session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"session_id": session.ID,
			"error":      err,
		}).Error("Failed to create patient session")
		return nil, fmt.Errorf("creating session: %w", err)
	}

	r.log.WithField("session_id", session.ID).Info("Patient session created")
	return session, nil
}

// GetByID retrieves a session by its ID, returning nil when it does not exist
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.PatientSession, error) {
	query := `
		SELECT id, created_at, updated_at
		FROM patient_sessions
		WHERE id = $1`

	var session domain.PatientSession
	err := r.db.QueryRow(ctx, query, id).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}

	return &session, nil
}

// Touch bumps a session's updated_at, keeping it from idle expiry sweeps
func (r *SessionRepository) Touch(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE patient_sessions SET updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touching session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DeleteStale removes sessions idle longer than maxAge and returns the count
func (r *SessionRepository) DeleteStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM patient_sessions WHERE updated_at < $1`, time.Now().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("deleting stale sessions: %w", err)
	}

	if n := tag.RowsAffected(); n > 0 {
		r.log.WithField("deleted", n).Info("Stale patient sessions removed")
		return n, nil
	}
	return 0, nil
}
