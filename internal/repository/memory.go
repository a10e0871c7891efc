package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felixphool/healthtwin/internal/domain"
)

// MemorySessionRepository keeps patient sessions in process memory. It
// backs the sqlite deployment mode and tests, where no PostgreSQL pool
// exists.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*domain.PatientSession
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*domain.PatientSession),
	}
}

func (r *MemorySessionRepository) Create(ctx context.Context) (*domain.PatientSession, error) {
	now := time.Now()
	session := &domain.PatientSession{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()

	copy := *session
	return &copy, nil
}

func (r *MemorySessionRepository) GetByID(ctx context.Context, id string) (*domain.PatientSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	copy := *session
	return &copy, nil
}

func (r *MemorySessionRepository) Touch(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	session.UpdatedAt = time.Now()
	return nil
}
