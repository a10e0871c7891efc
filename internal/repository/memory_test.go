package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixphool/healthtwin/internal/domain"
)

func TestMemorySessionRepository_CreateAndGet(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	session, err := repo.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)

	got, err := repo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, session.ID, got.ID)
}

func TestMemorySessionRepository_GetUnknownReturnsNil(t *testing.T) {
	repo := NewMemorySessionRepository()

	got, err := repo.GetByID(context.Background(), "no-such-session")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemorySessionRepository_TouchBumpsUpdatedAt(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	session, err := repo.Create(ctx)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, repo.Touch(ctx, session.ID))

	got, err := repo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.After(session.UpdatedAt))
}

func TestMemorySessionRepository_TouchUnknownIsNotFound(t *testing.T) {
	repo := NewMemorySessionRepository()

	err := repo.Touch(context.Background(), "no-such-session")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
