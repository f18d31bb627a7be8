package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loftbase/studio-backend/internal/core/domain"
	apperrors "github.com/loftbase/studio-backend/internal/core/errors"
)

// createTestWorkTask inserts a work task owned by the given user.
func createTestWorkTask(t *testing.T, creatorID uuid.UUID) *domain.WorkTask {
	t.Helper()

	repo := NewWorkTaskRepository(testPool)
	task, err := repo.Create(context.Background(), &domain.WorkTask{
		Title:       "Test work task",
		Description: "Fixture",
		CreatorID:   creatorID,
	})
	require.NoError(t, err, "Failed to create test work task")
	return task
}

func TestWorkTaskRepository_CreateGet(t *testing.T) {
	ctx := context.Background()
	repo := NewWorkTaskRepository(testPool)
	creator := createTestUser(t)

	created, err := repo.Create(ctx, &domain.WorkTask{
		Title:       "Ship onboarding flow",
		Description: "Everything needed before launch",
		CreatorID:   creator.ID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Nil(t, created.ProjectID)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ship onboarding flow", found.Title)
	assert.Equal(t, creator.ID, found.CreatorID)
	assert.Empty(t, found.Participants)
}

func TestWorkTaskRepository_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewWorkTaskRepository(testPool)

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrWorkTaskNotFound)
}

func TestWorkTaskRepository_Participants(t *testing.T) {
	ctx := context.Background()
	repo := NewWorkTaskRepository(testPool)
	creator := createTestUser(t)
	participant := createTestUser(t)
	task := createTestWorkTask(t, creator.ID)

	require.NoError(t, repo.AddParticipant(ctx, task.ID, participant.ID))

	found, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{participant.ID}, found.Participants)

	// Adding the same participant twice is a conflict.
	err = repo.AddParticipant(ctx, task.ID, participant.ID)
	assert.ErrorIs(t, err, apperrors.ErrParticipantExists)
}

func TestWorkTaskRepository_ListByMember(t *testing.T) {
	ctx := context.Background()
	repo := NewWorkTaskRepository(testPool)
	creator := createTestUser(t)
	participant := createTestUser(t)
	outsider := createTestUser(t)
	task := createTestWorkTask(t, creator.ID)

	require.NoError(t, repo.AddParticipant(ctx, task.ID, participant.ID))

	forCreator, err := repo.ListByMember(ctx, creator.ID)
	require.NoError(t, err)
	require.Len(t, forCreator, 1)
	assert.Equal(t, task.ID, forCreator[0].ID)

	forParticipant, err := repo.ListByMember(ctx, participant.ID)
	require.NoError(t, err)
	require.Len(t, forParticipant, 1)
	assert.Equal(t, task.ID, forParticipant[0].ID)

	forOutsider, err := repo.ListByMember(ctx, outsider.ID)
	require.NoError(t, err)
	assert.Empty(t, forOutsider)
}
