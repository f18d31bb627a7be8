package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/loftbase/studio-backend/internal/core/errors"
)

func TestProjectRepository_CreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepository(testPool)
	creator := createTestUser(t)
	member := createTestUser(t)

	project := createTestProject(t, creator.ID)
	require.NoError(t, repo.AddParticipant(ctx, project.ID, member.ID))

	found, err := repo.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.Name, found.Name)
	assert.Equal(t, []uuid.UUID{member.ID}, found.Participants)

	found.Name = "Renamed project"
	updated, err := repo.Update(ctx, found)
	require.NoError(t, err)
	assert.Equal(t, "Renamed project", updated.Name)
	assert.NotNil(t, updated.UpdatedAt)
}

func TestProjectRepository_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepository(testPool)

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)
}

func TestProjectRepository_RemoveParticipant_NotAMember(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepository(testPool)
	creator := createTestUser(t)
	project := createTestProject(t, creator.ID)

	err := repo.RemoveParticipant(ctx, project.ID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrParticipantNotFound)
}

func TestProjectRepository_ListByMember(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepository(testPool)
	creator := createTestUser(t)
	member := createTestUser(t)

	project := createTestProject(t, creator.ID)
	require.NoError(t, repo.AddParticipant(ctx, project.ID, member.ID))

	forMember, err := repo.ListByMember(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, forMember, 1)
	assert.Equal(t, project.ID, forMember[0].ID)

	forStranger, err := repo.ListByMember(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, forStranger)
}
