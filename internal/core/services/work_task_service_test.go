package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/loftbase/studio-backend/internal/core/domain"
	apperrors "github.com/loftbase/studio-backend/internal/core/errors"
	"github.com/loftbase/studio-backend/internal/core/mocks"
	"github.com/loftbase/studio-backend/internal/core/ports"
	"github.com/loftbase/studio-backend/internal/core/services"
)

func TestWorkTaskService_Get(t *testing.T) {
	ctx := context.Background()
	creatorID := uuid.New()
	participantID := uuid.New()

	t.Run("creator and participant may view", func(t *testing.T) {
		mockTasks := mocks.NewMockWorkTaskRepository()
		mockUsers := mocks.NewMockUserRepository()
		svc := services.NewWorkTaskService(mockTasks, mockUsers)

		task := memberWorkTask(creatorID, participantID)
		mockTasks.On("GetByID", ctx, task.ID).Return(task, nil)

		got, err := svc.Get(ctx, task.ID, creatorID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, got.ID)

		_, err = svc.Get(ctx, task.ID, participantID)
		require.NoError(t, err)
	})

	t.Run("outsider is forbidden", func(t *testing.T) {
		mockTasks := mocks.NewMockWorkTaskRepository()
		mockUsers := mocks.NewMockUserRepository()
		svc := services.NewWorkTaskService(mockTasks, mockUsers)

		task := memberWorkTask(creatorID)
		mockTasks.On("GetByID", ctx, task.ID).Return(task, nil)

		_, err := svc.Get(ctx, task.ID, uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestWorkTaskService_Create(t *testing.T) {
	ctx := context.Background()
	creatorID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockTasks := mocks.NewMockWorkTaskRepository()
		mockUsers := mocks.NewMockUserRepository()
		svc := services.NewWorkTaskService(mockTasks, mockUsers)

		created := memberWorkTask(creatorID)
		mockTasks.On("Create", ctx, mock.AnythingOfType("*domain.WorkTask")).Return(created, nil)

		got, err := svc.Create(ctx, ports.CreateWorkTaskParams{
			Title:     "Launch checklist",
			CreatorID: creatorID,
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("empty title is rejected", func(t *testing.T) {
		mockTasks := mocks.NewMockWorkTaskRepository()
		mockUsers := mocks.NewMockUserRepository()
		svc := services.NewWorkTaskService(mockTasks, mockUsers)

		_, err := svc.Create(ctx, ports.CreateWorkTaskParams{CreatorID: creatorID})
		assert.ErrorIs(t, err, apperrors.ErrTitleRequired)
		mockTasks.AssertNotCalled(t, "Create")
	})
}

func TestWorkTaskService_AddParticipant(t *testing.T) {
	ctx := context.Background()
	creatorID := uuid.New()
	newUserID := uuid.New()

	t.Run("creator adds a participant", func(t *testing.T) {
		mockTasks := mocks.NewMockWorkTaskRepository()
		mockUsers := mocks.NewMockUserRepository()
		svc := services.NewWorkTaskService(mockTasks, mockUsers)

		task := memberWorkTask(creatorID)
		mockTasks.On("GetByID", ctx, task.ID).Return(task, nil)
		mockUsers.On("GetByID", ctx, newUserID).Return(&domain.User{ID: newUserID}, nil)
		mockTasks.On("AddParticipant", ctx, task.ID, newUserID).Return(nil)

		err := svc.AddParticipant(ctx, ports.AddParticipantParams{
			TargetID: task.ID,
			UserID:   newUserID,
			ActorID:  creatorID,
		})
		require.NoError(t, err)
		mockTasks.AssertExpectations(t)
	})

	t.Run("participant may not modify the list", func(t *testing.T) {
		mockTasks := mocks.NewMockWorkTaskRepository()
		mockUsers := mocks.NewMockUserRepository()
		svc := services.NewWorkTaskService(mockTasks, mockUsers)

		participantID := uuid.New()
		task := memberWorkTask(creatorID, participantID)
		mockTasks.On("GetByID", ctx, task.ID).Return(task, nil)

		err := svc.AddParticipant(ctx, ports.AddParticipantParams{
			TargetID: task.ID,
			UserID:   newUserID,
			ActorID:  participantID,
		})
		assert.ErrorIs(t, err, apperrors.ErrOnlyCreatorCanModify)
		mockTasks.AssertNotCalled(t, "AddParticipant")
	})

	t.Run("duplicate participant is a conflict", func(t *testing.T) {
		mockTasks := mocks.NewMockWorkTaskRepository()
		mockUsers := mocks.NewMockUserRepository()
		svc := services.NewWorkTaskService(mockTasks, mockUsers)

		existingID := uuid.New()
		task := memberWorkTask(creatorID, existingID)
		mockTasks.On("GetByID", ctx, task.ID).Return(task, nil)

		err := svc.AddParticipant(ctx, ports.AddParticipantParams{
			TargetID: task.ID,
			UserID:   existingID,
			ActorID:  creatorID,
		})
		assert.ErrorIs(t, err, apperrors.ErrParticipantExists)
	})

	t.Run("unknown user cannot be added", func(t *testing.T) {
		mockTasks := mocks.NewMockWorkTaskRepository()
		mockUsers := mocks.NewMockUserRepository()
		svc := services.NewWorkTaskService(mockTasks, mockUsers)

		task := memberWorkTask(creatorID)
		mockTasks.On("GetByID", ctx, task.ID).Return(task, nil)
		mockUsers.On("GetByID", ctx, newUserID).Return(nil, apperrors.ErrUserNotFound)

		err := svc.AddParticipant(ctx, ports.AddParticipantParams{
			TargetID: task.ID,
			UserID:   newUserID,
			ActorID:  creatorID,
		})
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		mockTasks.AssertNotCalled(t, "AddParticipant")
	})
}
