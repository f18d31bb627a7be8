package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/loftbase/studio-backend/internal/core/errors"
	"github.com/loftbase/studio-backend/internal/core/mocks"
	"github.com/loftbase/studio-backend/internal/core/ports"
	"github.com/loftbase/studio-backend/internal/core/services"
)

func TestRoomAccessService_AuthorizeWorkTask(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	workTaskID := uuid.New()

	t.Run("member is allowed", func(t *testing.T) {
		mockRepo := mocks.NewMockRoomAccessRepository()
		svc := services.NewRoomAccessService(mockRepo)

		mockRepo.On("CheckWorkTask", ctx, workTaskID, userID).
			Return(ports.AccessCheck{Found: true, Allowed: true}, nil)

		err := svc.AuthorizeWorkTask(ctx, userID, workTaskID)

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("non-member is forbidden", func(t *testing.T) {
		mockRepo := mocks.NewMockRoomAccessRepository()
		svc := services.NewRoomAccessService(mockRepo)

		mockRepo.On("CheckWorkTask", ctx, workTaskID, userID).
			Return(ports.AccessCheck{Found: true, Allowed: false}, nil)

		err := svc.AuthorizeWorkTask(ctx, userID, workTaskID)

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("missing work task", func(t *testing.T) {
		mockRepo := mocks.NewMockRoomAccessRepository()
		svc := services.NewRoomAccessService(mockRepo)

		mockRepo.On("CheckWorkTask", ctx, workTaskID, userID).
			Return(ports.AccessCheck{}, nil)

		err := svc.AuthorizeWorkTask(ctx, userID, workTaskID)

		assert.ErrorIs(t, err, apperrors.ErrWorkTaskNotFound)
	})

	t.Run("repository error is surfaced", func(t *testing.T) {
		mockRepo := mocks.NewMockRoomAccessRepository()
		svc := services.NewRoomAccessService(mockRepo)

		dbErr := errors.New("connection reset")
		mockRepo.On("CheckWorkTask", ctx, workTaskID, userID).
			Return(ports.AccessCheck{}, dbErr)

		err := svc.AuthorizeWorkTask(ctx, userID, workTaskID)

		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("every attempt hits the repository", func(t *testing.T) {
		// Access revoked between two join attempts must deny the second.
		mockRepo := mocks.NewMockRoomAccessRepository()
		svc := services.NewRoomAccessService(mockRepo)

		mockRepo.On("CheckWorkTask", ctx, workTaskID, userID).
			Return(ports.AccessCheck{Found: true, Allowed: true}, nil).Once()
		mockRepo.On("CheckWorkTask", ctx, workTaskID, userID).
			Return(ports.AccessCheck{Found: true, Allowed: false}, nil).Once()

		require.NoError(t, svc.AuthorizeWorkTask(ctx, userID, workTaskID))
		assert.ErrorIs(t, svc.AuthorizeWorkTask(ctx, userID, workTaskID), apperrors.ErrForbidden)
		mockRepo.AssertExpectations(t)
	})
}

func TestRoomAccessService_AuthorizeProject(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	projectID := uuid.New()

	t.Run("member is allowed", func(t *testing.T) {
		mockRepo := mocks.NewMockRoomAccessRepository()
		svc := services.NewRoomAccessService(mockRepo)

		mockRepo.On("CheckProject", ctx, projectID, userID).
			Return(ports.AccessCheck{Found: true, Allowed: true}, nil)

		require.NoError(t, svc.AuthorizeProject(ctx, userID, projectID))
	})

	t.Run("non-member is forbidden", func(t *testing.T) {
		mockRepo := mocks.NewMockRoomAccessRepository()
		svc := services.NewRoomAccessService(mockRepo)

		mockRepo.On("CheckProject", ctx, projectID, userID).
			Return(ports.AccessCheck{Found: true, Allowed: false}, nil)

		assert.ErrorIs(t, svc.AuthorizeProject(ctx, userID, projectID), apperrors.ErrForbidden)
	})

	t.Run("missing project", func(t *testing.T) {
		mockRepo := mocks.NewMockRoomAccessRepository()
		svc := services.NewRoomAccessService(mockRepo)

		mockRepo.On("CheckProject", ctx, projectID, userID).
			Return(ports.AccessCheck{}, nil)

		assert.ErrorIs(t, svc.AuthorizeProject(ctx, userID, projectID), apperrors.ErrProjectNotFound)
	})
}
