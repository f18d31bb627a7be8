package services_test

import (
	"context"
	"errors"
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

func memberWorkTask(creatorID uuid.UUID, participants ...uuid.UUID) *domain.WorkTask {
	return &domain.WorkTask{
		ID:           uuid.New(),
		Title:        "Launch checklist",
		CreatorID:    creatorID,
		Participants: participants,
	}
}

func TestSubtaskService_Create(t *testing.T) {
	ctx := context.Background()
	creatorID := uuid.New()

	t.Run("success emits created event", func(t *testing.T) {
		mockSubtasks := mocks.NewMockSubtaskRepository()
		mockWorkTasks := mocks.NewMockWorkTaskRepository()
		mockEmitter := mocks.NewMockEventEmitter()

		svc := services.NewSubtaskService(mockSubtasks, mockWorkTasks, mockEmitter)

		task := memberWorkTask(creatorID)
		created := &domain.Subtask{
			ID:         uuid.New(),
			WorkTaskID: task.ID,
			Title:      "Write release notes",
			Status:     domain.SubtaskTodo,
			CreatorID:  creatorID,
		}

		mockWorkTasks.On("GetByID", ctx, task.ID).Return(task, nil)
		mockSubtasks.On("Create", ctx, mock.AnythingOfType("*domain.Subtask")).Return(created, nil)
		mockEmitter.On("Emit", mock.Anything, mock.MatchedBy(func(e domain.Event) bool {
			return e.Category == domain.CategorySubtask &&
				e.EventType == domain.EventCreated &&
				e.WorkTaskID == task.ID.String() &&
				e.SubtaskID == created.ID.String()
		})).Return(nil)

		subtask, err := svc.Create(ctx, ports.CreateSubtaskParams{
			WorkTaskID: task.ID,
			Title:      "Write release notes",
			ActorID:    creatorID,
		})

		require.NoError(t, err)
		assert.Equal(t, created.ID, subtask.ID)

		svc.Shutdown()
		mockEmitter.AssertExpectations(t)
	})

	t.Run("participant may create", func(t *testing.T) {
		mockSubtasks := mocks.NewMockSubtaskRepository()
		mockWorkTasks := mocks.NewMockWorkTaskRepository()
		mockEmitter := mocks.NewMockEventEmitter()

		svc := services.NewSubtaskService(mockSubtasks, mockWorkTasks, mockEmitter)

		participantID := uuid.New()
		task := memberWorkTask(creatorID, participantID)

		mockWorkTasks.On("GetByID", ctx, task.ID).Return(task, nil)
		mockSubtasks.On("Create", ctx, mock.AnythingOfType("*domain.Subtask")).
			Return(&domain.Subtask{ID: uuid.New(), WorkTaskID: task.ID, Title: "x"}, nil)
		mockEmitter.On("Emit", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.Create(ctx, ports.CreateSubtaskParams{
			WorkTaskID: task.ID,
			Title:      "x",
			ActorID:    participantID,
		})

		require.NoError(t, err)
		svc.Shutdown()
	})

	t.Run("outsider is forbidden", func(t *testing.T) {
		mockSubtasks := mocks.NewMockSubtaskRepository()
		mockWorkTasks := mocks.NewMockWorkTaskRepository()
		mockEmitter := mocks.NewMockEventEmitter()

		svc := services.NewSubtaskService(mockSubtasks, mockWorkTasks, mockEmitter)

		task := memberWorkTask(creatorID)

		mockWorkTasks.On("GetByID", ctx, task.ID).Return(task, nil)

		_, err := svc.Create(ctx, ports.CreateSubtaskParams{
			WorkTaskID: task.ID,
			Title:      "x",
			ActorID:    uuid.New(),
		})

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockSubtasks.AssertNotCalled(t, "Create")
		mockEmitter.AssertNotCalled(t, "Emit")
	})

	t.Run("emitter failure does not fail the operation", func(t *testing.T) {
		mockSubtasks := mocks.NewMockSubtaskRepository()
		mockWorkTasks := mocks.NewMockWorkTaskRepository()
		mockEmitter := mocks.NewMockEventEmitter()

		svc := services.NewSubtaskService(mockSubtasks, mockWorkTasks, mockEmitter)

		task := memberWorkTask(creatorID)

		mockWorkTasks.On("GetByID", ctx, task.ID).Return(task, nil)
		mockSubtasks.On("Create", ctx, mock.AnythingOfType("*domain.Subtask")).
			Return(&domain.Subtask{ID: uuid.New(), WorkTaskID: task.ID, Title: "x"}, nil)
		mockEmitter.On("Emit", mock.Anything, mock.Anything).
			Return(errors.New("relay unreachable"))

		_, err := svc.Create(ctx, ports.CreateSubtaskParams{
			WorkTaskID: task.ID,
			Title:      "x",
			ActorID:    creatorID,
		})

		require.NoError(t, err)
		svc.Shutdown()
		mockEmitter.AssertExpectations(t)
	})
}

func TestSubtaskService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	creatorID := uuid.New()

	t.Run("success emits status-changed", func(t *testing.T) {
		mockSubtasks := mocks.NewMockSubtaskRepository()
		mockWorkTasks := mocks.NewMockWorkTaskRepository()
		mockEmitter := mocks.NewMockEventEmitter()

		svc := services.NewSubtaskService(mockSubtasks, mockWorkTasks, mockEmitter)

		task := memberWorkTask(creatorID)
		subtask := &domain.Subtask{
			ID:         uuid.New(),
			WorkTaskID: task.ID,
			Title:      "Ship it",
			Status:     domain.SubtaskTodo,
		}

		mockSubtasks.On("GetByID", ctx, subtask.ID).Return(subtask, nil)
		mockWorkTasks.On("GetByID", ctx, task.ID).Return(task, nil)
		mockSubtasks.On("Update", ctx, mock.AnythingOfType("*domain.Subtask")).Return(subtask, nil)
		mockEmitter.On("Emit", mock.Anything, mock.MatchedBy(func(e domain.Event) bool {
			return e.EventType == domain.EventStatusChanged
		})).Return(nil)

		updated, err := svc.UpdateStatus(ctx, ports.UpdateSubtaskStatusParams{
			SubtaskID: subtask.ID,
			Status:    domain.SubtaskDone,
			ActorID:   creatorID,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.SubtaskDone, updated.Status)

		svc.Shutdown()
		mockEmitter.AssertExpectations(t)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		mockSubtasks := mocks.NewMockSubtaskRepository()
		mockWorkTasks := mocks.NewMockWorkTaskRepository()
		mockEmitter := mocks.NewMockEventEmitter()

		svc := services.NewSubtaskService(mockSubtasks, mockWorkTasks, mockEmitter)

		task := memberWorkTask(creatorID)
		subtask := &domain.Subtask{ID: uuid.New(), WorkTaskID: task.ID, Status: domain.SubtaskTodo}

		mockSubtasks.On("GetByID", ctx, subtask.ID).Return(subtask, nil)
		mockWorkTasks.On("GetByID", ctx, task.ID).Return(task, nil)

		_, err := svc.UpdateStatus(ctx, ports.UpdateSubtaskStatusParams{
			SubtaskID: subtask.ID,
			Status:    "paused",
			ActorID:   creatorID,
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
		mockSubtasks.AssertNotCalled(t, "Update")
	})
}

func TestSubtaskService_Reorder(t *testing.T) {
	ctx := context.Background()
	creatorID := uuid.New()

	t.Run("success emits order-updated", func(t *testing.T) {
		mockSubtasks := mocks.NewMockSubtaskRepository()
		mockWorkTasks := mocks.NewMockWorkTaskRepository()
		mockEmitter := mocks.NewMockEventEmitter()

		svc := services.NewSubtaskService(mockSubtasks, mockWorkTasks, mockEmitter)

		task := memberWorkTask(creatorID)
		a := &domain.Subtask{ID: uuid.New(), WorkTaskID: task.ID}
		b := &domain.Subtask{ID: uuid.New(), WorkTaskID: task.ID}
		orderedIDs := []uuid.UUID{b.ID, a.ID}

		mockWorkTasks.On("GetByID", ctx, task.ID).Return(task, nil)
		mockSubtasks.On("ListByWorkTask", ctx, task.ID).Return([]*domain.Subtask{a, b}, nil)
		mockSubtasks.On("Reorder", ctx, task.ID, orderedIDs).Return(nil)
		mockEmitter.On("Emit", mock.Anything, mock.MatchedBy(func(e domain.Event) bool {
			return e.EventType == domain.EventOrderUpdated && e.WorkTaskID == task.ID.String()
		})).Return(nil)

		err := svc.Reorder(ctx, ports.ReorderSubtasksParams{
			WorkTaskID: task.ID,
			OrderedIDs: orderedIDs,
			ActorID:    creatorID,
		})

		require.NoError(t, err)
		svc.Shutdown()
		mockEmitter.AssertExpectations(t)
	})

	t.Run("order must cover every subtask", func(t *testing.T) {
		mockSubtasks := mocks.NewMockSubtaskRepository()
		mockWorkTasks := mocks.NewMockWorkTaskRepository()
		mockEmitter := mocks.NewMockEventEmitter()

		svc := services.NewSubtaskService(mockSubtasks, mockWorkTasks, mockEmitter)

		task := memberWorkTask(creatorID)
		a := &domain.Subtask{ID: uuid.New(), WorkTaskID: task.ID}
		b := &domain.Subtask{ID: uuid.New(), WorkTaskID: task.ID}

		mockWorkTasks.On("GetByID", ctx, task.ID).Return(task, nil)
		mockSubtasks.On("ListByWorkTask", ctx, task.ID).Return([]*domain.Subtask{a, b}, nil)

		err := svc.Reorder(ctx, ports.ReorderSubtasksParams{
			WorkTaskID: task.ID,
			OrderedIDs: []uuid.UUID{a.ID},
			ActorID:    creatorID,
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidOrder)
		mockSubtasks.AssertNotCalled(t, "Reorder")
	})

	t.Run("foreign id in order is rejected", func(t *testing.T) {
		mockSubtasks := mocks.NewMockSubtaskRepository()
		mockWorkTasks := mocks.NewMockWorkTaskRepository()
		mockEmitter := mocks.NewMockEventEmitter()

		svc := services.NewSubtaskService(mockSubtasks, mockWorkTasks, mockEmitter)

		task := memberWorkTask(creatorID)
		a := &domain.Subtask{ID: uuid.New(), WorkTaskID: task.ID}

		mockWorkTasks.On("GetByID", ctx, task.ID).Return(task, nil)
		mockSubtasks.On("ListByWorkTask", ctx, task.ID).Return([]*domain.Subtask{a}, nil)

		err := svc.Reorder(ctx, ports.ReorderSubtasksParams{
			WorkTaskID: task.ID,
			OrderedIDs: []uuid.UUID{uuid.New()},
			ActorID:    creatorID,
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidOrder)
	})
}

func TestSubtaskService_Delete(t *testing.T) {
	ctx := context.Background()
	creatorID := uuid.New()

	t.Run("success emits deleted event", func(t *testing.T) {
		mockSubtasks := mocks.NewMockSubtaskRepository()
		mockWorkTasks := mocks.NewMockWorkTaskRepository()
		mockEmitter := mocks.NewMockEventEmitter()

		svc := services.NewSubtaskService(mockSubtasks, mockWorkTasks, mockEmitter)

		task := memberWorkTask(creatorID)
		subtask := &domain.Subtask{ID: uuid.New(), WorkTaskID: task.ID}

		mockSubtasks.On("GetByID", ctx, subtask.ID).Return(subtask, nil)
		mockWorkTasks.On("GetByID", ctx, task.ID).Return(task, nil)
		mockSubtasks.On("Delete", ctx, subtask.ID).Return(nil)
		mockEmitter.On("Emit", mock.Anything, mock.MatchedBy(func(e domain.Event) bool {
			return e.EventType == domain.EventDeleted && e.SubtaskID == subtask.ID.String()
		})).Return(nil)

		require.NoError(t, svc.Delete(ctx, subtask.ID, creatorID))

		svc.Shutdown()
		mockEmitter.AssertExpectations(t)
	})

	t.Run("missing subtask", func(t *testing.T) {
		mockSubtasks := mocks.NewMockSubtaskRepository()
		mockWorkTasks := mocks.NewMockWorkTaskRepository()
		mockEmitter := mocks.NewMockEventEmitter()

		svc := services.NewSubtaskService(mockSubtasks, mockWorkTasks, mockEmitter)

		id := uuid.New()
		mockSubtasks.On("GetByID", ctx, id).Return(nil, apperrors.ErrSubtaskNotFound)

		assert.ErrorIs(t, svc.Delete(ctx, id, creatorID), apperrors.ErrSubtaskNotFound)
	})
}
