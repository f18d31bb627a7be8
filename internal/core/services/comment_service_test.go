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

func TestCommentService_Create(t *testing.T) {
	ctx := context.Background()
	creatorID := uuid.New()

	t.Run("success emits created event", func(t *testing.T) {
		mockComments := mocks.NewMockCommentRepository()
		mockSubtasks := mocks.NewMockSubtaskRepository()
		mockWorkTasks := mocks.NewMockWorkTaskRepository()
		mockEmitter := mocks.NewMockEventEmitter()

		svc := services.NewCommentService(mockComments, mockSubtasks, mockWorkTasks, mockEmitter)

		task := memberWorkTask(creatorID)
		subtask := &domain.Subtask{ID: uuid.New(), WorkTaskID: task.ID}
		created := &domain.Comment{
			ID:         uuid.New(),
			SubtaskID:  subtask.ID,
			WorkTaskID: task.ID,
			AuthorID:   creatorID,
			Body:       "Looks good",
		}

		mockSubtasks.On("GetByID", ctx, subtask.ID).Return(subtask, nil)
		mockWorkTasks.On("GetByID", ctx, task.ID).Return(task, nil)
		mockComments.On("Create", ctx, mock.AnythingOfType("*domain.Comment")).Return(created, nil)
		mockEmitter.On("Emit", mock.Anything, mock.MatchedBy(func(e domain.Event) bool {
			return e.Category == domain.CategorySubtaskComment &&
				e.EventType == domain.EventCreated &&
				e.WorkTaskID == task.ID.String() &&
				e.SubtaskID == subtask.ID.String()
		})).Return(nil)

		comment, err := svc.Create(ctx, ports.CreateCommentParams{
			SubtaskID: subtask.ID,
			Body:      "Looks good",
			ActorID:   creatorID,
		})

		require.NoError(t, err)
		assert.Equal(t, created.ID, comment.ID)

		svc.Shutdown()
		mockEmitter.AssertExpectations(t)
	})

	t.Run("outsider is forbidden", func(t *testing.T) {
		mockComments := mocks.NewMockCommentRepository()
		mockSubtasks := mocks.NewMockSubtaskRepository()
		mockWorkTasks := mocks.NewMockWorkTaskRepository()
		mockEmitter := mocks.NewMockEventEmitter()

		svc := services.NewCommentService(mockComments, mockSubtasks, mockWorkTasks, mockEmitter)

		task := memberWorkTask(creatorID)
		subtask := &domain.Subtask{ID: uuid.New(), WorkTaskID: task.ID}

		mockSubtasks.On("GetByID", ctx, subtask.ID).Return(subtask, nil)
		mockWorkTasks.On("GetByID", ctx, task.ID).Return(task, nil)

		_, err := svc.Create(ctx, ports.CreateCommentParams{
			SubtaskID: subtask.ID,
			Body:      "Intruding",
			ActorID:   uuid.New(),
		})

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockComments.AssertNotCalled(t, "Create")
	})
}

func TestCommentService_Update(t *testing.T) {
	ctx := context.Background()
	authorID := uuid.New()

	t.Run("author edits and event is emitted", func(t *testing.T) {
		mockComments := mocks.NewMockCommentRepository()
		mockSubtasks := mocks.NewMockSubtaskRepository()
		mockWorkTasks := mocks.NewMockWorkTaskRepository()
		mockEmitter := mocks.NewMockEventEmitter()

		svc := services.NewCommentService(mockComments, mockSubtasks, mockWorkTasks, mockEmitter)

		comment := &domain.Comment{
			ID:         uuid.New(),
			SubtaskID:  uuid.New(),
			WorkTaskID: uuid.New(),
			AuthorID:   authorID,
			Body:       "draft",
		}

		mockComments.On("GetByID", ctx, comment.ID).Return(comment, nil)
		mockComments.On("Update", ctx, mock.AnythingOfType("*domain.Comment")).Return(comment, nil)
		mockEmitter.On("Emit", mock.Anything, mock.MatchedBy(func(e domain.Event) bool {
			return e.EventType == domain.EventUpdated
		})).Return(nil)

		updated, err := svc.Update(ctx, ports.UpdateCommentParams{
			CommentID: comment.ID,
			Body:      "final",
			ActorID:   authorID,
		})

		require.NoError(t, err)
		assert.Equal(t, "final", updated.Body)

		svc.Shutdown()
		mockEmitter.AssertExpectations(t)
	})

	t.Run("only the author may edit", func(t *testing.T) {
		mockComments := mocks.NewMockCommentRepository()
		mockSubtasks := mocks.NewMockSubtaskRepository()
		mockWorkTasks := mocks.NewMockWorkTaskRepository()
		mockEmitter := mocks.NewMockEventEmitter()

		svc := services.NewCommentService(mockComments, mockSubtasks, mockWorkTasks, mockEmitter)

		comment := &domain.Comment{ID: uuid.New(), AuthorID: authorID, Body: "draft"}

		mockComments.On("GetByID", ctx, comment.ID).Return(comment, nil)

		_, err := svc.Update(ctx, ports.UpdateCommentParams{
			CommentID: comment.ID,
			Body:      "hijacked",
			ActorID:   uuid.New(),
		})

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockComments.AssertNotCalled(t, "Update")
	})
}

func TestCommentService_Delete(t *testing.T) {
	ctx := context.Background()
	authorID := uuid.New()
	taskCreatorID := uuid.New()

	newComment := func() *domain.Comment {
		return &domain.Comment{
			ID:         uuid.New(),
			SubtaskID:  uuid.New(),
			WorkTaskID: uuid.New(),
			AuthorID:   authorID,
			Body:       "note",
		}
	}

	t.Run("author deletes own comment", func(t *testing.T) {
		mockComments := mocks.NewMockCommentRepository()
		mockSubtasks := mocks.NewMockSubtaskRepository()
		mockWorkTasks := mocks.NewMockWorkTaskRepository()
		mockEmitter := mocks.NewMockEventEmitter()

		svc := services.NewCommentService(mockComments, mockSubtasks, mockWorkTasks, mockEmitter)
		comment := newComment()

		mockComments.On("GetByID", ctx, comment.ID).Return(comment, nil)
		mockComments.On("Delete", ctx, comment.ID).Return(nil)
		mockEmitter.On("Emit", mock.Anything, mock.MatchedBy(func(e domain.Event) bool {
			return e.EventType == domain.EventDeleted
		})).Return(nil)

		require.NoError(t, svc.Delete(ctx, comment.ID, authorID))
		svc.Shutdown()
		mockEmitter.AssertExpectations(t)
	})

	t.Run("work task creator deletes another author's comment", func(t *testing.T) {
		mockComments := mocks.NewMockCommentRepository()
		mockSubtasks := mocks.NewMockSubtaskRepository()
		mockWorkTasks := mocks.NewMockWorkTaskRepository()
		mockEmitter := mocks.NewMockEventEmitter()

		svc := services.NewCommentService(mockComments, mockSubtasks, mockWorkTasks, mockEmitter)
		comment := newComment()

		mockComments.On("GetByID", ctx, comment.ID).Return(comment, nil)
		mockWorkTasks.On("GetByID", ctx, comment.WorkTaskID).
			Return(&domain.WorkTask{ID: comment.WorkTaskID, CreatorID: taskCreatorID}, nil)
		mockComments.On("Delete", ctx, comment.ID).Return(nil)
		mockEmitter.On("Emit", mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, svc.Delete(ctx, comment.ID, taskCreatorID))
		svc.Shutdown()
	})

	t.Run("unrelated member may not delete", func(t *testing.T) {
		mockComments := mocks.NewMockCommentRepository()
		mockSubtasks := mocks.NewMockSubtaskRepository()
		mockWorkTasks := mocks.NewMockWorkTaskRepository()
		mockEmitter := mocks.NewMockEventEmitter()

		svc := services.NewCommentService(mockComments, mockSubtasks, mockWorkTasks, mockEmitter)
		comment := newComment()
		strangerID := uuid.New()

		mockComments.On("GetByID", ctx, comment.ID).Return(comment, nil)
		mockWorkTasks.On("GetByID", ctx, comment.WorkTaskID).
			Return(&domain.WorkTask{ID: comment.WorkTaskID, CreatorID: taskCreatorID}, nil)

		assert.ErrorIs(t, svc.Delete(ctx, comment.ID, strangerID), apperrors.ErrForbidden)
		mockComments.AssertNotCalled(t, "Delete")
	})
}
