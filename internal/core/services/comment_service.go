package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/loftbase/studio-backend/internal/core/domain"
	apperrors "github.com/loftbase/studio-backend/internal/core/errors"
	"github.com/loftbase/studio-backend/internal/core/ports"
)

// CommentService implements business logic for subtask comments
type CommentService struct {
	commentRepo  ports.CommentRepository
	subtaskRepo  ports.SubtaskRepository
	workTaskRepo ports.WorkTaskRepository
	emitter      ports.EventEmitter
	wg           sync.WaitGroup
}

var _ ports.CommentService = (*CommentService)(nil)

// NewCommentService creates a new comment service
func NewCommentService(
	commentRepo ports.CommentRepository,
	subtaskRepo ports.SubtaskRepository,
	workTaskRepo ports.WorkTaskRepository,
	emitter ports.EventEmitter,
) ports.CommentService {
	return &CommentService{
		commentRepo:  commentRepo,
		subtaskRepo:  subtaskRepo,
		workTaskRepo: workTaskRepo,
		emitter:      emitter,
	}
}

// Create adds a comment to a subtask
func (s *CommentService) Create(ctx context.Context, params ports.CreateCommentParams) (*domain.Comment, error) {
	subtask, err := s.subtaskRepo.GetByID(ctx, params.SubtaskID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeWorkTask(ctx, subtask.WorkTaskID, params.ActorID); err != nil {
		return nil, err
	}

	comment, err := domain.NewComment(domain.CommentParams{
		SubtaskID:  subtask.ID,
		WorkTaskID: subtask.WorkTaskID,
		AuthorID:   params.ActorID,
		Body:       params.Body,
	})
	if err != nil {
		return nil, err
	}

	created, err := s.commentRepo.Create(ctx, comment)
	if err != nil {
		return nil, err
	}

	s.emit(domain.Event{
		Category:   domain.CategorySubtaskComment,
		EventType:  domain.EventCreated,
		WorkTaskID: created.WorkTaskID.String(),
		SubtaskID:  created.SubtaskID.String(),
		Payload:    domain.NewCommentSnapshot(created),
	})

	return created, nil
}

// List retrieves a subtask's comments.
func (s *CommentService) List(ctx context.Context, subtaskID, viewerID uuid.UUID) ([]*domain.Comment, error) {
	subtask, err := s.subtaskRepo.GetByID(ctx, subtaskID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeWorkTask(ctx, subtask.WorkTaskID, viewerID); err != nil {
		return nil, err
	}

	return s.commentRepo.ListBySubtask(ctx, subtaskID)
}

// Update edits a comment's body. Only the author may edit.
func (s *CommentService) Update(ctx context.Context, params ports.UpdateCommentParams) (*domain.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, params.CommentID)
	if err != nil {
		return nil, err
	}

	if !comment.IsAuthoredBy(params.ActorID) {
		return nil, apperrors.ErrForbidden
	}

	if err := comment.Edit(params.Body); err != nil {
		return nil, err
	}

	updated, err := s.commentRepo.Update(ctx, comment)
	if err != nil {
		return nil, err
	}

	s.emit(domain.Event{
		Category:   domain.CategorySubtaskComment,
		EventType:  domain.EventUpdated,
		WorkTaskID: updated.WorkTaskID.String(),
		SubtaskID:  updated.SubtaskID.String(),
		Payload:    domain.NewCommentSnapshot(updated),
	})

	return updated, nil
}

// Delete removes a comment. The author or the work task's creator may
// delete.
func (s *CommentService) Delete(ctx context.Context, commentID, actorID uuid.UUID) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if !comment.IsAuthoredBy(actorID) {
		task, err := s.workTaskRepo.GetByID(ctx, comment.WorkTaskID)
		if err != nil {
			return err
		}
		if !task.IsCreator(actorID) {
			return apperrors.ErrForbidden
		}
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}

	s.emit(domain.Event{
		Category:   domain.CategorySubtaskComment,
		EventType:  domain.EventDeleted,
		WorkTaskID: comment.WorkTaskID.String(),
		SubtaskID:  comment.SubtaskID.String(),
		Payload:    domain.NewCommentSnapshot(comment),
	})

	return nil
}

// Shutdown drains in-flight event emissions.
func (s *CommentService) Shutdown() {
	s.wg.Wait()
}

func (s *CommentService) authorizeWorkTask(ctx context.Context, workTaskID, actorID uuid.UUID) error {
	task, err := s.workTaskRepo.GetByID(ctx, workTaskID)
	if err != nil {
		return err
	}
	if !task.CanBeAccessedBy(actorID) {
		return apperrors.ErrForbidden
	}
	return nil
}

func (s *CommentService) emit(event domain.Event) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// Use background context since the HTTP request may be done
		_ = s.emitter.Emit(context.Background(), event)
	}()
}
