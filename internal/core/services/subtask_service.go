package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/loftbase/studio-backend/internal/core/domain"
	apperrors "github.com/loftbase/studio-backend/internal/core/errors"
	"github.com/loftbase/studio-backend/internal/core/ports"
)

// SubtaskService implements business logic for subtasks. Mutations emit
// real-time events to the work task's room after the write commits; emission
// is detached from the request and never fails the operation.
type SubtaskService struct {
	subtaskRepo  ports.SubtaskRepository
	workTaskRepo ports.WorkTaskRepository
	emitter      ports.EventEmitter
	wg           sync.WaitGroup
}

var _ ports.SubtaskService = (*SubtaskService)(nil)

// NewSubtaskService creates a new subtask service
func NewSubtaskService(
	subtaskRepo ports.SubtaskRepository,
	workTaskRepo ports.WorkTaskRepository,
	emitter ports.EventEmitter,
) ports.SubtaskService {
	return &SubtaskService{
		subtaskRepo:  subtaskRepo,
		workTaskRepo: workTaskRepo,
		emitter:      emitter,
	}
}

// Create handles the use case for adding a subtask to a work task
func (s *SubtaskService) Create(ctx context.Context, params ports.CreateSubtaskParams) (*domain.Subtask, error) {
	if err := s.authorizeWorkTask(ctx, params.WorkTaskID, params.ActorID); err != nil {
		return nil, err
	}

	subtask, err := domain.NewSubtask(domain.SubtaskParams{
		WorkTaskID:  params.WorkTaskID,
		Title:       params.Title,
		Description: params.Description,
		CreatorID:   params.ActorID,
	})
	if err != nil {
		return nil, err
	}

	created, err := s.subtaskRepo.Create(ctx, subtask)
	if err != nil {
		return nil, err
	}

	s.emit(domain.Event{
		Category:   domain.CategorySubtask,
		EventType:  domain.EventCreated,
		WorkTaskID: created.WorkTaskID.String(),
		SubtaskID:  created.ID.String(),
		Payload:    domain.NewSubtaskSnapshot(created),
	})

	return created, nil
}

// List retrieves a work task's subtasks in position order.
func (s *SubtaskService) List(ctx context.Context, workTaskID, viewerID uuid.UUID) ([]*domain.Subtask, error) {
	if err := s.authorizeWorkTask(ctx, workTaskID, viewerID); err != nil {
		return nil, err
	}

	return s.subtaskRepo.ListByWorkTask(ctx, workTaskID)
}

// Update renames a subtask.
func (s *SubtaskService) Update(ctx context.Context, params ports.UpdateSubtaskParams) (*domain.Subtask, error) {
	subtask, err := s.getAuthorized(ctx, params.SubtaskID, params.ActorID)
	if err != nil {
		return nil, err
	}

	if err := subtask.Rename(params.Title, params.Description); err != nil {
		return nil, err
	}

	updated, err := s.subtaskRepo.Update(ctx, subtask)
	if err != nil {
		return nil, err
	}

	s.emit(domain.Event{
		Category:   domain.CategorySubtask,
		EventType:  domain.EventUpdated,
		WorkTaskID: updated.WorkTaskID.String(),
		SubtaskID:  updated.ID.String(),
		Payload:    domain.NewSubtaskSnapshot(updated),
	})

	return updated, nil
}

// UpdateStatus changes a subtask's status. Statuses move freely; the domain
// rejects only unknown values.
func (s *SubtaskService) UpdateStatus(ctx context.Context, params ports.UpdateSubtaskStatusParams) (*domain.Subtask, error) {
	subtask, err := s.getAuthorized(ctx, params.SubtaskID, params.ActorID)
	if err != nil {
		return nil, err
	}

	if err := subtask.UpdateStatus(params.Status); err != nil {
		return nil, err
	}

	updated, err := s.subtaskRepo.Update(ctx, subtask)
	if err != nil {
		return nil, err
	}

	s.emit(domain.Event{
		Category:   domain.CategorySubtask,
		EventType:  domain.EventStatusChanged,
		WorkTaskID: updated.WorkTaskID.String(),
		SubtaskID:  updated.ID.String(),
		Payload:    domain.NewSubtaskSnapshot(updated),
	})

	return updated, nil
}

// Delete removes a subtask.
func (s *SubtaskService) Delete(ctx context.Context, subtaskID, actorID uuid.UUID) error {
	subtask, err := s.getAuthorized(ctx, subtaskID, actorID)
	if err != nil {
		return err
	}

	if err := s.subtaskRepo.Delete(ctx, subtaskID); err != nil {
		return err
	}

	s.emit(domain.Event{
		Category:   domain.CategorySubtask,
		EventType:  domain.EventDeleted,
		WorkTaskID: subtask.WorkTaskID.String(),
		SubtaskID:  subtask.ID.String(),
		Payload:    domain.NewSubtaskSnapshot(subtask),
	})

	return nil
}

// Reorder atomically rewrites the position of every subtask in the work
// task. The ordered list must contain exactly the work task's current
// subtasks.
func (s *SubtaskService) Reorder(ctx context.Context, params ports.ReorderSubtasksParams) error {
	if err := s.authorizeWorkTask(ctx, params.WorkTaskID, params.ActorID); err != nil {
		return err
	}

	current, err := s.subtaskRepo.ListByWorkTask(ctx, params.WorkTaskID)
	if err != nil {
		return err
	}

	if !sameIDSet(current, params.OrderedIDs) {
		return apperrors.ErrInvalidOrder
	}

	if err := s.subtaskRepo.Reorder(ctx, params.WorkTaskID, params.OrderedIDs); err != nil {
		return err
	}

	orderedIDs := make([]string, 0, len(params.OrderedIDs))
	for _, id := range params.OrderedIDs {
		orderedIDs = append(orderedIDs, id.String())
	}

	s.emit(domain.Event{
		Category:   domain.CategorySubtask,
		EventType:  domain.EventOrderUpdated,
		WorkTaskID: params.WorkTaskID.String(),
		Payload: domain.SubtaskOrderSnapshot{
			WorkTaskID: params.WorkTaskID.String(),
			SubtaskIDs: orderedIDs,
		},
	})

	return nil
}

// Shutdown drains in-flight event emissions.
func (s *SubtaskService) Shutdown() {
	s.wg.Wait()
}

// authorizeWorkTask verifies the actor may touch the work task's subtasks.
func (s *SubtaskService) authorizeWorkTask(ctx context.Context, workTaskID, actorID uuid.UUID) error {
	task, err := s.workTaskRepo.GetByID(ctx, workTaskID)
	if err != nil {
		return err
	}
	if !task.CanBeAccessedBy(actorID) {
		return apperrors.ErrForbidden
	}
	return nil
}

// getAuthorized fetches a subtask and verifies the actor can access its work
// task.
func (s *SubtaskService) getAuthorized(ctx context.Context, subtaskID, actorID uuid.UUID) (*domain.Subtask, error) {
	subtask, err := s.subtaskRepo.GetByID(ctx, subtaskID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeWorkTask(ctx, subtask.WorkTaskID, actorID); err != nil {
		return nil, err
	}

	return subtask, nil
}

// emit hands the event to the relay in a background goroutine. The waitgroup
// lets Shutdown drain emissions still in flight.
func (s *SubtaskService) emit(event domain.Event) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// Use background context since the HTTP request may be done
		_ = s.emitter.Emit(context.Background(), event)
	}()
}

func sameIDSet(subtasks []*domain.Subtask, orderedIDs []uuid.UUID) bool {
	if len(subtasks) != len(orderedIDs) {
		return false
	}

	seen := make(map[uuid.UUID]bool, len(subtasks))
	for _, subtask := range subtasks {
		seen[subtask.ID] = true
	}

	for _, id := range orderedIDs {
		if !seen[id] {
			return false
		}
		delete(seen, id)
	}
	return len(seen) == 0
}
