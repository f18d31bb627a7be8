package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/loftbase/studio-backend/internal/core/domain"
	apperrors "github.com/loftbase/studio-backend/internal/core/errors"
	"github.com/loftbase/studio-backend/internal/core/ports"
)

// WorkTaskService implements business logic for work tasks
type WorkTaskService struct {
	workTaskRepo ports.WorkTaskRepository
	userRepo     ports.UserRepository
}

var _ ports.WorkTaskService = (*WorkTaskService)(nil)

// NewWorkTaskService creates a new work task service
func NewWorkTaskService(
	workTaskRepo ports.WorkTaskRepository,
	userRepo ports.UserRepository,
) ports.WorkTaskService {
	return &WorkTaskService{
		workTaskRepo: workTaskRepo,
		userRepo:     userRepo,
	}
}

// Create handles the use case for creating a new work task
func (s *WorkTaskService) Create(ctx context.Context, params ports.CreateWorkTaskParams) (*domain.WorkTask, error) {
	task, err := domain.NewWorkTask(domain.WorkTaskParams{
		Title:       params.Title,
		Description: params.Description,
		ProjectID:   params.ProjectID,
		CreatorID:   params.CreatorID,
	})
	if err != nil {
		return nil, err
	}

	return s.workTaskRepo.Create(ctx, task)
}

// Get retrieves a work task; only the creator and participants may view it.
func (s *WorkTaskService) Get(ctx context.Context, workTaskID, viewerID uuid.UUID) (*domain.WorkTask, error) {
	task, err := s.workTaskRepo.GetByID(ctx, workTaskID)
	if err != nil {
		return nil, err
	}

	if !task.CanBeAccessedBy(viewerID) {
		return nil, apperrors.ErrForbidden
	}

	return task, nil
}

// List retrieves the work tasks the viewer created or participates in.
func (s *WorkTaskService) List(ctx context.Context, viewerID uuid.UUID) ([]*domain.WorkTask, error) {
	return s.workTaskRepo.ListByMember(ctx, viewerID)
}

// AddParticipant adds a user to the work task. Only the creator may change
// the participant list.
func (s *WorkTaskService) AddParticipant(ctx context.Context, params ports.AddParticipantParams) error {
	task, err := s.workTaskRepo.GetByID(ctx, params.TargetID)
	if err != nil {
		return err
	}

	if !task.IsCreator(params.ActorID) {
		return apperrors.ErrOnlyCreatorCanModify
	}

	if task.HasParticipant(params.UserID) || task.IsCreator(params.UserID) {
		return apperrors.ErrParticipantExists
	}

	if _, err := s.userRepo.GetByID(ctx, params.UserID); err != nil {
		return err
	}

	return s.workTaskRepo.AddParticipant(ctx, params.TargetID, params.UserID)
}
