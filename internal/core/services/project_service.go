package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/loftbase/studio-backend/internal/core/domain"
	apperrors "github.com/loftbase/studio-backend/internal/core/errors"
	"github.com/loftbase/studio-backend/internal/core/ports"
)

// ProjectService implements business logic for projects
type ProjectService struct {
	projectRepo ports.ProjectRepository
	userRepo    ports.UserRepository
	emitter     ports.EventEmitter
	wg          sync.WaitGroup
}

var _ ports.ProjectService = (*ProjectService)(nil)

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo ports.ProjectRepository,
	userRepo ports.UserRepository,
	emitter ports.EventEmitter,
) ports.ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		emitter:     emitter,
	}
}

// Create handles the use case for creating a new project
func (s *ProjectService) Create(ctx context.Context, params ports.CreateProjectParams) (*domain.Project, error) {
	project, err := domain.NewProject(domain.ProjectParams{
		Name:        params.Name,
		Description: params.Description,
		CreatorID:   params.CreatorID,
	})
	if err != nil {
		return nil, err
	}

	return s.projectRepo.Create(ctx, project)
}

// Get retrieves a project; only the creator and participants may view it.
func (s *ProjectService) Get(ctx context.Context, projectID, viewerID uuid.UUID) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !project.CanBeAccessedBy(viewerID) {
		return nil, apperrors.ErrForbidden
	}

	return project, nil
}

// List retrieves the projects the viewer created or participates in.
func (s *ProjectService) List(ctx context.Context, viewerID uuid.UUID) ([]*domain.Project, error) {
	return s.projectRepo.ListByMember(ctx, viewerID)
}

// Update renames a project. Only the creator may rename.
func (s *ProjectService) Update(ctx context.Context, params ports.UpdateProjectParams) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, params.ProjectID)
	if err != nil {
		return nil, err
	}

	if !project.IsCreator(params.ActorID) {
		return nil, apperrors.ErrOnlyCreatorCanModify
	}

	if err := project.Rename(params.Name, params.Description); err != nil {
		return nil, err
	}

	updated, err := s.projectRepo.Update(ctx, project)
	if err != nil {
		return nil, err
	}

	s.emit(domain.Event{
		Category:  domain.CategoryProject,
		EventType: domain.EventUpdated,
		ProjectID: updated.ID.String(),
		Payload:   domain.NewProjectSnapshot(updated),
	})

	return updated, nil
}

// AddParticipant adds a user to the project. Only the creator may change the
// participant list.
func (s *ProjectService) AddParticipant(ctx context.Context, params ports.AddParticipantParams) error {
	project, err := s.projectRepo.GetByID(ctx, params.TargetID)
	if err != nil {
		return err
	}

	if !project.IsCreator(params.ActorID) {
		return apperrors.ErrOnlyCreatorCanModify
	}

	if project.HasParticipant(params.UserID) || project.IsCreator(params.UserID) {
		return apperrors.ErrParticipantExists
	}

	if _, err := s.userRepo.GetByID(ctx, params.UserID); err != nil {
		return err
	}

	if err := s.projectRepo.AddParticipant(ctx, params.TargetID, params.UserID); err != nil {
		return err
	}

	s.emit(domain.Event{
		Category:  domain.CategoryProject,
		EventType: domain.EventParticipantAdded,
		ProjectID: params.TargetID.String(),
		Payload: domain.ParticipantSnapshot{
			ProjectID: params.TargetID.String(),
			UserID:    params.UserID.String(),
		},
	})

	return nil
}

// RemoveParticipant removes a user from the project.
func (s *ProjectService) RemoveParticipant(ctx context.Context, params ports.AddParticipantParams) error {
	project, err := s.projectRepo.GetByID(ctx, params.TargetID)
	if err != nil {
		return err
	}

	// The creator may remove anyone; a participant may remove themselves.
	if !project.IsCreator(params.ActorID) && params.ActorID != params.UserID {
		return apperrors.ErrOnlyCreatorCanModify
	}

	if !project.HasParticipant(params.UserID) {
		return apperrors.ErrParticipantNotFound
	}

	if err := s.projectRepo.RemoveParticipant(ctx, params.TargetID, params.UserID); err != nil {
		return err
	}

	s.emit(domain.Event{
		Category:  domain.CategoryProject,
		EventType: domain.EventParticipantRemoved,
		ProjectID: params.TargetID.String(),
		Payload: domain.ParticipantSnapshot{
			ProjectID: params.TargetID.String(),
			UserID:    params.UserID.String(),
		},
	})

	return nil
}

// Shutdown drains in-flight event emissions.
func (s *ProjectService) Shutdown() {
	s.wg.Wait()
}

func (s *ProjectService) emit(event domain.Event) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// Use background context since the HTTP request may be done
		_ = s.emitter.Emit(context.Background(), event)
	}()
}
