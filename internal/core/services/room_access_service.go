package services

import (
	"context"

	"github.com/google/uuid"

	apperrors "github.com/loftbase/studio-backend/internal/core/errors"
	"github.com/loftbase/studio-backend/internal/core/ports"
)

// RoomAccessService decides whether a connection may join a room. Every call
// goes to the persistence layer; a participant removed between two join
// attempts is denied on the second one.
type RoomAccessService struct {
	accessRepo ports.RoomAccessRepository
}

var _ ports.RoomAccessService = (*RoomAccessService)(nil)

// NewRoomAccessService creates a new room access service
func NewRoomAccessService(accessRepo ports.RoomAccessRepository) ports.RoomAccessService {
	return &RoomAccessService{
		accessRepo: accessRepo,
	}
}

// AuthorizeWorkTask allows the join when the user created the work task or
// is a listed participant.
func (s *RoomAccessService) AuthorizeWorkTask(ctx context.Context, userID, workTaskID uuid.UUID) error {
	check, err := s.accessRepo.CheckWorkTask(ctx, workTaskID, userID)
	if err != nil {
		return err
	}
	if !check.Found {
		return apperrors.ErrWorkTaskNotFound
	}
	if !check.Allowed {
		return apperrors.ErrForbidden
	}
	return nil
}

// AuthorizeProject allows the join when the user created the project or is a
// listed participant.
func (s *RoomAccessService) AuthorizeProject(ctx context.Context, userID, projectID uuid.UUID) error {
	check, err := s.accessRepo.CheckProject(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !check.Found {
		return apperrors.ErrProjectNotFound
	}
	if !check.Allowed {
		return apperrors.ErrForbidden
	}
	return nil
}
