package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/loftbase/studio-backend/internal/core/errors"
)

// Validation constants shared by work tasks and subtasks.
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 10000
)

// WorkTask is a unit of collaborative work. The creator and every listed
// participant may view it and join its live-update room.
type WorkTask struct {
	ID           uuid.UUID
	ProjectID    *uuid.UUID
	Title        string
	Description  string
	CreatorID    uuid.UUID
	Participants []uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// WorkTaskParams holds the input for creating a work task.
type WorkTaskParams struct {
	Title       string
	Description string
	ProjectID   *uuid.UUID
	CreatorID   uuid.UUID
}

// NewWorkTask is a factory function to create a valid new work task.
func NewWorkTask(params WorkTaskParams) (*WorkTask, error) {
	if params.Title == "" {
		return nil, apperrors.ErrTitleRequired
	}
	if len(params.Title) > MaxTitleLength {
		return nil, apperrors.ErrTitleTooLong
	}

	return &WorkTask{
		ProjectID:   params.ProjectID,
		Title:       params.Title,
		Description: params.Description,
		CreatorID:   params.CreatorID,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// IsCreator reports whether the given user created the work task.
func (t *WorkTask) IsCreator(userID uuid.UUID) bool {
	return t.CreatorID == userID
}

// HasParticipant reports whether the given user is a listed participant.
func (t *WorkTask) HasParticipant(userID uuid.UUID) bool {
	for _, id := range t.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// CanBeAccessedBy reports whether the user may view the work task and join
// its room: creator or listed participant.
func (t *WorkTask) CanBeAccessedBy(userID uuid.UUID) bool {
	return t.IsCreator(userID) || t.HasParticipant(userID)
}
