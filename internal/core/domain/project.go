package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/loftbase/studio-backend/internal/core/errors"
)

// MaxProjectNameLength bounds project names.
const MaxProjectNameLength = 255

// Project groups work tasks and the people collaborating on them.
type Project struct {
	ID           uuid.UUID
	Name         string
	Description  string
	CreatorID    uuid.UUID
	Participants []uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// ProjectParams holds the input for creating a project.
type ProjectParams struct {
	Name        string
	Description string
	CreatorID   uuid.UUID
}

// NewProject is a factory function to create a valid new project.
func NewProject(params ProjectParams) (*Project, error) {
	if params.Name == "" {
		return nil, apperrors.ErrProjectNameRequired
	}
	if len(params.Name) > MaxProjectNameLength {
		return nil, apperrors.ErrTitleTooLong
	}

	return &Project{
		Name:        params.Name,
		Description: params.Description,
		CreatorID:   params.CreatorID,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// IsCreator reports whether the given user created the project.
func (p *Project) IsCreator(userID uuid.UUID) bool {
	return p.CreatorID == userID
}

// HasParticipant reports whether the given user is a listed participant.
func (p *Project) HasParticipant(userID uuid.UUID) bool {
	for _, id := range p.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// CanBeAccessedBy reports whether the user may view the project and join its
// room: creator or listed participant.
func (p *Project) CanBeAccessedBy(userID uuid.UUID) bool {
	return p.IsCreator(userID) || p.HasParticipant(userID)
}

// Rename updates the project's name and description.
func (p *Project) Rename(name, description string) error {
	if name == "" {
		return apperrors.ErrProjectNameRequired
	}
	if len(name) > MaxProjectNameLength {
		return apperrors.ErrTitleTooLong
	}
	p.Name = name
	p.Description = description
	now := time.Now().UTC()
	p.UpdatedAt = &now
	return nil
}
