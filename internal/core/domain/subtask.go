package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/loftbase/studio-backend/internal/core/errors"
)

// SubtaskStatus represents the possible states of a subtask.
type SubtaskStatus string

const (
	SubtaskTodo       SubtaskStatus = "todo"
	SubtaskInProgress SubtaskStatus = "in-progress"
	SubtaskDone       SubtaskStatus = "done"
)

// ValidSubtaskStatus reports whether s is a known status value.
func ValidSubtaskStatus(s SubtaskStatus) bool {
	switch s {
	case SubtaskTodo, SubtaskInProgress, SubtaskDone:
		return true
	}
	return false
}

// Subtask is a single item on a work task's checklist. Position orders
// subtasks within their work task.
type Subtask struct {
	ID          uuid.UUID
	WorkTaskID  uuid.UUID
	Title       string
	Description string
	Status      SubtaskStatus
	Position    int
	CreatorID   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// SubtaskParams holds the input for creating a subtask.
type SubtaskParams struct {
	WorkTaskID  uuid.UUID
	Title       string
	Description string
	CreatorID   uuid.UUID
}

// NewSubtask is a factory function to create a valid new subtask.
func NewSubtask(params SubtaskParams) (*Subtask, error) {
	if params.Title == "" {
		return nil, apperrors.ErrTitleRequired
	}
	if len(params.Title) > MaxTitleLength {
		return nil, apperrors.ErrTitleTooLong
	}

	return &Subtask{
		WorkTaskID:  params.WorkTaskID,
		Title:       params.Title,
		Description: params.Description,
		Status:      SubtaskTodo,
		CreatorID:   params.CreatorID,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// UpdateStatus changes the subtask's status. Subtasks may move freely between
// statuses; only unknown values are rejected.
func (s *Subtask) UpdateStatus(newStatus SubtaskStatus) error {
	if !ValidSubtaskStatus(newStatus) {
		return apperrors.ErrInvalidStatus
	}
	s.Status = newStatus
	now := time.Now().UTC()
	s.UpdatedAt = &now
	return nil
}

// Rename updates the subtask's title and description.
func (s *Subtask) Rename(title, description string) error {
	if title == "" {
		return apperrors.ErrTitleRequired
	}
	if len(title) > MaxTitleLength {
		return apperrors.ErrTitleTooLong
	}
	s.Title = title
	s.Description = description
	now := time.Now().UTC()
	s.UpdatedAt = &now
	return nil
}
