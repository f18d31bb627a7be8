package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/loftbase/studio-backend/internal/core/domain"
)

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// ProjectRepository persists projects and their participant lists.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
	// GetByID returns the project with its participant list loaded.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	ListByMember(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) (*domain.Project, error)
	AddParticipant(ctx context.Context, projectID, userID uuid.UUID) error
	RemoveParticipant(ctx context.Context, projectID, userID uuid.UUID) error
}

// WorkTaskRepository persists work tasks and their participant lists.
type WorkTaskRepository interface {
	Create(ctx context.Context, task *domain.WorkTask) (*domain.WorkTask, error)
	// GetByID returns the work task with its participant list loaded.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkTask, error)
	ListByMember(ctx context.Context, userID uuid.UUID) ([]*domain.WorkTask, error)
	AddParticipant(ctx context.Context, workTaskID, userID uuid.UUID) error
}

// SubtaskRepository persists subtasks, ordered by position within their
// work task.
type SubtaskRepository interface {
	Create(ctx context.Context, subtask *domain.Subtask) (*domain.Subtask, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Subtask, error)
	ListByWorkTask(ctx context.Context, workTaskID uuid.UUID) ([]*domain.Subtask, error)
	Update(ctx context.Context, subtask *domain.Subtask) (*domain.Subtask, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Reorder atomically rewrites positions so the work task's subtasks
	// follow orderedIDs. Every current subtask of the work task must appear
	// exactly once in orderedIDs.
	Reorder(ctx context.Context, workTaskID uuid.UUID, orderedIDs []uuid.UUID) error
}

// CommentRepository persists subtask comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	ListBySubtask(ctx context.Context, subtaskID uuid.UUID) ([]*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AccessCheck is the result of a room authorization query.
type AccessCheck struct {
	// Found reports whether the target entity exists.
	Found bool
	// Allowed reports whether the user is the creator or a listed
	// participant of the target entity.
	Allowed bool
}

// RoomAccessRepository answers the relay's join-authorization questions
// against persisted data. The relay calls this on every join attempt;
// results are never cached across attempts.
type RoomAccessRepository interface {
	CheckWorkTask(ctx context.Context, workTaskID, userID uuid.UUID) (AccessCheck, error)
	CheckProject(ctx context.Context, projectID, userID uuid.UUID) (AccessCheck, error)
}
