package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/loftbase/studio-backend/internal/core/domain"
)

// AuthService defines the port for authentication business logic.
type AuthService interface {
	Register(ctx context.Context, params domain.UserRegistrationParams) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
}

// EventEmitter hands a domain event off to the relay process. Implementations
// are best-effort: failures are logged and swallowed, never surfaced to the
// calling request's success path.
type EventEmitter interface {
	Emit(ctx context.Context, event domain.Event) error
}

// RoomAccessService authorizes room joins for the relay. Each call
// independently re-verifies membership against the persistence layer.
type RoomAccessService interface {
	// AuthorizeWorkTask returns nil if the user may join the work task's
	// room, ErrWorkTaskNotFound if the task does not exist, ErrForbidden
	// otherwise.
	AuthorizeWorkTask(ctx context.Context, userID, workTaskID uuid.UUID) error
	// AuthorizeProject is the project-room counterpart.
	AuthorizeProject(ctx context.Context, userID, projectID uuid.UUID) error
}

// CreateWorkTaskParams defines the input for creating a work task.
type CreateWorkTaskParams struct {
	Title       string
	Description string
	ProjectID   *uuid.UUID
	CreatorID   uuid.UUID
}

// AddParticipantParams defines the input for adding a participant.
type AddParticipantParams struct {
	TargetID uuid.UUID // work task or project id
	UserID   uuid.UUID // participant being added
	ActorID  uuid.UUID
}

// WorkTaskService defines the core business operations for work tasks.
type WorkTaskService interface {
	Create(ctx context.Context, params CreateWorkTaskParams) (*domain.WorkTask, error)
	Get(ctx context.Context, workTaskID, viewerID uuid.UUID) (*domain.WorkTask, error)
	List(ctx context.Context, viewerID uuid.UUID) ([]*domain.WorkTask, error)
	AddParticipant(ctx context.Context, params AddParticipantParams) error
}

// CreateSubtaskParams defines the input for creating a subtask.
type CreateSubtaskParams struct {
	WorkTaskID  uuid.UUID
	Title       string
	Description string
	ActorID     uuid.UUID
}

// UpdateSubtaskParams defines the input for renaming a subtask.
type UpdateSubtaskParams struct {
	SubtaskID   uuid.UUID
	Title       string
	Description string
	ActorID     uuid.UUID
}

// UpdateSubtaskStatusParams defines the input for changing a subtask's status.
type UpdateSubtaskStatusParams struct {
	SubtaskID uuid.UUID
	Status    domain.SubtaskStatus
	ActorID   uuid.UUID
}

// ReorderSubtasksParams defines the input for reordering a work task's
// subtasks.
type ReorderSubtasksParams struct {
	WorkTaskID uuid.UUID
	OrderedIDs []uuid.UUID
	ActorID    uuid.UUID
}

// SubtaskService defines the core business operations for subtasks. Every
// collaborator-visible mutation emits a real-time event to the work task's
// room, detached from the request's own success path.
type SubtaskService interface {
	Create(ctx context.Context, params CreateSubtaskParams) (*domain.Subtask, error)
	List(ctx context.Context, workTaskID, viewerID uuid.UUID) ([]*domain.Subtask, error)
	Update(ctx context.Context, params UpdateSubtaskParams) (*domain.Subtask, error)
	UpdateStatus(ctx context.Context, params UpdateSubtaskStatusParams) (*domain.Subtask, error)
	Delete(ctx context.Context, subtaskID, actorID uuid.UUID) error
	Reorder(ctx context.Context, params ReorderSubtasksParams) error
	// Shutdown drains in-flight event emissions.
	Shutdown()
}

// CreateCommentParams defines the input for creating a comment.
type CreateCommentParams struct {
	SubtaskID uuid.UUID
	Body      string
	ActorID   uuid.UUID
}

// UpdateCommentParams defines the input for editing a comment.
type UpdateCommentParams struct {
	CommentID uuid.UUID
	Body      string
	ActorID   uuid.UUID
}

// CommentService defines the core business operations for subtask comments.
type CommentService interface {
	Create(ctx context.Context, params CreateCommentParams) (*domain.Comment, error)
	List(ctx context.Context, subtaskID, viewerID uuid.UUID) ([]*domain.Comment, error)
	Update(ctx context.Context, params UpdateCommentParams) (*domain.Comment, error)
	Delete(ctx context.Context, commentID, actorID uuid.UUID) error
	Shutdown()
}

// CreateProjectParams defines the input for creating a project.
type CreateProjectParams struct {
	Name        string
	Description string
	CreatorID   uuid.UUID
}

// UpdateProjectParams defines the input for renaming a project.
type UpdateProjectParams struct {
	ProjectID   uuid.UUID
	Name        string
	Description string
	ActorID     uuid.UUID
}

// ProjectService defines the core business operations for projects.
type ProjectService interface {
	Create(ctx context.Context, params CreateProjectParams) (*domain.Project, error)
	Get(ctx context.Context, projectID, viewerID uuid.UUID) (*domain.Project, error)
	List(ctx context.Context, viewerID uuid.UUID) ([]*domain.Project, error)
	Update(ctx context.Context, params UpdateProjectParams) (*domain.Project, error)
	AddParticipant(ctx context.Context, params AddParticipantParams) error
	RemoveParticipant(ctx context.Context, params AddParticipantParams) error
	Shutdown()
}
