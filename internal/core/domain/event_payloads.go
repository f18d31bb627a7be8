package domain

import (
	"time"
)

// SubtaskSnapshot matches the API response shape for subtasks.
type SubtaskSnapshot struct {
	ID          string  `json:"id"`
	WorkTaskID  string  `json:"workTaskId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Position    int     `json:"position"`
	CreatorID   string  `json:"creatorId"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   *string `json:"updatedAt"`
}

// CommentSnapshot matches the API response shape for subtask comments.
type CommentSnapshot struct {
	ID         string  `json:"id"`
	SubtaskID  string  `json:"subtaskId"`
	WorkTaskID string  `json:"workTaskId"`
	AuthorID   string  `json:"authorId"`
	Body       string  `json:"body"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  *string `json:"updatedAt"`
}

// SubtaskOrderSnapshot carries the new subtask order for a work task.
type SubtaskOrderSnapshot struct {
	WorkTaskID string   `json:"workTaskId"`
	SubtaskIDs []string `json:"subtaskIds"`
}

// ParticipantSnapshot carries a project membership change.
type ParticipantSnapshot struct {
	ProjectID string `json:"projectId"`
	UserID    string `json:"userId"`
}

// ProjectSnapshot matches the API response shape for projects.
type ProjectSnapshot struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CreatorID   string  `json:"creatorId"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   *string `json:"updatedAt"`
}

// NewSubtaskSnapshot builds a subtask snapshot from a domain subtask.
func NewSubtaskSnapshot(subtask *Subtask) SubtaskSnapshot {
	return SubtaskSnapshot{
		ID:          subtask.ID.String(),
		WorkTaskID:  subtask.WorkTaskID.String(),
		Title:       subtask.Title,
		Description: subtask.Description,
		Status:      string(subtask.Status),
		Position:    subtask.Position,
		CreatorID:   subtask.CreatorID.String(),
		CreatedAt:   subtask.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   formatOptionalTime(subtask.UpdatedAt),
	}
}

// NewCommentSnapshot builds a comment snapshot from a domain comment.
func NewCommentSnapshot(comment *Comment) CommentSnapshot {
	return CommentSnapshot{
		ID:         comment.ID.String(),
		SubtaskID:  comment.SubtaskID.String(),
		WorkTaskID: comment.WorkTaskID.String(),
		AuthorID:   comment.AuthorID.String(),
		Body:       comment.Body,
		CreatedAt:  comment.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  formatOptionalTime(comment.UpdatedAt),
	}
}

// NewProjectSnapshot builds a project snapshot from a domain project.
func NewProjectSnapshot(project *Project) ProjectSnapshot {
	return ProjectSnapshot{
		ID:          project.ID.String(),
		Name:        project.Name,
		Description: project.Description,
		CreatorID:   project.CreatorID.String(),
		CreatedAt:   project.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   formatOptionalTime(project.UpdatedAt),
	}
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	value := t.UTC().Format(time.RFC3339)
	return &value
}
