package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/loftbase/studio-backend/internal/core/errors"
)

// MaxCommentBodyLength bounds the size of a single comment.
const MaxCommentBodyLength = 5000

// Comment is a user-authored note on a subtask.
type Comment struct {
	ID         uuid.UUID
	SubtaskID  uuid.UUID
	WorkTaskID uuid.UUID
	AuthorID   uuid.UUID
	Body       string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// CommentParams holds the input for creating a comment.
type CommentParams struct {
	SubtaskID  uuid.UUID
	WorkTaskID uuid.UUID
	AuthorID   uuid.UUID
	Body       string
}

// NewComment is a factory function to create a valid new comment.
func NewComment(params CommentParams) (*Comment, error) {
	if params.Body == "" {
		return nil, apperrors.ErrCommentBodyRequired
	}
	if len(params.Body) > MaxCommentBodyLength {
		return nil, apperrors.ErrCommentBodyTooLong
	}

	return &Comment{
		SubtaskID:  params.SubtaskID,
		WorkTaskID: params.WorkTaskID,
		AuthorID:   params.AuthorID,
		Body:       params.Body,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// IsAuthoredBy reports whether the given user wrote the comment.
func (c *Comment) IsAuthoredBy(userID uuid.UUID) bool {
	return c.AuthorID == userID
}

// Edit replaces the comment body.
func (c *Comment) Edit(body string) error {
	if body == "" {
		return apperrors.ErrCommentBodyRequired
	}
	if len(body) > MaxCommentBodyLength {
		return apperrors.ErrCommentBodyTooLong
	}
	c.Body = body
	now := time.Now().UTC()
	c.UpdatedAt = &now
	return nil
}
