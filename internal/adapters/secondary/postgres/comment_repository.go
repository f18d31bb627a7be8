package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loftbase/studio-backend/internal/core/domain"
	apperrors "github.com/loftbase/studio-backend/internal/core/errors"
	"github.com/loftbase/studio-backend/internal/core/ports"
)

type CommentRepository struct {
	pool *pgxpool.Pool
}

var _ ports.CommentRepository = (*CommentRepository)(nil)

func NewCommentRepository(pool *pgxpool.Pool) ports.CommentRepository {
	return &CommentRepository{pool: pool}
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	query := `
		INSERT INTO subtask_comments (subtask_id, work_task_id, author_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, subtask_id, work_task_id, author_id, body, created_at, updated_at
	`

	row := r.pool.QueryRow(ctx, query,
		comment.SubtaskID, comment.WorkTaskID, comment.AuthorID, comment.Body)
	return scanCommentRow(row)
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	query := `
		SELECT id, subtask_id, work_task_id, author_id, body, created_at, updated_at
		FROM subtask_comments
		WHERE id = $1
	`
	return scanCommentRow(r.pool.QueryRow(ctx, query, id))
}

func (r *CommentRepository) ListBySubtask(ctx context.Context, subtaskID uuid.UUID) ([]*domain.Comment, error) {
	query := `
		SELECT id, subtask_id, work_task_id, author_id, body, created_at, updated_at
		FROM subtask_comments
		WHERE subtask_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, subtaskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		comment := &domain.Comment{}
		if err := rows.Scan(&comment.ID, &comment.SubtaskID, &comment.WorkTaskID,
			&comment.AuthorID, &comment.Body, &comment.CreatedAt, &comment.UpdatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}

func (r *CommentRepository) Update(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	query := `
		UPDATE subtask_comments
		SET body = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, subtask_id, work_task_id, author_id, body, created_at, updated_at
	`
	return scanCommentRow(r.pool.QueryRow(ctx, query, comment.ID, comment.Body))
}

func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM subtask_comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCommentNotFound
	}
	return nil
}

func scanCommentRow(row pgx.Row) (*domain.Comment, error) {
	comment := &domain.Comment{}
	err := row.Scan(&comment.ID, &comment.SubtaskID, &comment.WorkTaskID,
		&comment.AuthorID, &comment.Body, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}
