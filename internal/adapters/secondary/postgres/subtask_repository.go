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

type SubtaskRepository struct {
	pool *pgxpool.Pool
	txm  *TransactionManager
}

var _ ports.SubtaskRepository = (*SubtaskRepository)(nil)

func NewSubtaskRepository(pool *pgxpool.Pool) ports.SubtaskRepository {
	return &SubtaskRepository{
		pool: pool,
		txm:  NewTransactionManager(pool),
	}
}

func (r *SubtaskRepository) Create(ctx context.Context, subtask *domain.Subtask) (*domain.Subtask, error) {
	// New subtasks go to the end of the work task's list.
	query := `
		INSERT INTO subtasks (work_task_id, title, description, status, position, creator_id)
		VALUES ($1, $2, $3, $4,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM subtasks WHERE work_task_id = $1),
			$5)
		RETURNING id, work_task_id, title, description, status, position, creator_id, created_at, updated_at
	`

	row := r.pool.QueryRow(ctx, query,
		subtask.WorkTaskID, subtask.Title, subtask.Description, subtask.Status, subtask.CreatorID)
	return scanSubtaskRow(row)
}

func (r *SubtaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Subtask, error) {
	query := `
		SELECT id, work_task_id, title, description, status, position, creator_id, created_at, updated_at
		FROM subtasks
		WHERE id = $1
	`
	return scanSubtaskRow(r.pool.QueryRow(ctx, query, id))
}

func (r *SubtaskRepository) ListByWorkTask(ctx context.Context, workTaskID uuid.UUID) ([]*domain.Subtask, error) {
	query := `
		SELECT id, work_task_id, title, description, status, position, creator_id, created_at, updated_at
		FROM subtasks
		WHERE work_task_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, query, workTaskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subtasks []*domain.Subtask
	for rows.Next() {
		subtask := &domain.Subtask{}
		if err := rows.Scan(&subtask.ID, &subtask.WorkTaskID, &subtask.Title, &subtask.Description,
			&subtask.Status, &subtask.Position, &subtask.CreatorID,
			&subtask.CreatedAt, &subtask.UpdatedAt); err != nil {
			return nil, err
		}
		subtasks = append(subtasks, subtask)
	}

	return subtasks, rows.Err()
}

func (r *SubtaskRepository) Update(ctx context.Context, subtask *domain.Subtask) (*domain.Subtask, error) {
	query := `
		UPDATE subtasks
		SET title = $2, description = $3, status = $4, updated_at = now()
		WHERE id = $1
		RETURNING id, work_task_id, title, description, status, position, creator_id, created_at, updated_at
	`

	row := r.pool.QueryRow(ctx, query, subtask.ID, subtask.Title, subtask.Description, subtask.Status)
	return scanSubtaskRow(row)
}

func (r *SubtaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM subtasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSubtaskNotFound
	}
	return nil
}

// Reorder rewrites the position of every subtask in the work task so they
// follow orderedIDs. Runs in a single transaction so readers never observe a
// partially reordered list.
func (r *SubtaskRepository) Reorder(ctx context.Context, workTaskID uuid.UUID, orderedIDs []uuid.UUID) error {
	return r.txm.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			UPDATE subtasks
			SET position = $1, updated_at = now()
			WHERE id = $2 AND work_task_id = $3
		`
		for position, id := range orderedIDs {
			tag, err := tx.Exec(ctx, query, position, id, workTaskID)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return apperrors.ErrInvalidOrder
			}
		}
		return nil
	})
}

func scanSubtaskRow(row pgx.Row) (*domain.Subtask, error) {
	subtask := &domain.Subtask{}
	err := row.Scan(&subtask.ID, &subtask.WorkTaskID, &subtask.Title, &subtask.Description,
		&subtask.Status, &subtask.Position, &subtask.CreatorID,
		&subtask.CreatedAt, &subtask.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubtaskNotFound
		}
		return nil, err
	}
	return subtask, nil
}
