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

type WorkTaskRepository struct {
	pool *pgxpool.Pool
}

var _ ports.WorkTaskRepository = (*WorkTaskRepository)(nil)

func NewWorkTaskRepository(pool *pgxpool.Pool) ports.WorkTaskRepository {
	return &WorkTaskRepository{pool: pool}
}

func (r *WorkTaskRepository) Create(ctx context.Context, task *domain.WorkTask) (*domain.WorkTask, error) {
	query := `
		INSERT INTO work_tasks (project_id, title, description, creator_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, project_id, title, description, creator_id, created_at, updated_at
	`

	created := &domain.WorkTask{}
	err := r.pool.QueryRow(ctx, query, task.ProjectID, task.Title, task.Description, task.CreatorID).
		Scan(&created.ID, &created.ProjectID, &created.Title, &created.Description,
			&created.CreatorID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *WorkTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkTask, error) {
	query := `
		SELECT id, project_id, title, description, creator_id, created_at, updated_at
		FROM work_tasks
		WHERE id = $1
	`

	task := &domain.WorkTask{}
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&task.ID, &task.ProjectID, &task.Title, &task.Description,
			&task.CreatorID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrWorkTaskNotFound
		}
		return nil, err
	}

	participants, err := r.listParticipants(ctx, id)
	if err != nil {
		return nil, err
	}
	task.Participants = participants

	return task, nil
}

func (r *WorkTaskRepository) ListByMember(ctx context.Context, userID uuid.UUID) ([]*domain.WorkTask, error) {
	query := `
		SELECT DISTINCT t.id, t.project_id, t.title, t.description, t.creator_id, t.created_at, t.updated_at
		FROM work_tasks t
		LEFT JOIN work_task_participants tp ON tp.work_task_id = t.id
		WHERE t.creator_id = $1 OR tp.user_id = $1
		ORDER BY t.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*domain.WorkTask
	for rows.Next() {
		task := &domain.WorkTask{}
		if err := rows.Scan(&task.ID, &task.ProjectID, &task.Title, &task.Description,
			&task.CreatorID, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

func (r *WorkTaskRepository) AddParticipant(ctx context.Context, workTaskID, userID uuid.UUID) error {
	query := `INSERT INTO work_task_participants (work_task_id, user_id) VALUES ($1, $2)`

	if _, err := r.pool.Exec(ctx, query, workTaskID, userID); err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrParticipantExists
		}
		return err
	}
	return nil
}

func (r *WorkTaskRepository) listParticipants(ctx context.Context, workTaskID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT user_id
		FROM work_task_participants
		WHERE work_task_id = $1
		ORDER BY added_at
	`

	rows, err := r.pool.Query(ctx, query, workTaskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		participants = append(participants, id)
	}

	return participants, rows.Err()
}
