package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loftbase/studio-backend/internal/core/ports"
)

// RoomAccessRepository answers join-authorization queries for the relay.
// Each call hits the database directly so a membership change is visible on
// the very next join attempt.
type RoomAccessRepository struct {
	pool *pgxpool.Pool
}

var _ ports.RoomAccessRepository = (*RoomAccessRepository)(nil)

func NewRoomAccessRepository(pool *pgxpool.Pool) ports.RoomAccessRepository {
	return &RoomAccessRepository{pool: pool}
}

func (r *RoomAccessRepository) CheckWorkTask(ctx context.Context, workTaskID, userID uuid.UUID) (ports.AccessCheck, error) {
	query := `
		SELECT
			EXISTS (SELECT 1 FROM work_tasks WHERE id = $1),
			EXISTS (
				SELECT 1 FROM work_tasks WHERE id = $1 AND creator_id = $2
				UNION ALL
				SELECT 1 FROM work_task_participants WHERE work_task_id = $1 AND user_id = $2
			)
	`

	var check ports.AccessCheck
	err := r.pool.QueryRow(ctx, query, workTaskID, userID).Scan(&check.Found, &check.Allowed)
	if err != nil {
		return ports.AccessCheck{}, err
	}
	return check, nil
}

func (r *RoomAccessRepository) CheckProject(ctx context.Context, projectID, userID uuid.UUID) (ports.AccessCheck, error) {
	query := `
		SELECT
			EXISTS (SELECT 1 FROM projects WHERE id = $1),
			EXISTS (
				SELECT 1 FROM projects WHERE id = $1 AND creator_id = $2
				UNION ALL
				SELECT 1 FROM project_participants WHERE project_id = $1 AND user_id = $2
			)
	`

	var check ports.AccessCheck
	err := r.pool.QueryRow(ctx, query, projectID, userID).Scan(&check.Found, &check.Allowed)
	if err != nil {
		return ports.AccessCheck{}, err
	}
	return check, nil
}
