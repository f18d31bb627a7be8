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

type ProjectRepository struct {
	pool *pgxpool.Pool
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)

func NewProjectRepository(pool *pgxpool.Pool) ports.ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	query := `
		INSERT INTO projects (name, description, creator_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, creator_id, created_at, updated_at
	`

	created := &domain.Project{}
	err := r.pool.QueryRow(ctx, query, project.Name, project.Description, project.CreatorID).
		Scan(&created.ID, &created.Name, &created.Description, &created.CreatorID,
			&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	query := `
		SELECT id, name, description, creator_id, created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	project := &domain.Project{}
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&project.ID, &project.Name, &project.Description, &project.CreatorID,
			&project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}

	participants, err := r.listParticipants(ctx, id)
	if err != nil {
		return nil, err
	}
	project.Participants = participants

	return project, nil
}

func (r *ProjectRepository) ListByMember(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	query := `
		SELECT DISTINCT p.id, p.name, p.description, p.creator_id, p.created_at, p.updated_at
		FROM projects p
		LEFT JOIN project_participants pp ON pp.project_id = p.id
		WHERE p.creator_id = $1 OR pp.user_id = $1
		ORDER BY p.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		project := &domain.Project{}
		if err := rows.Scan(&project.ID, &project.Name, &project.Description,
			&project.CreatorID, &project.CreatedAt, &project.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	query := `
		UPDATE projects
		SET name = $2, description = $3, updated_at = now()
		WHERE id = $1
		RETURNING id, name, description, creator_id, created_at, updated_at
	`

	updated := &domain.Project{Participants: project.Participants}
	err := r.pool.QueryRow(ctx, query, project.ID, project.Name, project.Description).
		Scan(&updated.ID, &updated.Name, &updated.Description, &updated.CreatorID,
			&updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}

	return updated, nil
}

func (r *ProjectRepository) AddParticipant(ctx context.Context, projectID, userID uuid.UUID) error {
	query := `INSERT INTO project_participants (project_id, user_id) VALUES ($1, $2)`

	if _, err := r.pool.Exec(ctx, query, projectID, userID); err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrParticipantExists
		}
		return err
	}
	return nil
}

func (r *ProjectRepository) RemoveParticipant(ctx context.Context, projectID, userID uuid.UUID) error {
	query := `DELETE FROM project_participants WHERE project_id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, projectID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrParticipantNotFound
	}
	return nil
}

func (r *ProjectRepository) listParticipants(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT user_id
		FROM project_participants
		WHERE project_id = $1
		ORDER BY added_at
	`

	rows, err := r.pool.Query(ctx, query, projectID)
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
