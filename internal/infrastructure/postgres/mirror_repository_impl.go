package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classhub/user-service/internal/domain/repository"
)

// IssueMirrorRepository persists the existence mirror of issues owned by the
// issue service. ON CONFLICT DO NOTHING keeps the upsert idempotent under
// duplicate event delivery.
type IssueMirrorRepository struct {
	pool *pgxpool.Pool
}

func NewIssueMirrorRepository(pool *pgxpool.Pool) *IssueMirrorRepository {
	return &IssueMirrorRepository{pool: pool}
}

func (r *IssueMirrorRepository) Upsert(ctx context.Context, issueID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO issue_mirrors (issue_id) VALUES ($1) ON CONFLICT (issue_id) DO NOTHING`, issueID)
	return err
}

func (r *IssueMirrorRepository) Delete(ctx context.Context, issueID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM issue_mirrors WHERE issue_id = $1`, issueID)
	return err
}

func (r *IssueMirrorRepository) Exists(ctx context.Context, issueID uuid.UUID) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM issue_mirrors WHERE issue_id = $1)`, issueID).Scan(&ok)
	return ok, err
}

func (r *IssueMirrorRepository) ListAll(ctx context.Context) ([]uuid.UUID, error) {
	return listIDs(ctx, r.pool, `SELECT issue_id FROM issue_mirrors`)
}

// ProjectMirrorRepository persists the existence mirror of projects owned by
// the project service.
type ProjectMirrorRepository struct {
	pool *pgxpool.Pool
}

func NewProjectMirrorRepository(pool *pgxpool.Pool) *ProjectMirrorRepository {
	return &ProjectMirrorRepository{pool: pool}
}

func (r *ProjectMirrorRepository) Upsert(ctx context.Context, projectID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO project_mirrors (project_id) VALUES ($1) ON CONFLICT (project_id) DO NOTHING`, projectID)
	return err
}

func (r *ProjectMirrorRepository) Delete(ctx context.Context, projectID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM project_mirrors WHERE project_id = $1`, projectID)
	return err
}

func (r *ProjectMirrorRepository) Exists(ctx context.Context, projectID uuid.UUID) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM project_mirrors WHERE project_id = $1)`, projectID).Scan(&ok)
	return ok, err
}

func (r *ProjectMirrorRepository) ListAll(ctx context.Context) ([]uuid.UUID, error) {
	return listIDs(ctx, r.pool, `SELECT project_id FROM project_mirrors`)
}

func listIDs(ctx context.Context, pool *pgxpool.Pool, query string) ([]uuid.UUID, error) {
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var (
	_ repository.IssueMirrorRepository   = (*IssueMirrorRepository)(nil)
	_ repository.ProjectMirrorRepository = (*ProjectMirrorRepository)(nil)
)
