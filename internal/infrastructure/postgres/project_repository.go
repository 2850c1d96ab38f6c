package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
	"github.com/jhoicas/materiales-obra-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo implementación de ProjectRepository sobre PostgreSQL.
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construye el adaptador de persistencia para obras.
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

// Create persiste una obra y completa ID y CreatedAt.
func (r *ProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	query := `
		INSERT INTO projects (name, location, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, p.Name, p.Location, p.StartDate, p.EndDate).Scan(&p.ID, &p.CreatedAt)
	return wrapErr("insert project", err)
}

// GetByID obtiene una obra por ID.
func (r *ProjectRepo) GetByID(ctx context.Context, id int64) (*entity.Project, error) {
	query := `
		SELECT id, name, location, start_date, end_date, created_at
		FROM projects WHERE id = $1`
	var p entity.Project
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Location, &p.StartDate, &p.EndDate, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get project", err)
	}
	return &p, nil
}

// List lista las obras por nombre.
func (r *ProjectRepo) List(ctx context.Context) ([]*entity.Project, error) {
	query := `
		SELECT id, name, location, start_date, end_date, created_at
		FROM projects ORDER BY name, id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, wrapErr("list projects", err)
	}
	defer rows.Close()

	var list []*entity.Project
	for rows.Next() {
		var p entity.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Location, &p.StartDate, &p.EndDate, &p.CreatedAt); err != nil {
			return nil, wrapErr("scan project", err)
		}
		list = append(list, &p)
	}
	return list, wrapErr("list projects", rows.Err())
}
