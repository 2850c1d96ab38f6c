package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/materiales-obra-api/internal/domain"
	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
	"github.com/jhoicas/materiales-obra-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo implementación de MaterialRepository sobre PostgreSQL (usable con pool o tx).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

const materialColumns = `id, project_id, name, unit, initial_stock, created_at`

// Create persiste el material. El índice único (project_id, name) traduce la carrera a ErrDuplicate.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	query := `
		INSERT INTO materials (project_id, name, unit, initial_stock)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, m.ProjectID, m.Name, m.Unit, m.InitialStock).Scan(&m.ID, &m.CreatedAt)
	if err != nil && isForeignKeyViolation(err) {
		return domain.NewReferentialError("proyecto", m.ProjectID)
	}
	return wrapErr("insert material", err)
}

// GetByID obtiene un material por ID.
func (r *MaterialRepo) GetByID(ctx context.Context, id int64) (*entity.Material, error) {
	return r.findOne(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = $1`, id)
}

// GetForUpdate obtiene el material y bloquea la fila hasta el fin de la transacción.
// Serializa salidas y eliminaciones del mismo material; otros materiales no se bloquean.
func (r *MaterialRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Material, error) {
	return r.findOne(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = $1 FOR UPDATE`, id)
}

// GetByProjectAndName busca por nombre exacto dentro de una obra.
func (r *MaterialRepo) GetByProjectAndName(ctx context.Context, projectID int64, name string) (*entity.Material, error) {
	return r.findOne(ctx, `SELECT `+materialColumns+` FROM materials WHERE project_id = $1 AND name = $2`, projectID, name)
}

// List lista materiales, opcionalmente filtrados por obra.
func (r *MaterialRepo) List(ctx context.Context, projectID *int64) ([]*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials
		WHERE ($1::bigint IS NULL OR project_id = $1)
		ORDER BY project_id, name`
	rows, err := r.q.Query(ctx, query, projectID)
	if err != nil {
		return nil, wrapErr("list materials", err)
	}
	defer rows.Close()

	var list []*entity.Material
	for rows.Next() {
		var m entity.Material
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Name, &m.Unit, &m.InitialStock, &m.CreatedAt); err != nil {
			return nil, wrapErr("scan material", err)
		}
		list = append(list, &m)
	}
	return list, wrapErr("list materials", rows.Err())
}

// Delete elimina el material. Si aún tiene movimientos la FK lo impide (ErrIntegrity).
func (r *MaterialRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete material", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("delete material %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *MaterialRepo) findOne(ctx context.Context, query string, args ...any) (*entity.Material, error) {
	var m entity.Material
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&m.ID, &m.ProjectID, &m.Name, &m.Unit, &m.InitialStock, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get material", err)
	}
	return &m, nil
}
