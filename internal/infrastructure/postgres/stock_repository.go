package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
	"github.com/jhoicas/materiales-obra-api/internal/domain/inventory"
	"github.com/jhoicas/materiales-obra-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo deriva el stock desde el ledger con una sola agregación agrupada (usable con pool o tx).
// No existe un contador almacenado: cada lectura recalcula baseline + Σin − Σout.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// stockSelect suma por dirección con LEFT JOIN para incluir materiales sin movimientos.
const stockSelect = `
	SELECT m.id, m.project_id, p.name, p.location, m.name, m.unit, m.initial_stock,
	       COALESCE(SUM(mv.quantity) FILTER (WHERE mv.type = 'in'), 0)  AS total_in,
	       COALESCE(SUM(mv.quantity) FILTER (WHERE mv.type = 'out'), 0) AS total_out
	FROM materials m
	JOIN projects p ON p.id = m.project_id
	LEFT JOIN movements mv ON mv.material_id = m.id`

const stockGroupBy = `
	GROUP BY m.id, m.project_id, p.name, p.location, m.name, m.unit, m.initial_stock`

// GetByMaterial deriva el stock de un material; (nil, nil) si no existe.
func (r *StockRepo) GetByMaterial(ctx context.Context, materialID int64) (*entity.Stock, error) {
	query := stockSelect + `
	WHERE m.id = $1` + stockGroupBy
	s, err := scanStock(r.q.QueryRow(ctx, query, materialID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get stock", err)
	}
	return s, nil
}

// List deriva el stock de todos los materiales, o de una sola obra.
func (r *StockRepo) List(ctx context.Context, projectID *int64) ([]*entity.Stock, error) {
	query := stockSelect + `
	WHERE ($1::bigint IS NULL OR m.project_id = $1)` + stockGroupBy + `
	ORDER BY p.name, m.name, m.id`
	rows, err := r.q.Query(ctx, query, projectID)
	if err != nil {
		return nil, wrapErr("list stock", err)
	}
	defer rows.Close()

	var list []*entity.Stock
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, wrapErr("scan stock", err)
		}
		list = append(list, s)
	}
	return list, wrapErr("list stock", rows.Err())
}

func scanStock(row pgx.Row) (*entity.Stock, error) {
	var (
		material         entity.Material
		projectName, loc string
		s                entity.Stock
	)
	err := row.Scan(
		&material.ID, &material.ProjectID, &projectName, &loc, &material.Name, &material.Unit,
		&material.InitialStock, &s.TotalIn, &s.TotalOut,
	)
	if err != nil {
		return nil, err
	}
	out := inventory.NewStock(&material, s.TotalIn, s.TotalOut)
	out.ProjectName = projectName
	out.ProjectLocation = loc
	return out, nil
}
