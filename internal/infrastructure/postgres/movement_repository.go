package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
	"github.com/jhoicas/materiales-obra-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo ledger de movimientos sobre PostgreSQL (usable con pool o tx). Solo inserta;
// el único borrado es la cascada de una eliminación forzada de material.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// insertMovementSQL fija created_at con clock_timestamp(): una salida que esperó el
// bloqueo del material queda después de la transacción que la hizo esperar.
const insertMovementSQL = `
	INSERT INTO movements (project_id, material_id, user_id, type, quantity, unit, notes, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, clock_timestamp())
	RETURNING id, created_at`

// Create inserta el movimiento; ID y CreatedAt los asigna la base.
// Una FK que falla porque el material se borró en paralelo se traduce a ErrIntegrity.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	err := r.q.QueryRow(ctx, insertMovementSQL,
		m.ProjectID, m.MaterialID, m.UserID, m.Type, m.Quantity, m.Unit, m.Notes,
	).Scan(&m.ID, &m.CreatedAt)
	return wrapErr("insert movement", err)
}

// List devuelve una página del historial con nombres resueltos.
func (r *MovementRepo) List(ctx context.Context, filter entity.MovementFilter, limit, offset int) ([]*entity.MovementDetail, error) {
	query, args := buildMovementListQuery(filter, limit, offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list movements", err)
	}
	defer rows.Close()

	var list []*entity.MovementDetail
	for rows.Next() {
		var d entity.MovementDetail
		if err := rows.Scan(
			&d.ID, &d.ProjectID, &d.MaterialID, &d.UserID, &d.Type, &d.Quantity, &d.Unit, &d.Notes, &d.CreatedAt,
			&d.MaterialName, &d.MaterialUnit, &d.ProjectName, &d.ProjectLocation, &d.UserName,
		); err != nil {
			return nil, wrapErr("scan movement", err)
		}
		list = append(list, &d)
	}
	return list, wrapErr("list movements", rows.Err())
}

// buildMovementListQuery arma el SELECT con los filtros presentes, en orden
// created_at DESC, id DESC, con LIMIT/OFFSET al final.
func buildMovementListQuery(f entity.MovementFilter, limit, offset int) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Type != "" {
		add("mv.type = $%d", f.Type)
	}
	if f.ProjectID != nil {
		add("mv.project_id = $%d", *f.ProjectID)
	}
	if f.MaterialID != nil {
		add("mv.material_id = $%d", *f.MaterialID)
	}
	if f.UserID != "" {
		add("mv.user_id = $%d", f.UserID)
	}
	if f.From != nil {
		add("mv.created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("mv.created_at < $%d", *f.To)
	}

	var b strings.Builder
	b.WriteString(`SELECT mv.id, mv.project_id, mv.material_id, mv.user_id, mv.type, mv.quantity, mv.unit, mv.notes, mv.created_at,
	m.name, m.unit, p.name, p.location, COALESCE(u.name, '')
FROM movements mv
JOIN materials m ON m.id = mv.material_id
JOIN projects p ON p.id = mv.project_id
LEFT JOIN users u ON u.id = mv.user_id`)
	if len(where) > 0 {
		b.WriteString("\nWHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	args = append(args, limit, offset)
	fmt.Fprintf(&b, "\nORDER BY mv.created_at DESC, mv.id DESC\nLIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return b.String(), args
}

// DeleteByMaterial borra todos los movimientos del material; devuelve cuántos.
func (r *MovementRepo) DeleteByMaterial(ctx context.Context, materialID int64) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM movements WHERE material_id = $1`, materialID)
	if err != nil {
		return 0, wrapErr("delete movements", err)
	}
	return cmd.RowsAffected(), nil
}

// UsageByMaterial cuenta movimientos, totales por dirección y el último movimiento.
func (r *MovementRepo) UsageByMaterial(ctx context.Context, materialID int64) (*entity.MaterialUsage, error) {
	u := &entity.MaterialUsage{MaterialID: materialID}
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(quantity) FILTER (WHERE type = 'in'), 0),
		       COALESCE(SUM(quantity) FILTER (WHERE type = 'out'), 0)
		FROM movements WHERE material_id = $1`
	if err := r.q.QueryRow(ctx, query, materialID).Scan(&u.MovementCount, &u.TotalIn, &u.TotalOut); err != nil {
		return nil, wrapErr("material usage", err)
	}
	if u.MovementCount == 0 {
		return u, nil
	}

	var last entity.Movement
	err := r.q.QueryRow(ctx, `
		SELECT id, project_id, material_id, user_id, type, quantity, unit, notes, created_at
		FROM movements WHERE material_id = $1
		ORDER BY created_at DESC, id DESC LIMIT 1`, materialID,
	).Scan(&last.ID, &last.ProjectID, &last.MaterialID, &last.UserID, &last.Type, &last.Quantity, &last.Unit, &last.Notes, &last.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return u, nil
		}
		return nil, wrapErr("last movement", err)
	}
	u.LastMovement = &last
	return u, nil
}

// ActivityByUser resume los movimientos del usuario en [from, to) y su total histórico.
func (r *MovementRepo) ActivityByUser(ctx context.Context, userID string, from, to time.Time) (*entity.UserActivity, error) {
	a := &entity.UserActivity{UserID: userID, From: from, To: to}
	query := `
		SELECT COUNT(*) FILTER (WHERE type = 'in'  AND created_at >= $2 AND created_at < $3),
		       COUNT(*) FILTER (WHERE type = 'out' AND created_at >= $2 AND created_at < $3),
		       COUNT(DISTINCT project_id) FILTER (WHERE created_at >= $2 AND created_at < $3),
		       COUNT(*)
		FROM movements WHERE user_id = $1`
	err := r.q.QueryRow(ctx, query, userID, from, to).Scan(
		&a.MaterialIn, &a.MaterialOut, &a.ActiveProjects, &a.TotalMovements,
	)
	if err != nil {
		return nil, wrapErr("user activity", err)
	}
	return a, nil
}
