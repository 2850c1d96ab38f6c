package postgres

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/materiales-obra-api/internal/domain"
	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
)

func TestInsertMovementSQL_TimestampDeReloj(t *testing.T) {
	assert.Contains(t, insertMovementSQL, "clock_timestamp()")
	assert.NotContains(t, insertMovementSQL, "now()")
	assert.Contains(t, insertMovementSQL, "RETURNING id, created_at")
}

func TestMigracion_DefaultDeCreatedAtEnMovimientos(t *testing.T) {
	script, err := migrationsFS.ReadFile("migrations/001_schema.sql")
	assert.NoError(t, err)
	assert.Contains(t, string(script), "ALTER TABLE movements ALTER COLUMN created_at SET DEFAULT clock_timestamp()")
}

func TestBuildMovementListQuery_SinFiltros(t *testing.T) {
	query, args := buildMovementListQuery(entity.MovementFilter{}, 20, 40)

	assert.NotContains(t, query, "WHERE")
	assert.True(t, strings.HasSuffix(query, "ORDER BY mv.created_at DESC, mv.id DESC\nLIMIT $1 OFFSET $2"), query)
	assert.Equal(t, []any{20, 40}, args)
}

func TestBuildMovementListQuery_TodosLosFiltros(t *testing.T) {
	project, material := int64(3), int64(9)
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	query, args := buildMovementListQuery(entity.MovementFilter{
		Type:       entity.MovementTypeOUT,
		ProjectID:  &project,
		MaterialID: &material,
		UserID:     "u-1",
		From:       &from,
		To:         &to,
	}, 10, 0)

	assert.Contains(t, query, "WHERE mv.type = $1 AND mv.project_id = $2 AND mv.material_id = $3 AND mv.user_id = $4 AND mv.created_at >= $5 AND mv.created_at < $6")
	assert.Contains(t, query, "LIMIT $7 OFFSET $8")
	assert.Equal(t, []any{entity.MovementTypeOUT, project, material, "u-1", from, to, 10, 0}, args)
}

func TestBuildMovementListQuery_FiltroParcialNumeraSeguido(t *testing.T) {
	material := int64(9)
	query, args := buildMovementListQuery(entity.MovementFilter{MaterialID: &material}, 5, 5)

	assert.Contains(t, query, "WHERE mv.material_id = $1\n")
	assert.Contains(t, query, "LIMIT $2 OFFSET $3")
	assert.Len(t, args, 3)
}

func TestWrapErr(t *testing.T) {
	assert.NoError(t, wrapErr("op", nil))

	cases := []struct {
		code string
		want error
	}{
		{codeUniqueViolation, domain.ErrDuplicate},
		{codeForeignKeyViolation, domain.ErrIntegrity},
		{codeCheckViolation, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		err := wrapErr("insert material", fmt.Errorf("exec: %w", &pgconn.PgError{Code: tc.code}))
		assert.ErrorIs(t, err, tc.want, tc.code)
		assert.True(t, strings.HasPrefix(err.Error(), "insert material: "))
	}

	other := errors.New("conexión perdida")
	err := wrapErr("list", other)
	assert.ErrorIs(t, err, other)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))

	assert.ErrorIs(t, wrapErr("get", pgx.ErrNoRows), pgx.ErrNoRows)
}
