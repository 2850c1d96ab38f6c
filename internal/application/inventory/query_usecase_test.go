package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/materiales-obra-api/internal/application/dto"
	"github.com/jhoicas/materiales-obra-api/internal/application/inventory"
	"github.com/jhoicas/materiales-obra-api/internal/domain"
	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
)

func TestListMovements_OrdenYPaginacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.material(t, "Cemento", "0")
	for i := 0; i < 5; i++ {
		f.mustMove(t, m, entity.MovementTypeIN, "1")
	}

	first, err := f.query.ListMovements(ctx, dto.MovementListQuery{PageRequest: dto.PageRequest{Page: 1, Limit: 2}})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	assert.True(t, first.Pagination.HasMore)
	assert.Greater(t, first.Items[0].ID, first.Items[1].ID, "más reciente primero")
	assert.Equal(t, "Cemento", first.Items[0].Material)
	assert.Equal(t, "Torre Norte", first.Items[0].Project)
	assert.Equal(t, "Operador", first.Items[0].UserName)

	last, err := f.query.ListMovements(ctx, dto.MovementListQuery{PageRequest: dto.PageRequest{Page: 3, Limit: 2}})
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.False(t, last.Pagination.HasMore)
}

func TestListMovements_HasMoreEnElBordeExacto(t *testing.T) {
	f := newFixture(t)
	m := f.material(t, "Cemento", "0")
	for i := 0; i < 4; i++ {
		f.mustMove(t, m, entity.MovementTypeIN, "1")
	}

	page, err := f.query.ListMovements(context.Background(), dto.MovementListQuery{PageRequest: dto.PageRequest{Page: 2, Limit: 2}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.Pagination.HasMore, "página llena se informa como hasMore aunque no haya más filas")
}

func TestListMovements_PaginaFueraDeRango(t *testing.T) {
	f := newFixture(t)
	m := f.material(t, "Cemento", "0")
	f.mustMove(t, m, entity.MovementTypeIN, "1")

	_, err := f.query.ListMovements(context.Background(), dto.MovementListQuery{
		PageRequest: dto.PageRequest{Page: 461168601842738792, Limit: 20},
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "page", ve.Field)
}

func TestListMovements_FiltrosYDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.material(t, "Cemento", "0")
	b := f.material(t, "Arena", "0")
	f.mustMove(t, a, entity.MovementTypeIN, "5")
	f.mustMove(t, a, entity.MovementTypeOUT, "1")
	f.mustMove(t, b, entity.MovementTypeIN, "2")

	outs, err := f.query.ListMovements(ctx, dto.MovementListQuery{Type: entity.MovementTypeOUT})
	require.NoError(t, err)
	require.Len(t, outs.Items, 1)
	assert.Equal(t, dto.DefaultPage, outs.Pagination.Page)
	assert.Equal(t, dto.DefaultLimit, outs.Pagination.Limit)

	byMaterial, err := f.query.ListMovements(ctx, dto.MovementListQuery{MaterialID: b.ID})
	require.NoError(t, err)
	require.Len(t, byMaterial.Items, 1)
	assert.Equal(t, b.ID, byMaterial.Items[0].MaterialID)

	_, err = f.query.ListMovements(ctx, dto.MovementListQuery{Type: "transfer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetStockYListStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.query.WithCache(f.cache)
	m := f.material(t, "Cemento", "100")
	f.mustMove(t, m, entity.MovementTypeIN, "50")
	f.mustMove(t, m, entity.MovementTypeOUT, "30")

	one, err := f.query.GetStock(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, one.CurrentStock.Equal(dec("120")))
	assert.True(t, one.TotalCapacity.Equal(dec("150")))
	assert.Equal(t, "Torre Norte", one.ProjectName)

	list, err := f.query.ListStock(ctx, &f.project.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, m.ID, list[0].ID)
	assert.Equal(t, 1, f.cache.loads)

	_, err = f.query.GetStock(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserActivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.material(t, "Cemento", "0")
	f.mustMove(t, m, entity.MovementTypeIN, "5")
	f.mustMove(t, m, entity.MovementTypeOUT, "1")
	f.mustMove(t, m, entity.MovementTypeOUT, "1")

	act, err := f.query.UserActivity(ctx, operatorID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, act.CurrentMonth.MaterialIn)
	assert.EqualValues(t, 2, act.CurrentMonth.MaterialOut)
	assert.EqualValues(t, 1, act.CurrentMonth.ActiveProjects)
	assert.EqualValues(t, 3, act.TotalTransactions)

	_, err = f.query.UserActivity(ctx, "nadie")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMonthRange(t *testing.T) {
	loc := time.FixedZone("COT", -5*3600)
	from, to := inventory.MonthRange(time.Date(2026, time.December, 31, 22, 0, 0, 0, loc))
	// 22:00 en UTC-5 ya es enero en UTC.
	assert.Equal(t, time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2027, time.February, 1, 0, 0, 0, 0, time.UTC), to)
}
