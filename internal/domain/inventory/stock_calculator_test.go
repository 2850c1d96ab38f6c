package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/materiales-obra-api/internal/domain"
	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
	"github.com/jhoicas/materiales-obra-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestStockCalculator(t *testing.T) {
	current, capacity := inventory.StockCalculator(d("100"), d("50"), d("30"))
	assert.True(t, current.Equal(d("120")), current.String())
	assert.True(t, capacity.Equal(d("150")), capacity.String())
}

func TestStockCalculator_Decimales(t *testing.T) {
	current, _ := inventory.StockCalculator(d("0.1"), d("0.2"), d("0.3"))
	assert.True(t, current.IsZero(), "aritmética decimal exacta: %s", current)
}

func TestTotals(t *testing.T) {
	movements := []*entity.Movement{
		{Type: entity.MovementTypeIN, Quantity: d("10")},
		{Type: entity.MovementTypeOUT, Quantity: d("2.5")},
		{Type: entity.MovementTypeIN, Quantity: d("5")},
		{Type: "otro", Quantity: d("99")},
	}
	in, out := inventory.Totals(movements)
	assert.True(t, in.Equal(d("15")))
	assert.True(t, out.Equal(d("2.5")))

	in, out = inventory.Totals(nil)
	assert.True(t, in.IsZero())
	assert.True(t, out.IsZero())
}

func TestNewStock(t *testing.T) {
	m := &entity.Material{ID: 3, ProjectID: 1, Name: "Cemento", Unit: "saco", InitialStock: d("10")}
	s := inventory.NewStock(m, d("5"), d("12"))
	assert.Equal(t, int64(3), s.MaterialID)
	assert.Equal(t, "Cemento", s.Name)
	assert.True(t, s.CurrentStock.Equal(d("3")))
	assert.True(t, s.TotalCapacity.Equal(d("15")))
}

// ──────────────────────────────────────────────────────────────────────────────
// CheckOutbound
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckOutbound_Cabe(t *testing.T) {
	assert.NoError(t, inventory.CheckOutbound(1, d("10"), d("10")))
	assert.NoError(t, inventory.CheckOutbound(1, d("10"), d("0.001")))
}

func TestCheckOutbound_Excede(t *testing.T) {
	err := inventory.CheckOutbound(1, d("10"), d("10.5"))
	var serr *domain.InsufficientStockError
	require.True(t, errors.As(err, &serr))
	assert.False(t, serr.OutOfStock)
	assert.True(t, serr.Available.Equal(d("10")))
	assert.True(t, serr.Requested.Equal(d("10.5")))
}

func TestCheckOutbound_SinStock(t *testing.T) {
	for _, current := range []string{"0", "-3"} {
		err := inventory.CheckOutbound(1, d(current), d("1"))
		var serr *domain.InsufficientStockError
		require.True(t, errors.As(err, &serr), current)
		assert.True(t, serr.OutOfStock)
		assert.True(t, serr.Available.IsZero())
	}
}
