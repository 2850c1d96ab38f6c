package inventory

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/materiales-obra-api/internal/domain"
	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
)

// StockCalculator deriva el stock de un material (servicio de dominio, sin estado).
// StockActual = Base + Entradas - Salidas; Capacidad = Base + Entradas
func StockCalculator(base, totalIn, totalOut decimal.Decimal) (current, capacity decimal.Decimal) {
	capacity = base.Add(totalIn)
	return capacity.Sub(totalOut), capacity
}

// Totals acumula entradas y salidas de una secuencia de movimientos.
func Totals(movements []*entity.Movement) (totalIn, totalOut decimal.Decimal) {
	totalIn, totalOut = decimal.Zero, decimal.Zero
	for _, m := range movements {
		switch m.Type {
		case entity.MovementTypeIN:
			totalIn = totalIn.Add(m.Quantity)
		case entity.MovementTypeOUT:
			totalOut = totalOut.Add(m.Quantity)
		}
	}
	return totalIn, totalOut
}

// NewStock arma la foto derivada de un material a partir de sus totales.
func NewStock(material *entity.Material, totalIn, totalOut decimal.Decimal) *entity.Stock {
	current, capacity := StockCalculator(material.InitialStock, totalIn, totalOut)
	return &entity.Stock{
		MaterialID:    material.ID,
		ProjectID:     material.ProjectID,
		Name:          material.Name,
		Unit:          material.Unit,
		InitialStock:  material.InitialStock,
		TotalIn:       totalIn,
		TotalOut:      totalOut,
		CurrentStock:  current,
		TotalCapacity: capacity,
	}
}

// CheckOutbound valida que una salida de requested quepa en current.
// Sin stock (current <= 0) y exceso parcial son el mismo tipo de error con mensajes distintos.
func CheckOutbound(materialID int64, current, requested decimal.Decimal) error {
	if current.LessThanOrEqual(decimal.Zero) {
		return &domain.InsufficientStockError{
			MaterialID: materialID,
			Available:  decimal.Zero,
			Requested:  requested,
			OutOfStock: true,
		}
	}
	if requested.GreaterThan(current) {
		return &domain.InsufficientStockError{
			MaterialID: materialID,
			Available:  current,
			Requested:  requested,
		}
	}
	return nil
}
