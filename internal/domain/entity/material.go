package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material representa un ítem de inventario dentro de un proyecto.
// InitialStock es la línea base: se fija al crear y no cambia después.
type Material struct {
	ID           int64
	ProjectID    int64
	Name         string // único por proyecto (nombre recortado, sensible a mayúsculas)
	Unit         string
	InitialStock decimal.Decimal
	CreatedAt    time.Time
}

// MaterialUsage resume los movimientos que dependen de un material.
type MaterialUsage struct {
	MaterialID    int64
	MovementCount int64
	TotalIn       decimal.Decimal
	TotalOut      decimal.Decimal
	LastMovement  *Movement
}

// HasMovements indica si existen movimientos que bloquean la eliminación simple.
func (u *MaterialUsage) HasMovements() bool {
	return u != nil && u.MovementCount > 0
}
