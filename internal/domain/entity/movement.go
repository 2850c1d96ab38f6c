package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger.
const (
	MovementTypeIN  = "in"  // entrada de material a obra
	MovementTypeOUT = "out" // salida / consumo
)

// IsValidMovementType indica si t es exactamente "in" u "out".
func IsValidMovementType(t string) bool {
	return t == MovementTypeIN || t == MovementTypeOUT
}

// Movement es un evento inmutable de entrada o salida de material.
// Unit se copia de la solicitud al insertar; no se vuelve a validar contra el Material.
type Movement struct {
	ID         int64
	ProjectID  int64
	MaterialID int64
	UserID     string
	Type       string
	Quantity   decimal.Decimal // siempre > 0; la dirección la da Type
	Unit       string
	Notes      *string
	CreatedAt  time.Time
}

// Signed devuelve la cantidad con signo según la dirección.
func (m *Movement) Signed() decimal.Decimal {
	if m.Type == MovementTypeOUT {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// MovementDetail movimiento enriquecido con nombres para listados.
type MovementDetail struct {
	Movement
	MaterialName    string
	MaterialUnit    string
	ProjectName     string
	ProjectLocation string
	UserName        string
}

// MovementFilter filtros opcionales del listado de movimientos.
type MovementFilter struct {
	Type       string
	ProjectID  *int64
	MaterialID *int64
	UserID     string
	From       *time.Time
	To         *time.Time
}

// UserActivity resumen mensual de movimientos registrados por un usuario.
type UserActivity struct {
	UserID         string
	From           time.Time
	To             time.Time
	MaterialIn     int64
	MaterialOut    int64
	ActiveProjects int64
	TotalMovements int64
}
