package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleOperator   = "operator"
)

// User representa un usuario que registra movimientos (operador de campo o supervisor).
// El ledger solo consulta su existencia.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano
	Role         string // admin, supervisor, operator
	CreatedAt    time.Time
}
