package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMovementRequest body para POST /api/movements.
// UserID es opcional en el body: si viene debe coincidir con el usuario autenticado.
type CreateMovementRequest struct {
	ProjectID  int64         `json:"projectId"`
	MaterialID int64         `json:"materialId"`
	UserID     string        `json:"userId,omitempty"`
	Type       string        `json:"type"`
	Quantity   NumericString `json:"quantity"`
	Unit       string        `json:"unit"`
	Notes      string        `json:"notes,omitempty"`
}

// MovementResponse movimiento comprometido en el ledger.
type MovementResponse struct {
	ID         int64           `json:"id"`
	ProjectID  int64           `json:"projectId"`
	MaterialID int64           `json:"materialId"`
	UserID     string          `json:"userId"`
	Type       string          `json:"type"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
	Notes      *string         `json:"notes"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// MovementItem fila del historial con nombres resueltos.
type MovementItem struct {
	MovementResponse
	Material        string `json:"material"`
	MaterialUnit    string `json:"materialUnit"`
	Project         string `json:"project"`
	ProjectLocation string `json:"projectLocation,omitempty"`
	UserName        string `json:"userName,omitempty"`
}

// MovementListQuery filtros de GET /api/movements.
type MovementListQuery struct {
	PageRequest
	Type       string `query:"type"`
	ProjectID  int64  `query:"projectId"`
	MaterialID int64  `query:"materialId"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items      []MovementItem `json:"items"`
	Pagination PageResponse   `json:"pagination"`
}
