package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMaterialRequest body para POST /api/materials.
type CreateMaterialRequest struct {
	ProjectID    int64         `json:"projectId" validate:"required"`
	Name         string        `json:"name" validate:"required,max=200"`
	Unit         string        `json:"unit" validate:"required,max=50"`
	InitialStock NumericString `json:"initialStock,omitempty"`
}

// MaterialResponse salida de un material.
type MaterialResponse struct {
	ID           int64           `json:"id"`
	ProjectID    int64           `json:"projectId"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	InitialStock decimal.Decimal `json:"initialStock"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// RemoveMaterialResponse resultado de DELETE /api/materials/:id.
type RemoveMaterialResponse struct {
	Message               string `json:"message"`
	DeletedID             int64  `json:"deletedId"`
	DeletedWithMovements  bool   `json:"deletedWithTransactions"`
	DeletedMovementsCount int64  `json:"deletedMovements"`
}

// LastMovementDTO último movimiento de un material.
type LastMovementDTO struct {
	Date     time.Time       `json:"date"`
	Type     string          `json:"type"`
	Quantity decimal.Decimal `json:"quantity"`
}

// MaterialUsageResponse estadísticas de movimientos de un material.
type MaterialUsageResponse struct {
	MaterialID       int64            `json:"materialId"`
	TransactionCount int64            `json:"transactionCount"`
	TotalIn          decimal.Decimal  `json:"totalIn"`
	TotalOut         decimal.Decimal  `json:"totalOut"`
	LastTransaction  *LastMovementDTO `json:"lastTransaction"`
}
