package repository

import (
	"context"

	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
)

// StockRepository puerto de lectura del stock derivado (agregación agrupada sobre el ledger).
type StockRepository interface {
	// GetByMaterial devuelve (nil, nil) si el material no existe.
	GetByMaterial(ctx context.Context, materialID int64) (*entity.Stock, error)
	// List calcula el stock de todos los materiales, opcionalmente de un solo proyecto.
	List(ctx context.Context, projectID *int64) ([]*entity.Stock, error)
}
