package repository

import (
	"context"
	"time"

	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
)

// MovementRepository puerto de persistencia del ledger de movimientos (solo inserción).
type MovementRepository interface {
	// Create inserta el movimiento y completa ID y CreatedAt asignados por el almacenamiento.
	Create(ctx context.Context, movement *entity.Movement) error
	// List devuelve movimientos del más reciente al más antiguo (desempate por ID descendente).
	List(ctx context.Context, filter entity.MovementFilter, limit, offset int) ([]*entity.MovementDetail, error)
	// DeleteByMaterial borra en cascada todos los movimientos de un material. Solo para eliminación forzada.
	DeleteByMaterial(ctx context.Context, materialID int64) (int64, error)
	// UsageByMaterial cuenta movimientos y totales por dirección de un material.
	UsageByMaterial(ctx context.Context, materialID int64) (*entity.MaterialUsage, error)
	// ActivityByUser resume los movimientos de un usuario en [from, to).
	ActivityByUser(ctx context.Context, userID string, from, to time.Time) (*entity.UserActivity, error)
}
