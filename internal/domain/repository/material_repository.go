package repository

import (
	"context"

	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
)

// MaterialRepository puerto de persistencia para materiales.
// Los Get devuelven (nil, nil) cuando el registro no existe.
type MaterialRepository interface {
	Create(ctx context.Context, material *entity.Material) error
	GetByID(ctx context.Context, id int64) (*entity.Material, error)
	// GetForUpdate bloquea la fila del material hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Material, error)
	GetByProjectAndName(ctx context.Context, projectID int64, name string) (*entity.Material, error)
	List(ctx context.Context, projectID *int64) ([]*entity.Material, error)
	Delete(ctx context.Context, id int64) error
}
