package repository

import (
	"context"

	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
)

// ProjectRepository puerto de persistencia para proyectos (catálogo mínimo).
type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	GetByID(ctx context.Context, id int64) (*entity.Project, error)
	List(ctx context.Context) ([]*entity.Project, error)
}
