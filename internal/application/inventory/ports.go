package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
	"github.com/jhoicas/materiales-obra-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil; Rollback en cualquier otro caso. Nunca reintenta.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Set) error) error
}

// StockCache cache de lectura para fotos de stock. El ledger sigue siendo la fuente de verdad:
// la admisión nunca consulta la cache.
type StockCache interface {
	// Load devuelve la foto cacheada del alcance (proyecto o todos si projectID es nil)
	// o la calcula con compute y la guarda.
	Load(ctx context.Context, projectID *int64, compute func(ctx context.Context) ([]*entity.Stock, error)) ([]*entity.Stock, error)
	// Invalidate descarta las fotos que incluyen al proyecto.
	Invalidate(ctx context.Context, projectID int64) error
}

// EventPublisher notifica cambios comprometidos del ledger (feed en tiempo real).
type EventPublisher interface {
	MovementCommitted(movement *entity.Movement)
	MaterialRemoved(material *entity.Material, movementsDeleted int64)
}

// AdmissionMetrics registra el resultado de cada solicitud de admisión.
// outcome es "committed" o el tipo de error del dominio.
type AdmissionMetrics interface {
	RecordAdmission(ctx context.Context, movementType, outcome string, elapsed time.Duration)
}

type noopCache struct{}

func (noopCache) Load(ctx context.Context, _ *int64, compute func(ctx context.Context) ([]*entity.Stock, error)) ([]*entity.Stock, error) {
	return compute(ctx)
}

func (noopCache) Invalidate(context.Context, int64) error { return nil }

type noopPublisher struct{}

func (noopPublisher) MovementCommitted(*entity.Movement)      {}
func (noopPublisher) MaterialRemoved(*entity.Material, int64) {}

type noopMetrics struct{}

func (noopMetrics) RecordAdmission(context.Context, string, string, time.Duration) {}
