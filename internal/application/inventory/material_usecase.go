package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/materiales-obra-api/internal/application/dto"
	"github.com/jhoicas/materiales-obra-api/internal/domain"
	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
	"github.com/jhoicas/materiales-obra-api/internal/domain/repository"
	"github.com/jhoicas/materiales-obra-api/pkg/validator"
)

// MaterialUseCase alta, listado, uso y eliminación protegida de materiales.
type MaterialUseCase struct {
	txRunner     TxRunner
	projectRepo  repository.ProjectRepository
	materialRepo repository.MaterialRepository
	movementRepo repository.MovementRepository
	log          zerolog.Logger
	cache        StockCache
	events       EventPublisher
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(
	txRunner TxRunner,
	projectRepo repository.ProjectRepository,
	materialRepo repository.MaterialRepository,
	movementRepo repository.MovementRepository,
	log zerolog.Logger,
) *MaterialUseCase {
	return &MaterialUseCase{
		txRunner:     txRunner,
		projectRepo:  projectRepo,
		materialRepo: materialRepo,
		movementRepo: movementRepo,
		log:          log.With().Str("component", "materials").Logger(),
		cache:        noopCache{},
		events:       noopPublisher{},
	}
}

// WithCache invalida la cache de stock al crear o eliminar materiales.
func (uc *MaterialUseCase) WithCache(c StockCache) *MaterialUseCase {
	if c != nil {
		uc.cache = c
	}
	return uc
}

// WithEvents publica las eliminaciones de materiales.
func (uc *MaterialUseCase) WithEvents(p EventPublisher) *MaterialUseCase {
	if p != nil {
		uc.events = p
	}
	return uc
}

// Create registra un material nuevo. El nombre se recorta y debe ser único dentro del proyecto
// (comparación exacta, sensible a mayúsculas). La línea base es >= 0 y por defecto 0.
func (uc *MaterialUseCase) Create(ctx context.Context, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Unit = strings.TrimSpace(in.Unit)
	if fe := validator.First(in); fe != nil {
		return nil, domain.NewValidationError(fe.Field, "valor inválido ("+fe.Tag+")")
	}
	initial := decimal.Zero
	if raw := strings.TrimSpace(string(in.InitialStock)); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, domain.NewValidationError("initialStock", "debe ser un número")
		}
		if v.IsNegative() {
			return nil, domain.NewValidationError("initialStock", "no puede ser negativo")
		}
		initial = v
	}

	project, err := uc.projectRepo.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("consultar proyecto: %w", err)
	}
	if project == nil {
		return nil, domain.NewReferentialError("proyecto", in.ProjectID)
	}
	existing, err := uc.materialRepo.GetByProjectAndName(ctx, in.ProjectID, in.Name)
	if err != nil {
		return nil, fmt.Errorf("consultar material: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("material %q ya existe en el proyecto: %w", in.Name, domain.ErrDuplicate)
	}

	material := &entity.Material{
		ProjectID:    in.ProjectID,
		Name:         in.Name,
		Unit:         in.Unit,
		InitialStock: initial,
	}
	// El índice único (project_id, name) cierra la carrera entre la consulta y el insert.
	if err := uc.materialRepo.Create(ctx, material); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("material_id", material.ID).Int64("project_id", material.ProjectID).
		Str("name", material.Name).Msg("material creado")
	if err := uc.cache.Invalidate(ctx, material.ProjectID); err != nil {
		uc.log.Error().Err(err).Int64("project_id", material.ProjectID).Msg("invalidar cache de stock")
	}
	return ToMaterialResponse(material), nil
}

// List lista materiales, opcionalmente de un proyecto.
func (uc *MaterialUseCase) List(ctx context.Context, projectID *int64) ([]dto.MaterialResponse, error) {
	list, err := uc.materialRepo.List(ctx, projectID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *ToMaterialResponse(m))
	}
	return items, nil
}

// Usage devuelve cantidad de movimientos, totales por dirección y el último movimiento.
func (uc *MaterialUseCase) Usage(ctx context.Context, materialID int64) (*dto.MaterialUsageResponse, error) {
	material, err := uc.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("consultar material: %w", err)
	}
	if material == nil {
		return nil, domain.NewReferentialError("material", materialID)
	}
	usage, err := uc.movementRepo.UsageByMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}
	out := &dto.MaterialUsageResponse{
		MaterialID:       materialID,
		TransactionCount: usage.MovementCount,
		TotalIn:          usage.TotalIn,
		TotalOut:         usage.TotalOut,
	}
	if last := usage.LastMovement; last != nil {
		out.LastTransaction = &dto.LastMovementDTO{Date: last.CreatedAt, Type: last.Type, Quantity: last.Quantity}
	}
	return out, nil
}

// RemovalResult resultado de una eliminación de material.
type RemovalResult struct {
	Material         *entity.Material
	MovementsDeleted int64
}

// Remove elimina un material. Sin movimientos se borra directamente; con movimientos y sin force
// devuelve *domain.HasDependentsError; con force borra movimientos y material en una sola transacción.
func (uc *MaterialUseCase) Remove(ctx context.Context, materialID int64, force bool) (*RemovalResult, error) {
	var result RemovalResult
	err := uc.txRunner.Run(ctx, func(tx repository.Set) error {
		material, err := tx.Materials.GetForUpdate(ctx, materialID)
		if err != nil {
			return fmt.Errorf("bloquear material: %w", err)
		}
		if material == nil {
			return domain.NewReferentialError("material", materialID)
		}
		usage, err := tx.Movements.UsageByMaterial(ctx, materialID)
		if err != nil {
			return err
		}
		if usage.HasMovements() {
			if !force {
				return &domain.HasDependentsError{
					MaterialID:    materialID,
					MovementCount: usage.MovementCount,
					TotalIn:       usage.TotalIn,
					TotalOut:      usage.TotalOut,
				}
			}
			deleted, err := tx.Movements.DeleteByMaterial(ctx, materialID)
			if err != nil {
				return err
			}
			result.MovementsDeleted = deleted
		}
		if err := tx.Materials.Delete(ctx, materialID); err != nil {
			return err
		}
		result.Material = material
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Int64("material_id", materialID).Bool("force", force).
			Str("kind", domain.KindOf(err)).Msg("eliminación de material rechazada")
		return nil, err
	}

	uc.log.Info().Int64("material_id", materialID).Int64("movements_deleted", result.MovementsDeleted).
		Bool("force", force).Msg("material eliminado")
	if err := uc.cache.Invalidate(ctx, result.Material.ProjectID); err != nil {
		uc.log.Error().Err(err).Int64("project_id", result.Material.ProjectID).Msg("invalidar cache de stock")
	}
	uc.events.MaterialRemoved(result.Material, result.MovementsDeleted)
	return &result, nil
}

// ToMaterialResponse convierte un material a su DTO.
func ToMaterialResponse(m *entity.Material) *dto.MaterialResponse {
	if m == nil {
		return nil
	}
	return &dto.MaterialResponse{
		ID:           m.ID,
		ProjectID:    m.ProjectID,
		Name:         m.Name,
		Unit:         m.Unit,
		InitialStock: m.InitialStock,
		CreatedAt:    m.CreatedAt,
	}
}
