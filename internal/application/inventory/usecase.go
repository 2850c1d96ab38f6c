package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/materiales-obra-api/internal/domain"
	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
	"github.com/jhoicas/materiales-obra-api/internal/domain/inventory"
	"github.com/jhoicas/materiales-obra-api/internal/domain/repository"
	"github.com/jhoicas/materiales-obra-api/pkg/validator"
)

// AdmissionState estado de una solicitud de movimiento.
type AdmissionState string

// Received -> Validated -> (StockChecked si es salida) -> Committed | Rejected
const (
	StateReceived     AdmissionState = "received"
	StateValidated    AdmissionState = "validated"
	StateStockChecked AdmissionState = "stock_checked"
	StateCommitted    AdmissionState = "committed"
	StateRejected     AdmissionState = "rejected"
)

// OutcomeCommitted resultado de métrica para una admisión aceptada.
const OutcomeCommitted = "committed"

// RegisterMovementUseCase controlador de admisión: valida y registra movimientos en el ledger.
// Las salidas verifican stock y se insertan en la misma transacción, con la fila del
// material bloqueada (SELECT FOR UPDATE); materiales distintos nunca se bloquean entre sí.
type RegisterMovementUseCase struct {
	txRunner     TxRunner
	materialRepo repository.MaterialRepository
	userRepo     repository.UserRepository
	log          zerolog.Logger
	cache        StockCache
	events       EventPublisher
	metrics      AdmissionMetrics
	now          func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	materialRepo repository.MaterialRepository,
	userRepo repository.UserRepository,
	log zerolog.Logger,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:     txRunner,
		materialRepo: materialRepo,
		userRepo:     userRepo,
		log:          log.With().Str("component", "admission").Logger(),
		cache:        noopCache{},
		events:       noopPublisher{},
		metrics:      noopMetrics{},
		now:          time.Now,
	}
}

// WithCache invalida la cache de stock tras cada commit.
func (uc *RegisterMovementUseCase) WithCache(c StockCache) *RegisterMovementUseCase {
	if c != nil {
		uc.cache = c
	}
	return uc
}

// WithEvents publica cada movimiento comprometido.
func (uc *RegisterMovementUseCase) WithEvents(p EventPublisher) *RegisterMovementUseCase {
	if p != nil {
		uc.events = p
	}
	return uc
}

// WithMetrics registra el resultado de cada admisión.
func (uc *RegisterMovementUseCase) WithMetrics(m AdmissionMetrics) *RegisterMovementUseCase {
	if m != nil {
		uc.metrics = m
	}
	return uc
}

// MovementInput entrada para registrar un movimiento. UserID es el usuario que actúa,
// siempre explícito. Quantity llega como texto y se interpreta como decimal exacto.
type MovementInput struct {
	ProjectID  int64  `json:"projectId" validate:"required"`
	MaterialID int64  `json:"materialId" validate:"required"`
	UserID     string `json:"userId" validate:"notblank"`
	Type       string `json:"type" validate:"notblank"`
	Quantity   string `json:"quantity" validate:"notblank"`
	Unit       string `json:"unit" validate:"notblank"`
	Notes      string `json:"notes"`
}

// admission estado alcanzado por una solicitud; el rechazo lo registra en el log.
type admission struct {
	state    AdmissionState
	material *entity.Material
	stock    *entity.Stock
}

// RegisterMovement valida la solicitud (primer error gana), verifica stock para salidas
// y agrega el movimiento al ledger. Ante cualquier rechazo el ledger queda intacto.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*entity.Movement, error) {
	start := uc.now()
	adm := &admission{state: StateReceived}

	movement, err := uc.admit(ctx, adm, input)

	outcome := OutcomeCommitted
	reached := adm.state
	if err != nil {
		adm.state = StateRejected
		outcome = domain.KindOf(err)
	}
	uc.metrics.RecordAdmission(ctx, input.Type, outcome, uc.now().Sub(start))

	if err != nil {
		ev := uc.log.Warn()
		if outcome == domain.KindInternal {
			ev = uc.log.Error()
		}
		if adm.stock != nil {
			ev = ev.Str("current_stock", adm.stock.CurrentStock.String())
		}
		ev.Err(err).
			Str("kind", outcome).
			Str("rejected_after", string(reached)).
			Int64("material_id", input.MaterialID).
			Int64("project_id", input.ProjectID).
			Str("user_id", input.UserID).
			Str("type", input.Type).
			Str("quantity", input.Quantity).
			Msg("movimiento rechazado")
		return nil, err
	}

	adm.state = StateCommitted
	uc.log.Info().
		Int64("movement_id", movement.ID).
		Int64("material_id", movement.MaterialID).
		Str("type", movement.Type).
		Str("quantity", movement.Quantity.String()).
		Str("user_id", movement.UserID).
		Msg("movimiento registrado")

	if err := uc.cache.Invalidate(ctx, movement.ProjectID); err != nil {
		uc.log.Error().Err(err).Int64("project_id", movement.ProjectID).Msg("invalidar cache de stock")
	}
	uc.events.MovementCommitted(movement)
	return movement, nil
}

func (uc *RegisterMovementUseCase) admit(ctx context.Context, adm *admission, input MovementInput) (*entity.Movement, error) {
	quantity, err := validateShape(input)
	if err != nil {
		return nil, err
	}

	// Integridad referencial contra el catálogo.
	material, err := uc.materialRepo.GetByID(ctx, input.MaterialID)
	if err != nil {
		return nil, fmt.Errorf("consultar material: %w", err)
	}
	if material == nil || material.ProjectID != input.ProjectID {
		return nil, domain.NewReferentialError("material", input.MaterialID)
	}
	user, err := uc.userRepo.GetByID(ctx, strings.TrimSpace(input.UserID))
	if err != nil {
		return nil, fmt.Errorf("consultar usuario: %w", err)
	}
	if user == nil {
		return nil, domain.NewReferentialError("usuario", input.UserID)
	}
	adm.material = material
	adm.state = StateValidated

	unit := strings.TrimSpace(input.Unit)
	if unit != material.Unit {
		// La unidad se conserva tal como se registró; solo se deja constancia.
		uc.log.Warn().
			Int64("material_id", material.ID).
			Str("material_unit", material.Unit).
			Str("movement_unit", unit).
			Msg("unidad del movimiento distinta a la del material")
	}

	movement := &entity.Movement{
		ProjectID:  input.ProjectID,
		MaterialID: material.ID,
		UserID:     user.ID,
		Type:       input.Type,
		Quantity:   quantity,
		Unit:       unit,
		Notes:      trimmedOrNil(input.Notes),
	}

	err = uc.txRunner.Run(ctx, func(tx repository.Set) error {
		if movement.Type == entity.MovementTypeOUT {
			if err := uc.checkStock(ctx, tx, adm, quantity); err != nil {
				return err
			}
		}
		return tx.Movements.Create(ctx, movement)
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// checkStock bloquea el material y re-deriva su stock dentro de la transacción.
func (uc *RegisterMovementUseCase) checkStock(ctx context.Context, tx repository.Set, adm *admission, requested decimal.Decimal) error {
	locked, err := tx.Materials.GetForUpdate(ctx, adm.material.ID)
	if err != nil {
		return fmt.Errorf("bloquear material: %w", err)
	}
	if locked == nil {
		return fmt.Errorf("material %d eliminado durante la admisión: %w", adm.material.ID, domain.ErrIntegrity)
	}
	stock, err := tx.Stock.GetByMaterial(ctx, locked.ID)
	if err != nil {
		return fmt.Errorf("derivar stock: %w", err)
	}
	if stock == nil {
		return fmt.Errorf("material %d sin stock derivable: %w", locked.ID, domain.ErrIntegrity)
	}
	adm.stock = stock
	adm.state = StateStockChecked
	return inventory.CheckOutbound(locked.ID, stock.CurrentStock, requested)
}

// validateShape aplica los pasos 1-3: campos requeridos, tipo y cantidad positiva.
func validateShape(input MovementInput) (decimal.Decimal, error) {
	if fe := validator.First(input); fe != nil {
		return decimal.Zero, domain.NewValidationError(fe.Field, "es requerido")
	}
	if !entity.IsValidMovementType(input.Type) {
		return decimal.Zero, domain.NewValidationError("type", `debe ser "in" u "out"`)
	}
	quantity, err := decimal.NewFromString(strings.TrimSpace(input.Quantity))
	if err != nil {
		return decimal.Zero, domain.NewValidationError("quantity", "debe ser un número")
	}
	if !quantity.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	return quantity, nil
}

func trimmedOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
