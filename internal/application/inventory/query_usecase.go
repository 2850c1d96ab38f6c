package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/materiales-obra-api/internal/application/dto"
	"github.com/jhoicas/materiales-obra-api/internal/domain"
	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
	"github.com/jhoicas/materiales-obra-api/internal/domain/repository"
)

// QueryUseCase superficie de consulta: historial de movimientos, stock derivado y actividad.
// Las lecturas no toman bloqueos.
type QueryUseCase struct {
	movementRepo repository.MovementRepository
	stockRepo    repository.StockRepository
	userRepo     repository.UserRepository
	cache        StockCache
	now          func() time.Time
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(
	movementRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	userRepo repository.UserRepository,
) *QueryUseCase {
	return &QueryUseCase{
		movementRepo: movementRepo,
		stockRepo:    stockRepo,
		userRepo:     userRepo,
		cache:        noopCache{},
		now:          time.Now,
	}
}

// WithCache usa la cache para las fotos de stock en lote.
func (uc *QueryUseCase) WithCache(c StockCache) *QueryUseCase {
	if c != nil {
		uc.cache = c
	}
	return uc
}

// ListMovements devuelve una página del historial, del más reciente al más antiguo.
// HasMore es true cuando la página vino llena; puede dar un falso positivo en el borde exacto.
func (uc *QueryUseCase) ListMovements(ctx context.Context, q dto.MovementListQuery) (*dto.MovementListResponse, error) {
	q.Normalize()
	if q.OffsetOverflows() {
		return nil, domain.NewValidationError("page", "fuera de rango")
	}
	if q.Type != "" && !entity.IsValidMovementType(q.Type) {
		return nil, domain.NewValidationError("type", `debe ser "in" u "out"`)
	}
	filter := entity.MovementFilter{Type: q.Type}
	if q.ProjectID > 0 {
		id := q.ProjectID
		filter.ProjectID = &id
	}
	if q.MaterialID > 0 {
		id := q.MaterialID
		filter.MaterialID = &id
	}

	rows, err := uc.movementRepo.List(ctx, filter, q.Limit, q.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.MovementItem{
			MovementResponse: *ToMovementResponse(&r.Movement),
			Material:         r.MaterialName,
			MaterialUnit:     r.MaterialUnit,
			Project:          r.ProjectName,
			ProjectLocation:  r.ProjectLocation,
			UserName:         r.UserName,
		})
	}
	return &dto.MovementListResponse{
		Items: items,
		Pagination: dto.PageResponse{
			Page:    q.Page,
			Limit:   q.Limit,
			HasMore: len(rows) == q.Limit,
		},
	}, nil
}

// GetStock deriva el stock de un material directamente del ledger (sin cache).
func (uc *QueryUseCase) GetStock(ctx context.Context, materialID int64) (*dto.StockResponse, error) {
	stock, err := uc.stockRepo.GetByMaterial(ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("derivar stock: %w", err)
	}
	if stock == nil {
		return nil, domain.NewReferentialError("material", materialID)
	}
	return ToStockResponse(stock), nil
}

// ListStock devuelve las fotos de stock de un proyecto, o de todos si projectID es nil.
func (uc *QueryUseCase) ListStock(ctx context.Context, projectID *int64) ([]dto.StockResponse, error) {
	list, err := uc.cache.Load(ctx, projectID, func(ctx context.Context) ([]*entity.Stock, error) {
		return uc.stockRepo.List(ctx, projectID)
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *ToStockResponse(s))
	}
	return out, nil
}

// UserActivity resume los movimientos del usuario en el mes calendario en curso (UTC).
func (uc *QueryUseCase) UserActivity(ctx context.Context, userID string) (*dto.UserActivityResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("consultar usuario: %w", err)
	}
	if user == nil {
		return nil, domain.NewReferentialError("usuario", userID)
	}
	from, to := MonthRange(uc.now())
	act, err := uc.movementRepo.ActivityByUser(ctx, user.ID, from, to)
	if err != nil {
		return nil, err
	}
	return &dto.UserActivityResponse{
		UserID: user.ID,
		From:   from,
		To:     to,
		CurrentMonth: dto.MonthActivity{
			MaterialIn:     act.MaterialIn,
			MaterialOut:    act.MaterialOut,
			ActiveProjects: act.ActiveProjects,
		},
		TotalTransactions: act.TotalMovements,
	}, nil
}

// MonthRange devuelve [primer día del mes, primer día del mes siguiente) en UTC.
func MonthRange(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// ToStockResponse convierte la foto de stock a su DTO.
func ToStockResponse(s *entity.Stock) *dto.StockResponse {
	return &dto.StockResponse{
		ID:              s.MaterialID,
		ProjectID:       s.ProjectID,
		ProjectName:     s.ProjectName,
		ProjectLocation: s.ProjectLocation,
		Name:            s.Name,
		Unit:            s.Unit,
		InitialStock:    s.InitialStock,
		StockIn:         s.TotalIn,
		StockOut:        s.TotalOut,
		CurrentStock:    s.CurrentStock,
		TotalCapacity:   s.TotalCapacity,
	}
}
