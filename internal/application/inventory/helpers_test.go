package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/materiales-obra-api/internal/application/inventory"
	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
	"github.com/jhoicas/materiales-obra-api/internal/domain/repository"
	"github.com/jhoicas/materiales-obra-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: almacenamiento en memoria con una obra, un operador y casos de uso
// ──────────────────────────────────────────────────────────────────────────────

const operatorID = "00000000-0000-0000-0000-0000000000aa"

type fixture struct {
	store     *memory.Store
	repos     repository.Set
	project   *entity.Project
	register  *inventory.RegisterMovementUseCase
	materials *inventory.MaterialUseCase
	query     *inventory.QueryUseCase
	events    *recordingPublisher
	cache     *recordingCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()

	project := &entity.Project{Name: "Torre Norte", Location: "Medellín"}
	require.NoError(t, repos.Projects.Create(ctx, project))
	require.NoError(t, repos.Users.Create(ctx, &entity.User{
		ID: operatorID, Name: "Operador", Email: "operador@obra.test", Role: entity.RoleOperator,
	}))

	events := &recordingPublisher{}
	cache := &recordingCache{}
	log := zerolog.Nop()
	return &fixture{
		store:   store,
		repos:   repos,
		project: project,
		register: inventory.NewRegisterMovementUseCase(store, repos.Materials, repos.Users, log).
			WithEvents(events).
			WithCache(cache),
		materials: inventory.NewMaterialUseCase(store, repos.Projects, repos.Materials, repos.Movements, log).
			WithEvents(events).
			WithCache(cache),
		query:  inventory.NewQueryUseCase(repos.Movements, repos.Stock, repos.Users),
		events: events,
		cache:  cache,
	}
}

// material crea un material en la obra del fixture con la línea base indicada.
func (f *fixture) material(t *testing.T, name, baseline string) *entity.Material {
	t.Helper()
	m := &entity.Material{
		ProjectID:    f.project.ID,
		Name:         name,
		Unit:         "saco",
		InitialStock: decimal.RequireFromString(baseline),
	}
	require.NoError(t, f.repos.Materials.Create(context.Background(), m))
	return m
}

func (f *fixture) input(m *entity.Material, typ, qty string) inventory.MovementInput {
	return inventory.MovementInput{
		ProjectID:  m.ProjectID,
		MaterialID: m.ID,
		UserID:     operatorID,
		Type:       typ,
		Quantity:   qty,
		Unit:       m.Unit,
	}
}

func (f *fixture) mustMove(t *testing.T, m *entity.Material, typ, qty string) *entity.Movement {
	t.Helper()
	mv, err := f.register.RegisterMovement(context.Background(), f.input(m, typ, qty))
	require.NoError(t, err)
	return mv
}

func (f *fixture) stock(t *testing.T, m *entity.Material) *entity.Stock {
	t.Helper()
	s, err := f.repos.Stock.GetByMaterial(context.Background(), m.ID)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba para los puertos
// ──────────────────────────────────────────────────────────────────────────────

type recordingPublisher struct {
	mu        sync.Mutex
	movements []*entity.Movement
	removed   []int64
}

func (p *recordingPublisher) MovementCommitted(m *entity.Movement) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.movements = append(p.movements, m)
}

func (p *recordingPublisher) MaterialRemoved(m *entity.Material, _ int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removed = append(p.removed, m.ID)
}

func (p *recordingPublisher) committed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.movements)
}

type recordingCache struct {
	mu          sync.Mutex
	invalidated []int64
	loads       int
}

func (c *recordingCache) Load(ctx context.Context, _ *int64, compute func(ctx context.Context) ([]*entity.Stock, error)) ([]*entity.Stock, error) {
	c.mu.Lock()
	c.loads++
	c.mu.Unlock()
	return compute(ctx)
}

func (c *recordingCache) Invalidate(_ context.Context, projectID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, projectID)
	return nil
}

type admissionRecord struct {
	movementType string
	outcome      string
	elapsed      time.Duration
}

type recordingMetrics struct {
	mu      sync.Mutex
	records []admissionRecord
}

func (m *recordingMetrics) RecordAdmission(_ context.Context, movementType, outcome string, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, admissionRecord{movementType, outcome, elapsed})
}
