// Package memory implementa los puertos de persistencia en memoria (driver "memory").
// Reproduce la semántica del almacenamiento PostgreSQL: bloqueo por material hasta el
// fin de la transacción, commits todo-o-nada y las mismas restricciones de integridad.
package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/materiales-obra-api/internal/application/inventory"
	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
	"github.com/jhoicas/materiales-obra-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store almacenamiento en memoria seguro para uso concurrente.
type Store struct {
	mu    sync.RWMutex
	state state

	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex

	projectSeq  atomic.Int64
	materialSeq atomic.Int64
	movementSeq atomic.Int64

	now   func() time.Time
	fault func(op string) error
}

type state struct {
	projects  map[int64]entity.Project
	users     map[string]entity.User
	materials map[int64]entity.Material
	movements []entity.Movement
}

func (s state) clone() state {
	next := state{
		projects:  make(map[int64]entity.Project, len(s.projects)),
		users:     make(map[string]entity.User, len(s.users)),
		materials: make(map[int64]entity.Material, len(s.materials)),
		movements: make([]entity.Movement, len(s.movements)),
	}
	for k, v := range s.projects {
		next.projects[k] = v
	}
	for k, v := range s.users {
		next.users[k] = v
	}
	for k, v := range s.materials {
		next.materials[k] = v
	}
	copy(next.movements, s.movements)
	return next
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{
		state: state{
			projects:  map[int64]entity.Project{},
			users:     map[string]entity.User{},
			materials: map[int64]entity.Material{},
		},
		locks: map[int64]*sync.Mutex{},
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock fija el reloj usado para created_at.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// InjectFault registra fn, que se consulta antes de aplicar cada operación de un commit.
// Si devuelve error el commit se aborta completo. Con nil se desactiva.
func (s *Store) InjectFault(fn func(op string) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = fn
}

// Repositories devuelve repositorios en modo autocommit (cada escritura es su propia transacción).
func (s *Store) Repositories() repository.Set {
	return newSet(s, nil)
}

// Run ejecuta fn dentro de una transacción. Las escrituras quedan en espera y se aplican
// juntas al final; si fn falla o alguna escritura viola una restricción no se aplica ninguna.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Set) error) error {
	t := &txn{store: s, held: map[int64]*sync.Mutex{}}
	defer t.release()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(newSet(s, t)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.commit(t.ops)
}

// op escritura diferida hasta el commit.
type op struct {
	name  string
	apply func(st *state) error
}

func (s *Store) commit(ops []op) error {
	if len(ops) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	for _, o := range ops {
		if s.fault != nil {
			if err := s.fault(o.name); err != nil {
				return fmt.Errorf("%s: %w", o.name, err)
			}
		}
		if err := o.apply(&next); err != nil {
			return err
		}
	}
	s.state = next
	return nil
}

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.state)
}

func (s *Store) materialLock(id int64) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// txn transacción en curso: escrituras pendientes y bloqueos tomados.
type txn struct {
	store *Store
	ops   []op
	held  map[int64]*sync.Mutex
}

// lock toma el bloqueo del material (una vez por transacción) hasta release.
func (t *txn) lock(materialID int64) {
	if _, ok := t.held[materialID]; ok {
		return
	}
	l := t.store.materialLock(materialID)
	l.Lock()
	t.held[materialID] = l
}

func (t *txn) release() {
	for id, l := range t.held {
		l.Unlock()
		delete(t.held, id)
	}
}

// write aplica la operación: dentro de una transacción la difiere; fuera, la confirma ya.
func (s *Store) write(t *txn, o op) error {
	if t != nil {
		t.ops = append(t.ops, o)
		return nil
	}
	return s.commit([]op{o})
}

func newSet(s *Store, t *txn) repository.Set {
	return repository.Set{
		Projects:  &projectRepo{s: s, tx: t},
		Materials: &materialRepo{s: s, tx: t},
		Movements: &movementRepo{s: s, tx: t},
		Stock:     &stockRepo{s: s},
		Users:     &userRepo{s: s, tx: t},
	}
}
