package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/materiales-obra-api/internal/domain"
	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
	"github.com/jhoicas/materiales-obra-api/internal/domain/inventory"
)

// ---- proyectos ----

type projectRepo struct {
	s  *Store
	tx *txn
}

func (r *projectRepo) Create(_ context.Context, p *entity.Project) error {
	p.ID = r.s.projectSeq.Add(1)
	p.CreatedAt = r.s.now()
	row := *p
	return r.s.write(r.tx, op{name: "project.insert", apply: func(st *state) error {
		st.projects[row.ID] = row
		return nil
	}})
}

func (r *projectRepo) GetByID(_ context.Context, id int64) (*entity.Project, error) {
	var out *entity.Project
	r.s.read(func(st *state) {
		if p, ok := st.projects[id]; ok {
			out = &p
		}
	})
	return out, nil
}

func (r *projectRepo) List(_ context.Context) ([]*entity.Project, error) {
	var list []*entity.Project
	r.s.read(func(st *state) {
		for _, p := range st.projects {
			p := p
			list = append(list, &p)
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// ---- usuarios ----

type userRepo struct {
	s  *Store
	tx *txn
}

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	u.CreatedAt = r.s.now()
	row := *u
	return r.s.write(r.tx, op{name: "user.insert", apply: func(st *state) error {
		if _, ok := st.users[row.ID]; ok {
			return fmt.Errorf("insert user: %w", domain.ErrDuplicate)
		}
		for _, other := range st.users {
			if other.Email == row.Email {
				return fmt.Errorf("insert user: %w", domain.ErrDuplicate)
			}
		}
		st.users[row.ID] = row
		return nil
	}})
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	r.s.read(func(st *state) {
		if u, ok := st.users[id]; ok {
			out = &u
		}
	})
	return out, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	r.s.read(func(st *state) {
		for _, u := range st.users {
			if u.Email == email {
				u := u
				out = &u
				return
			}
		}
	})
	return out, nil
}

// ---- materiales ----

type materialRepo struct {
	s  *Store
	tx *txn
}

func (r *materialRepo) Create(_ context.Context, m *entity.Material) error {
	m.ID = r.s.materialSeq.Add(1)
	m.CreatedAt = r.s.now()
	row := *m
	return r.s.write(r.tx, op{name: "material.insert", apply: func(st *state) error {
		if _, ok := st.projects[row.ProjectID]; !ok {
			return domain.NewReferentialError("proyecto", row.ProjectID)
		}
		if row.InitialStock.IsNegative() {
			return fmt.Errorf("insert material: %w", domain.ErrInvalidInput)
		}
		for _, other := range st.materials {
			if other.ProjectID == row.ProjectID && other.Name == row.Name {
				return fmt.Errorf("insert material: %w", domain.ErrDuplicate)
			}
		}
		st.materials[row.ID] = row
		return nil
	}})
}

func (r *materialRepo) GetByID(_ context.Context, id int64) (*entity.Material, error) {
	var out *entity.Material
	r.s.read(func(st *state) {
		if m, ok := st.materials[id]; ok {
			out = &m
		}
	})
	return out, nil
}

// GetForUpdate toma el bloqueo del material y luego lo lee; fuera de una transacción solo lee.
func (r *materialRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Material, error) {
	if r.tx != nil {
		r.tx.lock(id)
	}
	return r.GetByID(ctx, id)
}

func (r *materialRepo) GetByProjectAndName(_ context.Context, projectID int64, name string) (*entity.Material, error) {
	var out *entity.Material
	r.s.read(func(st *state) {
		for _, m := range st.materials {
			if m.ProjectID == projectID && m.Name == name {
				m := m
				out = &m
				return
			}
		}
	})
	return out, nil
}

func (r *materialRepo) List(_ context.Context, projectID *int64) ([]*entity.Material, error) {
	var list []*entity.Material
	r.s.read(func(st *state) {
		for _, m := range st.materials {
			if projectID != nil && m.ProjectID != *projectID {
				continue
			}
			m := m
			list = append(list, &m)
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].ProjectID != list[j].ProjectID {
			return list[i].ProjectID < list[j].ProjectID
		}
		return list[i].Name < list[j].Name
	})
	return list, nil
}

func (r *materialRepo) Delete(_ context.Context, id int64) error {
	return r.s.write(r.tx, op{name: "material.delete", apply: func(st *state) error {
		if _, ok := st.materials[id]; !ok {
			return fmt.Errorf("delete material %d: %w", id, domain.ErrNotFound)
		}
		for _, mv := range st.movements {
			if mv.MaterialID == id {
				return fmt.Errorf("delete material %d: movimientos existentes: %w", id, domain.ErrIntegrity)
			}
		}
		delete(st.materials, id)
		return nil
	}})
}

// ---- movimientos ----

type movementRepo struct {
	s  *Store
	tx *txn
}

// Create difiere la inserción. Dentro de una transacción toma el bloqueo del material,
// igual que la FK en PostgreSQL espera a un SELECT FOR UPDATE concurrente.
func (r *movementRepo) Create(_ context.Context, m *entity.Movement) error {
	if r.tx != nil {
		r.tx.lock(m.MaterialID)
	}
	m.ID = r.s.movementSeq.Add(1)
	m.CreatedAt = r.s.now()
	row := *m
	return r.s.write(r.tx, op{name: "movement.insert", apply: func(st *state) error {
		if !entity.IsValidMovementType(row.Type) || !row.Quantity.IsPositive() {
			return fmt.Errorf("insert movement: %w", domain.ErrInvalidInput)
		}
		material, ok := st.materials[row.MaterialID]
		if !ok || material.ProjectID != row.ProjectID {
			return fmt.Errorf("insert movement: material %d: %w", row.MaterialID, domain.ErrIntegrity)
		}
		if _, ok := st.users[row.UserID]; !ok {
			return fmt.Errorf("insert movement: usuario %s: %w", row.UserID, domain.ErrIntegrity)
		}
		st.movements = append(st.movements, row)
		return nil
	}})
}

func (r *movementRepo) List(_ context.Context, f entity.MovementFilter, limit, offset int) ([]*entity.MovementDetail, error) {
	var list []*entity.MovementDetail
	r.s.read(func(st *state) {
		for _, mv := range st.movements {
			if !matches(f, mv) {
				continue
			}
			d := &entity.MovementDetail{Movement: mv}
			if m, ok := st.materials[mv.MaterialID]; ok {
				d.MaterialName, d.MaterialUnit = m.Name, m.Unit
			}
			if p, ok := st.projects[mv.ProjectID]; ok {
				d.ProjectName, d.ProjectLocation = p.Name, p.Location
			}
			if u, ok := st.users[mv.UserID]; ok {
				d.UserName = u.Name
			}
			list = append(list, d)
		}
	})
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func matches(f entity.MovementFilter, mv entity.Movement) bool {
	switch {
	case f.Type != "" && mv.Type != f.Type:
		return false
	case f.ProjectID != nil && mv.ProjectID != *f.ProjectID:
		return false
	case f.MaterialID != nil && mv.MaterialID != *f.MaterialID:
		return false
	case f.UserID != "" && mv.UserID != f.UserID:
		return false
	case f.From != nil && mv.CreatedAt.Before(*f.From):
		return false
	case f.To != nil && !mv.CreatedAt.Before(*f.To):
		return false
	}
	return true
}

// DeleteByMaterial cuenta ahora y borra en el commit. Dentro de una transacción el material
// ya está bloqueado, así que la cuenta no cambia hasta entonces.
func (r *movementRepo) DeleteByMaterial(_ context.Context, materialID int64) (int64, error) {
	if r.tx != nil {
		r.tx.lock(materialID)
	}
	var count int64
	r.s.read(func(st *state) {
		for _, mv := range st.movements {
			if mv.MaterialID == materialID {
				count++
			}
		}
	})
	err := r.s.write(r.tx, op{name: "movement.delete_by_material", apply: func(st *state) error {
		kept := st.movements[:0]
		for _, mv := range st.movements {
			if mv.MaterialID != materialID {
				kept = append(kept, mv)
			}
		}
		st.movements = kept
		return nil
	}})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *movementRepo) UsageByMaterial(_ context.Context, materialID int64) (*entity.MaterialUsage, error) {
	u := &entity.MaterialUsage{MaterialID: materialID, TotalIn: decimal.Zero, TotalOut: decimal.Zero}
	r.s.read(func(st *state) {
		var own []*entity.Movement
		for i := range st.movements {
			mv := st.movements[i]
			if mv.MaterialID != materialID {
				continue
			}
			own = append(own, &mv)
			if u.LastMovement == nil || mv.CreatedAt.After(u.LastMovement.CreatedAt) ||
				(mv.CreatedAt.Equal(u.LastMovement.CreatedAt) && mv.ID > u.LastMovement.ID) {
				u.LastMovement = &mv
			}
		}
		u.MovementCount = int64(len(own))
		u.TotalIn, u.TotalOut = inventory.Totals(own)
	})
	return u, nil
}

func (r *movementRepo) ActivityByUser(_ context.Context, userID string, from, to time.Time) (*entity.UserActivity, error) {
	a := &entity.UserActivity{UserID: userID, From: from, To: to}
	projects := map[int64]struct{}{}
	r.s.read(func(st *state) {
		for _, mv := range st.movements {
			if mv.UserID != userID {
				continue
			}
			a.TotalMovements++
			if mv.CreatedAt.Before(from) || !mv.CreatedAt.Before(to) {
				continue
			}
			projects[mv.ProjectID] = struct{}{}
			if mv.Type == entity.MovementTypeIN {
				a.MaterialIn++
			} else {
				a.MaterialOut++
			}
		}
	})
	a.ActiveProjects = int64(len(projects))
	return a, nil
}

// ---- stock ----

type stockRepo struct {
	s *Store
}

func (r *stockRepo) GetByMaterial(_ context.Context, materialID int64) (*entity.Stock, error) {
	var out *entity.Stock
	r.s.read(func(st *state) {
		m, ok := st.materials[materialID]
		if !ok {
			return
		}
		var own []*entity.Movement
		for i := range st.movements {
			if st.movements[i].MaterialID == materialID {
				own = append(own, &st.movements[i])
			}
		}
		in, outQty := inventory.Totals(own)
		out = withProject(st, inventory.NewStock(&m, in, outQty))
	})
	return out, nil
}

func (r *stockRepo) List(_ context.Context, projectID *int64) ([]*entity.Stock, error) {
	var list []*entity.Stock
	r.s.read(func(st *state) {
		byMaterial := map[int64][]*entity.Movement{}
		for i := range st.movements {
			mv := &st.movements[i]
			byMaterial[mv.MaterialID] = append(byMaterial[mv.MaterialID], mv)
		}
		for _, m := range st.materials {
			if projectID != nil && m.ProjectID != *projectID {
				continue
			}
			m := m
			in, out := inventory.Totals(byMaterial[m.ID])
			list = append(list, withProject(st, inventory.NewStock(&m, in, out)))
		}
	})
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.ProjectName != b.ProjectName {
			return a.ProjectName < b.ProjectName
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.MaterialID < b.MaterialID
	})
	return list, nil
}

func withProject(st *state, s *entity.Stock) *entity.Stock {
	if p, ok := st.projects[s.ProjectID]; ok {
		s.ProjectName, s.ProjectLocation = p.Name, p.Location
	}
	return s
}
