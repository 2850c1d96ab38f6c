// seed puebla la base con usuarios, obras, materiales y algunos movimientos de demostración
// e imprime un token JWT de desarrollo.
//
// Uso: go run ./cmd/seed [-csv materiales.csv] [-latin1] [-password secreto]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"github.com/jhoicas/materiales-obra-api/internal/application/dto"
	"github.com/jhoicas/materiales-obra-api/internal/application/inventory"
	"github.com/jhoicas/materiales-obra-api/internal/domain"
	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
	"github.com/jhoicas/materiales-obra-api/internal/domain/repository"
	"github.com/jhoicas/materiales-obra-api/internal/infrastructure/postgres"
	"github.com/jhoicas/materiales-obra-api/pkg/config"
	"github.com/jhoicas/materiales-obra-api/pkg/jwt"
	"github.com/jhoicas/materiales-obra-api/pkg/logger"
)

type seedUser struct {
	Name  string
	Email string
	Role  string
}

var demoUsers = []seedUser{
	{Name: "Administrador", Email: "admin@obra.local", Role: entity.RoleAdmin},
	{Name: "Supervisora de Obra", Email: "supervisor@obra.local", Role: entity.RoleSupervisor},
	{Name: "Operador de Bodega", Email: "operador@obra.local", Role: entity.RoleOperator},
}

func main() {
	csvPath := flag.String("csv", "", "CSV obra;material;unidad;stock_inicial (opcional)")
	latin1 := flag.Bool("latin1", false, "el CSV está en ISO-8859-1")
	password := flag.String("password", "admin123", "contraseña de los usuarios demo")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	catalog := defaultCatalog
	if *csvPath != "" {
		f, err := os.Open(*csvPath)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir CSV")
		}
		catalog, err = parseCatalog(f, *latin1)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("leer CSV")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	repos := postgres.NewRepositorySet(pool)
	s := &seeder{repos: repos, tx: postgres.NewTxRunner(pool), log: log.Zerolog()}

	users, err := s.users(ctx, *password)
	if err != nil {
		log.Fatal().Err(err).Msg("usuarios")
	}
	materials, err := s.catalog(ctx, catalog)
	if err != nil {
		log.Fatal().Err(err).Msg("catálogo")
	}
	if err := s.movements(ctx, users[entity.RoleOperator], materials); err != nil {
		log.Fatal().Err(err).Msg("movimientos")
	}

	admin := users[entity.RoleAdmin]
	token, err := jwt.Generate(cfg.JWT.Secret, admin.ID, admin.Role, cfg.JWT.Issuer, cfg.JWT.TTL())
	if err != nil {
		log.Fatal().Err(err).Msg("generar token")
	}
	fmt.Printf("Usuario admin: %s (%s)\nToken de desarrollo:\n%s\n", admin.Email, admin.ID, token)
}

type seeder struct {
	repos repository.Set
	tx    inventory.TxRunner
	log   zerolog.Logger
}

// users crea los usuarios demo que falten; devuelve uno por rol.
func (s *seeder) users(ctx context.Context, password string) (map[string]*entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash de contraseña: %w", err)
	}
	out := make(map[string]*entity.User, len(demoUsers))
	for _, du := range demoUsers {
		u, err := s.repos.Users.GetByEmail(ctx, du.Email)
		if err != nil {
			return nil, err
		}
		if u == nil {
			u = &entity.User{
				ID:           uuid.NewString(),
				Name:         du.Name,
				Email:        du.Email,
				PasswordHash: string(hash),
				Role:         du.Role,
			}
			if err := s.repos.Users.Create(ctx, u); err != nil {
				return nil, err
			}
			s.log.Info().Str("email", u.Email).Str("role", u.Role).Msg("usuario creado")
		}
		out[du.Role] = u
	}
	return out, nil
}

// catalog crea obras y materiales que falten; los duplicados se reutilizan.
func (s *seeder) catalog(ctx context.Context, rows []materialRow) ([]*entity.Material, error) {
	projects := map[string]int64{}
	existing, err := s.repos.Projects.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range existing {
		projects[p.Name] = p.ID
	}

	uc := inventory.NewMaterialUseCase(s.tx, s.repos.Projects, s.repos.Materials, s.repos.Movements, s.log)
	var materials []*entity.Material
	for _, row := range rows {
		projectID, ok := projects[row.Project]
		if !ok {
			p := &entity.Project{Name: row.Project}
			if err := s.repos.Projects.Create(ctx, p); err != nil {
				return nil, err
			}
			projectID = p.ID
			projects[row.Project] = p.ID
		}
		_, err := uc.Create(ctx, dto.CreateMaterialRequest{
			ProjectID:    projectID,
			Name:         row.Name,
			Unit:         row.Unit,
			InitialStock: dto.NumericString(row.InitialStock),
		})
		if err != nil && !errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("material %q: %w", row.Name, err)
		}
		m, err := s.repos.Materials.GetByProjectAndName(ctx, projectID, row.Name)
		if err != nil {
			return nil, err
		}
		if m != nil {
			materials = append(materials, m)
		}
	}
	return materials, nil
}

// movements registra una entrada y una salida por material, solo si el material no tiene historial.
func (s *seeder) movements(ctx context.Context, operator *entity.User, materials []*entity.Material) error {
	uc := inventory.NewRegisterMovementUseCase(s.tx, s.repos.Materials, s.repos.Users, s.log)
	for _, m := range materials {
		usage, err := s.repos.Movements.UsageByMaterial(ctx, m.ID)
		if err != nil {
			return err
		}
		if usage.HasMovements() {
			continue
		}
		for _, mv := range []struct{ typ, qty string }{{entity.MovementTypeIN, "10"}, {entity.MovementTypeOUT, "4"}} {
			_, err := uc.RegisterMovement(ctx, inventory.MovementInput{
				ProjectID:  m.ProjectID,
				MaterialID: m.ID,
				UserID:     operator.ID,
				Type:       mv.typ,
				Quantity:   mv.qty,
				Unit:       m.Unit,
				Notes:      "carga inicial",
			})
			if err != nil {
				return fmt.Errorf("movimiento %s de %q: %w", mv.typ, m.Name, err)
			}
		}
	}
	return nil
}
