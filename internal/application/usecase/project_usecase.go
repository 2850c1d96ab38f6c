package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/materiales-obra-api/internal/application/dto"
	"github.com/jhoicas/materiales-obra-api/internal/domain"
	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
	"github.com/jhoicas/materiales-obra-api/internal/domain/repository"
	"github.com/jhoicas/materiales-obra-api/pkg/validator"
)

const dateLayout = "2006-01-02"

// ProjectUseCase catálogo mínimo de obras.
type ProjectUseCase struct {
	repo repository.ProjectRepository
}

// NewProjectUseCase construye el caso de uso.
func NewProjectUseCase(repo repository.ProjectRepository) *ProjectUseCase {
	return &ProjectUseCase{repo: repo}
}

// Create crea una nueva obra.
func (uc *ProjectUseCase) Create(ctx context.Context, in dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if fe := validator.First(in); fe != nil {
		return nil, domain.NewValidationError(fe.Field, "valor inválido ("+fe.Tag+")")
	}
	start, err := parseDate(in.StartDate)
	if err != nil {
		return nil, domain.NewValidationError("startDate", "formato esperado YYYY-MM-DD")
	}
	end, err := parseDate(in.EndDate)
	if err != nil {
		return nil, domain.NewValidationError("endDate", "formato esperado YYYY-MM-DD")
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, domain.NewValidationError("endDate", "no puede ser anterior a startDate")
	}

	project := &entity.Project{
		Name:      in.Name,
		Location:  strings.TrimSpace(in.Location),
		StartDate: start,
		EndDate:   end,
	}
	if err := uc.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

// List lista todas las obras.
func (uc *ProjectUseCase) List(ctx context.Context) ([]dto.ProjectResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProjectResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProjectResponse(p))
	}
	return items, nil
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toProjectResponse(p *entity.Project) *dto.ProjectResponse {
	if p == nil {
		return nil
	}
	return &dto.ProjectResponse{
		ID:        p.ID,
		Name:      p.Name,
		Location:  p.Location,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		CreatedAt: p.CreatedAt,
	}
}
