package inventory

import (
	"context"

	"github.com/jhoicas/materiales-obra-api/internal/application/dto"
	"github.com/jhoicas/materiales-obra-api/internal/domain"
	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement(ctx, MovementInput).
// actingUserID es el usuario autenticado; si el body trae userId distinto se rechaza con ErrForbidden.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, actingUserID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	if in.UserID != "" && in.UserID != actingUserID {
		return nil, domain.ErrForbidden
	}
	input := MovementInput{
		ProjectID:  in.ProjectID,
		MaterialID: in.MaterialID,
		UserID:     actingUserID,
		Type:       in.Type,
		Quantity:   string(in.Quantity),
		Unit:       in.Unit,
		Notes:      in.Notes,
	}
	movement, err := uc.RegisterMovement(ctx, input)
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(movement), nil
}

// ToMovementResponse convierte un movimiento del dominio a su DTO.
func ToMovementResponse(m *entity.Movement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:         m.ID,
		ProjectID:  m.ProjectID,
		MaterialID: m.MaterialID,
		UserID:     m.UserID,
		Type:       m.Type,
		Quantity:   m.Quantity,
		Unit:       m.Unit,
		Notes:      m.Notes,
		CreatedAt:  m.CreatedAt,
	}
}
