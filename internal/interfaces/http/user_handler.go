package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/materiales-obra-api/internal/application/inventory"
)

// UserHandler estadísticas por usuario.
type UserHandler struct {
	query *inventory.QueryUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(query *inventory.QueryUseCase) *UserHandler {
	return &UserHandler{query: query}
}

// Activity godoc
// @Summary      Actividad mensual del usuario
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del usuario"
// @Success      200  {object}  dto.UserActivityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/activity [get]
func (h *UserHandler) Activity(c *fiber.Ctx) error {
	out, err := h.query.UserActivity(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
