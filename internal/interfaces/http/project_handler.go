package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/materiales-obra-api/internal/application/dto"
	"github.com/jhoicas/materiales-obra-api/internal/application/usecase"
)

// ProjectHandler catálogo mínimo de obras.
type ProjectHandler struct {
	uc *usecase.ProjectUseCase
}

// NewProjectHandler construye el handler.
func NewProjectHandler(uc *usecase.ProjectUseCase) *ProjectHandler {
	return &ProjectHandler{uc: uc}
}

// Create godoc
// @Summary      Crear obra
// @Tags         projects
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProjectRequest  true  "name, location, startDate, endDate"
// @Success      201   {object}  dto.ProjectResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProjectRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar obras
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProjectResponse
// @Router       /api/projects [get]
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
