package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/materiales-obra-api/internal/application/dto"
	"github.com/jhoicas/materiales-obra-api/internal/application/inventory"
)

// MaterialHandler catálogo de materiales y eliminación protegida (protegido).
type MaterialHandler struct {
	uc *inventory.MaterialUseCase
}

// NewMaterialHandler construye el handler.
func NewMaterialHandler(uc *inventory.MaterialUseCase) *MaterialHandler {
	return &MaterialHandler{uc: uc}
}

// Create godoc
// @Summary      Crear material
// @Tags         materials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMaterialRequest  true  "projectId, name, unit, initialStock"
// @Success      201   {object}  dto.MaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/materials [post]
func (h *MaterialHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMaterialRequest
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
// @Summary      Listar materiales
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        projectId  query  int  false  "Filtrar por obra"
// @Success      200  {array}  dto.MaterialResponse
// @Router       /api/materials [get]
func (h *MaterialHandler) List(c *fiber.Ctx) error {
	projectID, err := optionalProjectID(c)
	if err != nil {
		return badRequest(c, "projectId", "debe ser un entero")
	}
	out, err := h.uc.List(c.UserContext(), projectID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Usage godoc
// @Summary      Uso de un material
// @Description  Cantidad de movimientos, totales por dirección y último movimiento.
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del material"
// @Success      200  {object}  dto.MaterialUsageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/usage [get]
func (h *MaterialHandler) Usage(c *fiber.Ctx) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return badRequest(c, "id", "debe ser un entero")
	}
	out, err := h.uc.Usage(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar material
// @Description  Con movimientos responde 409 HasDependents salvo force=true, que borra material y movimientos juntos.
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        id     path   int   true   "ID del material"
// @Param        force  query  bool  false  "Borrar también los movimientos"
// @Success      200  {object}  dto.RemoveMaterialResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/materials/{id} [delete]
func (h *MaterialHandler) Delete(c *fiber.Ctx) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return badRequest(c, "id", "debe ser un entero")
	}
	force := c.QueryBool("force", false)
	res, err := h.uc.Remove(c.UserContext(), id, force)
	if err != nil {
		return writeError(c, err)
	}
	msg := "material eliminado"
	if res.MovementsDeleted > 0 {
		msg = "material y movimientos eliminados"
	}
	return c.JSON(dto.RemoveMaterialResponse{
		Message:               msg,
		DeletedID:             id,
		DeletedWithMovements:  res.MovementsDeleted > 0,
		DeletedMovementsCount: res.MovementsDeleted,
	})
}
