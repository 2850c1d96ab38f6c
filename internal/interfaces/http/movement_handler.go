package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/materiales-obra-api/internal/application/dto"
	"github.com/jhoicas/materiales-obra-api/internal/application/inventory"
)

// MovementHandler maneja las peticiones HTTP del ledger de movimientos (protegido).
type MovementHandler struct {
	register *inventory.RegisterMovementUseCase
	query    *inventory.QueryUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(register *inventory.RegisterMovementUseCase, query *inventory.QueryUseCase) *MovementHandler {
	return &MovementHandler{register: register, query: query}
}

// Create godoc
// @Summary      Registrar movimiento de material
// @Description  Entrada (in) o salida (out). Las salidas se rechazan si exceden el stock derivado.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "projectId, materialId, type, quantity, unit, notes"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.register.RegisterMovementFromRequest(c.UserContext(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Historial de movimientos
// @Description  Del más reciente al más antiguo. hasMore es true cuando la página vino llena.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        type        query  string  false  "in | out"
// @Param        projectId   query  int     false  "Filtrar por obra"
// @Param        materialId  query  int     false  "Filtrar por material"
// @Param        page        query  int     false  "Página (desde 1)"
// @Param        limit       query  int     false  "Tamaño de página (máx. 100)"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	q := dto.MovementListQuery{Type: c.Query("type")}
	var err error
	if q.ProjectID, _, err = queryInt64(c, "projectId"); err != nil {
		return badRequest(c, "projectId", "debe ser un entero")
	}
	if q.MaterialID, _, err = queryInt64(c, "materialId"); err != nil {
		return badRequest(c, "materialId", "debe ser un entero")
	}
	page, _, err := queryInt64(c, "page")
	if err != nil {
		return badRequest(c, "page", "debe ser un entero")
	}
	limit, _, err := queryInt64(c, "limit")
	if err != nil {
		return badRequest(c, "limit", "debe ser un entero")
	}
	q.Page, q.Limit = int(page), int(limit)

	out, err := h.query.ListMovements(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
