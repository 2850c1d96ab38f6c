package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/materiales-obra-api/internal/application/inventory"
)

// StockHandler fotos de stock derivado (protegido).
type StockHandler struct {
	query *inventory.QueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(query *inventory.QueryUseCase) *StockHandler {
	return &StockHandler{query: query}
}

// List godoc
// @Summary      Stock actual por material
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        projectId  query  int  false  "Filtrar por obra"
// @Success      200  {array}   dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stocks [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	projectID, err := optionalProjectID(c)
	if err != nil {
		return badRequest(c, "projectId", "debe ser un entero")
	}
	out, err := h.query.ListStock(c.UserContext(), projectID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Stock actual de un material
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        materialId  path  int  true  "ID del material"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stocks/{materialId} [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	id, err := paramInt64(c, "materialId")
	if err != nil {
		return badRequest(c, "materialId", "debe ser un entero")
	}
	out, err := h.query.GetStock(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
