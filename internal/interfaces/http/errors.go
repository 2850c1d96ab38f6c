package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/materiales-obra-api/internal/application/dto"
	"github.com/jhoicas/materiales-obra-api/internal/domain"
)

// errorResponse traduce un error del dominio a estado HTTP y cuerpo.
func errorResponse(err error) (int, dto.ErrorResponse) {
	kind := domain.KindOf(err)
	body := dto.ErrorResponse{Error: kind, Message: err.Error()}

	var (
		verr  *domain.ValidationError
		stock *domain.InsufficientStockError
		deps  *domain.HasDependentsError
	)
	switch {
	case errors.As(err, &verr):
		body.Code, body.Field = "VALIDATION", verr.Field
		return fiber.StatusBadRequest, body
	case kind == domain.KindValidation:
		body.Code = "VALIDATION"
		return fiber.StatusBadRequest, body
	case kind == domain.KindReferential:
		body.Code = "NOT_FOUND"
		return fiber.StatusNotFound, body
	case errors.As(err, &stock):
		body.Code = "INSUFFICIENT_STOCK"
		if stock.OutOfStock {
			body.Code = "OUT_OF_STOCK"
		}
		body.CurrentStock = stock.Available.String()
		body.RequestedQuantity = stock.Requested.String()
		return fiber.StatusConflict, body
	case kind == domain.KindDuplicate:
		body.Code = "DUPLICATE"
		return fiber.StatusConflict, body
	case errors.As(err, &deps):
		body.Code = "HAS_DEPENDENTS"
		body.HasTransactions = true
		body.MovementCount = deps.MovementCount
		body.TotalIn = deps.TotalIn.String()
		body.TotalOut = deps.TotalOut.String()
		return fiber.StatusConflict, body
	case kind == domain.KindIntegrity:
		body.Code = "INTEGRITY"
		return fiber.StatusConflict, body
	case kind == domain.KindForbidden:
		body.Code = "FORBIDDEN"
		return fiber.StatusForbidden, body
	case kind == domain.KindUnauthorized:
		body.Code = "UNAUTHORIZED"
		return fiber.StatusUnauthorized, body
	default:
		body.Code = "INTERNAL"
		body.Message = "error interno"
		return fiber.StatusInternalServerError, body
	}
}

// writeError responde con el error mapeado.
func writeError(c *fiber.Ctx, err error) error {
	status, body := errorResponse(err)
	return c.Status(status).JSON(body)
}

// ErrorHandler manejador global de Fiber: errores de Fiber conservan su código; el resto se mapea.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return c.Status(ferr.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: ferr.Message})
	}
	return writeError(c, err)
}

func badRequest(c *fiber.Ctx, field, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code:    "VALIDATION",
		Error:   domain.KindValidation,
		Message: msg,
		Field:   field,
	})
}
