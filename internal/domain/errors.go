package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrHasDependents     = errors.New("el material tiene movimientos asociados")
	ErrIntegrity         = errors.New("el estado cambió durante la operación")
)

// Tipos de error expuestos al caller (independientes del transporte).
const (
	KindValidation        = "ValidationError"
	KindReferential       = "ReferentialError"
	KindInsufficientStock = "InsufficientStock"
	KindDuplicate         = "Duplicate"
	KindHasDependents     = "HasDependents"
	KindIntegrity         = "IntegrityError"
	KindForbidden         = "Forbidden"
	KindUnauthorized      = "Unauthorized"
	KindInternal          = "Internal"
)

// ValidationError campo de la solicitud ausente o mal formado.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError atajo para construir un ValidationError.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ReferentialError un identificador (proyecto, material, usuario) no resuelve.
type ReferentialError struct {
	Entity string
	ID     string
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("%s %q no existe", e.Entity, e.ID)
}

func (e *ReferentialError) Is(target error) bool { return target == ErrNotFound }

// NewReferentialError atajo para construir un ReferentialError.
func NewReferentialError(entity string, id any) error {
	return &ReferentialError{Entity: entity, ID: fmt.Sprint(id)}
}

// InsufficientStockError una salida excede el stock derivable.
// OutOfStock distingue el caso "sin stock" (Available <= 0) del exceso parcial.
type InsufficientStockError struct {
	MaterialID int64
	Available  decimal.Decimal
	Requested  decimal.Decimal
	OutOfStock bool
}

func (e *InsufficientStockError) Error() string {
	if e.OutOfStock {
		return "material sin stock"
	}
	return fmt.Sprintf("la cantidad solicitada (%s) excede el stock disponible (%s)",
		e.Requested.String(), e.Available.String())
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// HasDependentsError la eliminación de un material está bloqueada por movimientos existentes.
type HasDependentsError struct {
	MaterialID    int64
	MovementCount int64
	TotalIn       decimal.Decimal
	TotalOut      decimal.Decimal
}

func (e *HasDependentsError) Error() string {
	return fmt.Sprintf("el material %d tiene %d movimientos asociados", e.MaterialID, e.MovementCount)
}

func (e *HasDependentsError) Is(target error) bool { return target == ErrHasDependents }

// KindOf clasifica un error en uno de los tipos expuestos al caller.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindReferential
	case errors.Is(err, ErrInsufficientStock):
		return KindInsufficientStock
	case errors.Is(err, ErrDuplicate):
		return KindDuplicate
	case errors.Is(err, ErrHasDependents):
		return KindHasDependents
	case errors.Is(err, ErrIntegrity):
		return KindIntegrity
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	default:
		return KindInternal
	}
}
