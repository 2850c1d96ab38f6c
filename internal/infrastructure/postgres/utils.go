package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/materiales-obra-api/internal/domain"
)

// Códigos SQLSTATE relevantes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool { return pgCode(err) == codeUniqueViolation }

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool { return pgCode(err) == codeForeignKeyViolation }

// wrapErr envuelve el error de almacenamiento con la operación y lo traduce a un
// sentinel del dominio cuando el código SQLSTATE lo permite.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s: %w", op, domain.ErrIntegrity)
	case pgCode(err) == codeCheckViolation:
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidInput)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
