package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// queryInt64 lee un entero opcional del query string; vacío devuelve (0, false, nil).
func queryInt64(c *fiber.Ctx, name string) (int64, bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// paramInt64 lee un id de la ruta.
func paramInt64(c *fiber.Ctx, name string) (int64, error) {
	return strconv.ParseInt(c.Params(name), 10, 64)
}

// optionalProjectID lee ?projectId= como puntero (nil = todos los proyectos).
func optionalProjectID(c *fiber.Ctx) (*int64, error) {
	v, ok, err := queryInt64(c, "projectId")
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}
