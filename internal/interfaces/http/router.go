package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/materiales-obra-api/internal/application/inventory"
	"github.com/jhoicas/materiales-obra-api/internal/application/usecase"
	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
	"github.com/jhoicas/materiales-obra-api/internal/interfaces/ws"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RegisterMovement *inventory.RegisterMovementUseCase
	Materials        *inventory.MaterialUseCase
	Query            *inventory.QueryUseCase
	ProjectUC        *usecase.ProjectUseCase
	Hub              *ws.Hub // opcional: sin hub no se expone /ws/movements
	JWTSecret        string
	JWTIssuer        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Hub != nil {
		app.Use("/ws", ws.RequireUpgrade, tokenFromQuery, AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
		app.Get("/ws/movements", ws.Handler(deps.Hub))
	}

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	movementHandler := NewMovementHandler(deps.RegisterMovement, deps.Query)
	api.Post("/movements", movementHandler.Create)
	api.Get("/movements", movementHandler.List)

	stockHandler := NewStockHandler(deps.Query)
	api.Get("/stocks", stockHandler.List)
	api.Get("/stocks/:materialId", stockHandler.Get)

	materialHandler := NewMaterialHandler(deps.Materials)
	api.Get("/materials", materialHandler.List)
	api.Post("/materials", materialHandler.Create)
	api.Get("/materials/:id/usage", materialHandler.Usage)
	api.Delete("/materials/:id", materialHandler.Delete)

	projectHandler := NewProjectHandler(deps.ProjectUC)
	api.Get("/projects", projectHandler.List)
	api.Post("/projects", RequireRole(entity.RoleAdmin, entity.RoleSupervisor), projectHandler.Create)

	userHandler := NewUserHandler(deps.Query)
	api.Get("/users/:id/activity", userHandler.Activity)
}

// tokenFromQuery acepta ?token= para clientes WebSocket de navegador, que no pueden enviar cabeceras.
func tokenFromQuery(c *fiber.Ctx) error {
	if c.Get("Authorization") == "" {
		if tok := c.Query("token"); tok != "" {
			c.Request().Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return c.Next()
}
