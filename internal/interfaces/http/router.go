package http

import (
	"github.com/gofiber/fiber/v2"

	appmovement "github.com/jhoicas/cajas-api/internal/application/movement"
	"github.com/jhoicas/cajas-api/internal/application/usecase"
	"github.com/jhoicas/cajas-api/internal/domain/entity"
	"github.com/jhoicas/cajas-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MovementUC *appmovement.UseCase
	BoxUC      *usecase.BoxUseCase
	UserUC     *usecase.UserUseCase
	JWTSecret  string
	Log        *logger.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	operators := RequireRole(entity.RoleAdmin, entity.RoleCajero)

	protected.Get("/me", NewUserHandler(deps.UserUC, log).Me)

	// Boxes (solo lectura)
	boxHandler := NewBoxHandler(deps.BoxUC, log)
	protected.Get("/boxes/:id", boxHandler.GetByID)

	// Movements
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementUC, log.Named("http"))
	movements.Get("/", movementHandler.List)
	movements.Get("/report", movementHandler.Report)
	movements.Get("/export", movementHandler.Export)
	movements.Post("/", operators, movementHandler.Create)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Put("/:id", operators, movementHandler.Update)
	movements.Patch("/:id/toggle", operators, movementHandler.Toggle)
}
