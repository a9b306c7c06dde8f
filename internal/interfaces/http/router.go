package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/restock-api/internal/application/restock"
	"github.com/jhoicas/restock-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RunUC        *restock.RunUseCase
	ReportUC     *restock.ReportUseCase
	TransferUC   *restock.TransferUseCase
	RunRepo      repository.RunRepository
	ItemRepo     repository.ItemRepository
	LocationRepo repository.LocationRepository
	SettingsRepo repository.SettingsRepository
	WorkItemRepo repository.WorkItemRepository
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Motor de restock (protegido)
	restockGroup := protected.Group("/restock")
	restockHandler := NewRestockHandler(deps.RunUC, deps.ReportUC, deps.RunRepo, deps.ItemRepo, deps.LocationRepo)
	restockGroup.Post("/run", restockHandler.RunNow)
	restockGroup.Post("/run-all", restockHandler.RunAll)
	restockGroup.Get("/runs", restockHandler.ListRuns)
	restockGroup.Get("/runs/:id", restockHandler.GetRun)
	restockGroup.Delete("/runs/:id", restockHandler.DeleteRun)
	restockGroup.Get("/inventory-report", restockHandler.InventoryReport)

	// Ubicaciones (protegido)
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationRepo, deps.SettingsRepo)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", locationHandler.Update)
	locations.Delete("/:id", locationHandler.Delete)

	// Parámetros del motor (protegido)
	settings := protected.Group("/settings")
	settings.Get("/", locationHandler.GetSettings)
	settings.Put("/", locationHandler.UpdateSettings)

	// Work items (protegido)
	workItems := protected.Group("/work-items")
	workItemHandler := NewWorkItemHandler(deps.WorkItemRepo, deps.ItemRepo, deps.TransferUC)
	workItems.Get("/:id", workItemHandler.GetByID)
	workItems.Put("/:id/status", workItemHandler.UpdateStatus)
}
