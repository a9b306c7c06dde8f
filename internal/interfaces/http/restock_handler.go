package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/restock-api/internal/application/dto"
	"github.com/jhoicas/restock-api/internal/application/restock"
	"github.com/jhoicas/restock-api/internal/domain"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/repository"
)

// RestockHandler maneja las peticiones HTTP del motor de restock (protegido).
type RestockHandler struct {
	runUC        *restock.RunUseCase
	reportUC     *restock.ReportUseCase
	runRepo      repository.RunRepository
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
}

// NewRestockHandler construye el handler.
func NewRestockHandler(
	runUC *restock.RunUseCase,
	reportUC *restock.ReportUseCase,
	runRepo repository.RunRepository,
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
) *RestockHandler {
	return &RestockHandler{
		runUC:        runUC,
		reportUC:     reportUC,
		runRepo:      runRepo,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
	}
}

// RunNow godoc
// @Summary      Ejecutar una evaluación de restock ahora
// @Tags         restock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RunNowRequest  false  "location_id (vacío = global), email_to y assignee_id como overrides del run"
// @Success      200   {object}  dto.RunResultDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/restock/run [post]
func (h *RestockHandler) RunNow(c *fiber.Ctx) error {
	var in dto.RunNowRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}

	rc := restock.RunContext{
		ActorID:       GetUserID(c),
		AssigneeID:    in.AssigneeID,
		EmailOverride: in.EmailTo,
	}
	if in.LocationID != "" {
		loc, err := h.locationRepo.GetByID(in.LocationID)
		if err != nil {
			return internalError(c, err)
		}
		if loc == nil {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ubicación no encontrada"})
		}
		rc.Location = loc
	}

	sendEmail := in.SendEmail == nil || *in.SendEmail
	result, err := h.runUC.Execute(c.Context(), rc, sendEmail)
	if err != nil {
		return runError(c, err)
	}
	return c.JSON(result)
}

// RunAll godoc
// @Summary      Ejecutar la evaluación para todas las ubicaciones activas
// @Tags         restock
// @Security     Bearer
// @Produce      json
// @Param        send_email  query  bool  false  "false = no enviar correos (default true)"
// @Success      200  {array}  dto.RunResultDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/restock/run-all [post]
func (h *RestockHandler) RunAll(c *fiber.Ctx) error {
	sendEmail := c.QueryBool("send_email", true)
	results, err := h.runUC.ExecuteAll(c.Context(), h.locationRepo, GetUserID(c), sendEmail)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(results), "runs": results})
}

// ListRuns godoc
// @Summary      Listar runs, del más reciente al más antiguo
// @Tags         restock
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas (default 50)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.RunSummaryDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/restock/runs [get]
func (h *RestockHandler) ListRuns(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	runs, err := h.runRepo.List(limit, offset)
	if err != nil {
		return internalError(c, err)
	}
	out := make([]dto.RunSummaryDTO, 0, len(runs))
	for _, run := range runs {
		out = append(out, toRunSummary(run))
	}
	return c.JSON(fiber.Map{"total": len(out), "runs": out})
}

// GetRun godoc
// @Summary      Detalle de un run con sus items
// @Tags         restock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del run"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/restock/runs/{id} [get]
func (h *RestockHandler) GetRun(c *fiber.Ctx) error {
	id := c.Params("id")
	run, err := h.runRepo.GetByID(id)
	if err != nil {
		return internalError(c, err)
	}
	if run == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "run no encontrado"})
	}
	items, err := h.itemRepo.ListByRun(run.ID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"run": toRunSummary(run), "items": items})
}

// DeleteRun godoc
// @Summary      Eliminar un run (sus items caen en cascada)
// @Tags         restock
// @Security     Bearer
// @Param        id  path  string  true  "ID del run"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/restock/runs/{id} [delete]
func (h *RestockHandler) DeleteRun(c *fiber.Ctx) error {
	if err := h.runRepo.Delete(c.Params("id")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "run no encontrado"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// InventoryReport godoc
// @Summary      Reporte plano de inventario en la ubicación
// @Description  Todas las variantes con cantidad distinta de cero, sin
//
//	umbrales ni filtro de canal.
//
// @Tags         restock
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Location (UUID). Vacío = configuración global."
// @Success      200  {object}  dto.InventoryReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/restock/inventory-report [get]
func (h *RestockHandler) InventoryReport(c *fiber.Ctx) error {
	var loc *entity.Location
	if id := c.Query("location_id"); id != "" {
		found, err := h.locationRepo.GetByID(id)
		if err != nil {
			return internalError(c, err)
		}
		if found == nil {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ubicación no encontrada"})
		}
		loc = found
	}
	rep, err := h.reportUC.Generate(c.Context(), loc)
	if err != nil {
		return runError(c, err)
	}
	return c.JSON(rep)
}

func toRunSummary(run *entity.Run) dto.RunSummaryDTO {
	return dto.RunSummaryDTO{
		ID:                   run.ID,
		Name:                 run.Name,
		ReportTimestamp:      run.ReportTimestamp,
		TotalProductsFound:   run.TotalProductsFound,
		TotalProductsChecked: run.TotalProductsChecked,
		AlertCount:           run.AlertCount,
		HasAlerts:            run.HasAlerts,
		EmailSent:            run.EmailSent,
		ErrorMessage:         run.ErrorMessage,
		LocationID:           run.LocationID,
	}
}

// runError mapea errores del motor a códigos HTTP: configuración incompleta
// es 400, fallas del API remoto son 502.
func runError(c *fiber.Ctx, err error) error {
	var cfgErr *domain.ConfigError
	if errors.As(err, &cfgErr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "CONFIG", Message: err.Error()})
	}
	var apiErr *domain.RemoteAPIError
	if errors.As(err, &apiErr) {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "REMOTE_API", Message: err.Error()})
	}
	return internalError(c, err)
}

func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
