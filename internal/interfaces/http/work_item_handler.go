package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/restock-api/internal/application/dto"
	"github.com/jhoicas/restock-api/internal/application/restock"
	"github.com/jhoicas/restock-api/internal/domain/repository"
)

// WorkItemHandler maneja los work items del tracker (protegido). El cambio de
// estado detecta la transición not-done -> done y dispara la transferencia de
// inventario del item origen.
type WorkItemHandler struct {
	workItemRepo repository.WorkItemRepository
	itemRepo     repository.ItemRepository
	transferUC   *restock.TransferUseCase
}

// NewWorkItemHandler construye el handler.
func NewWorkItemHandler(
	workItemRepo repository.WorkItemRepository,
	itemRepo repository.ItemRepository,
	transferUC *restock.TransferUseCase,
) *WorkItemHandler {
	return &WorkItemHandler{workItemRepo: workItemRepo, itemRepo: itemRepo, transferUC: transferUC}
}

// GetByID godoc
// @Summary      Detalle de un work item con sus items enlazados
// @Tags         work-items
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del work item"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/work-items/{id} [get]
func (h *WorkItemHandler) GetByID(c *fiber.Ctx) error {
	w, err := h.workItemRepo.GetByID(c.Params("id"))
	if err != nil {
		return internalError(c, err)
	}
	if w == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "work item no encontrado"})
	}
	linked, err := h.itemRepo.ListByWorkItem(w.ID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"work_item": w, "done": w.IsDone(), "linked_items": linked})
}

// UpdateStatus godoc
// @Summary      Cambiar el estado de un work item
// @Description  Si el cambio cruza not-done -> done, se ejecuta la
//
//	transferencia de inventario del item origen (a lo sumo una vez
//	por item; las fallas de negocio quedan registradas en el item
//	y no bloquean el cambio de estado).
//
// @Tags         work-items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del work item"
// @Param        body  body  dto.WorkItemStatusRequest  true  "status_code nuevo"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/work-items/{id}/status [put]
func (h *WorkItemHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.WorkItemStatusRequest
	if err := c.BodyParser(&in); err != nil || in.StatusCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "status_code requerido"})
	}

	w, err := h.workItemRepo.GetByID(c.Params("id"))
	if err != nil {
		return internalError(c, err)
	}
	if w == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "work item no encontrado"})
	}

	// Detección de borde: comparar el estado anterior con el nuevo, no mirar
	// solo el estado final. Un done -> done repetido no dispara nada.
	wasDone := w.IsDone()
	if err := h.workItemRepo.UpdateStatus(w.ID, in.StatusCode); err != nil {
		return internalError(c, err)
	}
	after := *w
	after.StatusCode = &in.StatusCode
	nowDone := after.IsDone()

	transferred := false
	if !wasDone && nowDone && w.ItemID != nil {
		if err := h.transferUC.Execute(c.Context(), *w.ItemID, GetUserID(c)); err != nil {
			return internalError(c, err)
		}
		transferred = true
	}

	return c.JSON(fiber.Map{
		"id":           w.ID,
		"status_code":  in.StatusCode,
		"done":         nowDone,
		"transfer_run": transferred,
	})
}
