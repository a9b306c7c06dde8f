package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/restock-api/internal/application/dto"
	"github.com/jhoicas/restock-api/internal/domain"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/internal/domain/repository"
)

// LocationHandler maneja ubicaciones de Shopify y parámetros del motor (protegido).
type LocationHandler struct {
	locationRepo repository.LocationRepository
	settingsRepo repository.SettingsRepository
}

// NewLocationHandler construye el handler.
func NewLocationHandler(locationRepo repository.LocationRepository, settingsRepo repository.SettingsRepository) *LocationHandler {
	return &LocationHandler{locationRepo: locationRepo, settingsRepo: settingsRepo}
}

// Create godoc
// @Summary      Crear una ubicación
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LocationRequest  true  "name y location_id_global son obligatorios"
// @Success      201   {object}  entity.Location
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/locations [post]
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var in dto.LocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" || in.LocationIDGlobal == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name y location_id_global son obligatorios"})
	}

	loc := &entity.Location{
		Name:              in.Name,
		LocationIDGlobal:  in.LocationIDGlobal,
		LocationIDNumeric: in.LocationIDNumeric,
		Active:            in.Active == nil || *in.Active,
		WebhookEnabled:    in.WebhookEnabled,
		WebhookURL:        in.WebhookURL,
		DestLocationID:    in.DestLocationID,
	}
	if err := h.locationRepo.Create(loc); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "la ubicación ya existe"})
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(loc)
}

// List godoc
// @Summary      Listar ubicaciones
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas (default 50)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  entity.Location
// @Router       /api/locations [get]
func (h *LocationHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	locations, err := h.locationRepo.List(limit, offset)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(locations), "locations": locations})
}

// GetByID godoc
// @Summary      Detalle de una ubicación
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la ubicación"
// @Success      200  {object}  entity.Location
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [get]
func (h *LocationHandler) GetByID(c *fiber.Ctx) error {
	loc, err := h.locationRepo.GetByID(c.Params("id"))
	if err != nil {
		return internalError(c, err)
	}
	if loc == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ubicación no encontrada"})
	}
	return c.JSON(loc)
}

// Update godoc
// @Summary      Editar una ubicación
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la ubicación"
// @Param        body  body  dto.LocationRequest  true  "campos a reescribir"
// @Success      200   {object}  entity.Location
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [put]
func (h *LocationHandler) Update(c *fiber.Ctx) error {
	loc, err := h.locationRepo.GetByID(c.Params("id"))
	if err != nil {
		return internalError(c, err)
	}
	if loc == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ubicación no encontrada"})
	}
	var in dto.LocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	if in.Name != "" {
		loc.Name = in.Name
	}
	if in.LocationIDGlobal != "" {
		loc.LocationIDGlobal = in.LocationIDGlobal
	}
	loc.LocationIDNumeric = in.LocationIDNumeric
	if in.Active != nil {
		loc.Active = *in.Active
	}
	loc.WebhookEnabled = in.WebhookEnabled
	loc.WebhookURL = in.WebhookURL
	loc.DestLocationID = in.DestLocationID

	if err := h.locationRepo.Update(loc); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "id global de Shopify duplicado"})
		}
		return internalError(c, err)
	}
	return c.JSON(loc)
}

// Delete godoc
// @Summary      Eliminar una ubicación
// @Tags         locations
// @Security     Bearer
// @Param        id  path  string  true  "ID de la ubicación"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [delete]
func (h *LocationHandler) Delete(c *fiber.Ctx) error {
	if err := h.locationRepo.Delete(c.Params("id")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ubicación no encontrada"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetSettings godoc
// @Summary      Parámetros actuales del motor de restock
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.Settings
// @Router       /api/settings [get]
func (h *LocationHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.settingsRepo.Load()
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(settings)
}

// UpdateSettings godoc
// @Summary      Reescribir los parámetros del motor de restock
// @Description  Aplica al run siguiente de inmediato; no hay caché de configuración.
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SettingsRequest  true  "parámetros completos"
// @Success      200   {object}  entity.Settings
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/settings [put]
func (h *LocationHandler) UpdateSettings(c *fiber.Ctx) error {
	var in dto.SettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	settings := &entity.Settings{
		StoreDomain:       in.StoreDomain,
		AccessToken:       in.AccessToken,
		APIVersion:        in.APIVersion,
		LocationIDGlobal:  in.LocationIDGlobal,
		LocationIDNumeric: in.LocationIDNumeric,
		EmailTo:           in.EmailTo,
		WebhookEnabled:    in.WebhookEnabled,
		WebhookURL:        in.WebhookURL,
		AssigneeID:        in.AssigneeID,
		AssigneeRequired:  in.AssigneeRequired,
		ProjectID:         in.ProjectID,
		SourceLocationID:  in.SourceLocationID,
		DestLocationID:    in.DestLocationID,
	}
	if err := h.settingsRepo.Save(settings); err != nil {
		return internalError(c, err)
	}
	return c.JSON(settings)
}
