package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"lcv.link/configs/configslog"
	"lcv.link/models"
	"lcv.link/services"
)

// FieldHandler özel form alanı yönetimi için panel handler'ı.
type FieldHandler struct {
	eventService services.IEventService
	fieldService services.ICustomFieldService
}

func NewFieldHandler() *FieldHandler {
	return &FieldHandler{
		eventService: services.NewEventService(),
		fieldService: services.NewCustomFieldService(),
	}
}

type fieldRequest struct {
	LinkType  string                 `json:"link_type" validate:"required,oneof=open personal"`
	Key       string                 `json:"key" validate:"required,min=1,max=100"`
	Label     string                 `json:"label"`
	Labels    map[string]interface{} `json:"labels"`
	FieldType string                 `json:"field_type"`
	Options   []string               `json:"options"`
	Required  bool                   `json:"required"`
	SortOrder int                    `json:"sort_order"`
}

func (r fieldRequest) toInput() services.CustomFieldInput {
	return services.CustomFieldInput{
		LinkType:  models.LinkType(r.LinkType),
		Key:       r.Key,
		Label:     r.Label,
		Labels:    r.Labels,
		FieldType: models.FieldType(r.FieldType),
		Options:   r.Options,
		Required:  r.Required,
		SortOrder: r.SortOrder,
	}
}

func fieldErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrFieldNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrFieldKeyRequired),
		errors.Is(err, services.ErrFieldKeyDuplicate),
		errors.Is(err, services.ErrFieldTypeInvalid),
		errors.Is(err, services.ErrFieldLinkTypeWrong):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// ListFields (GET /panel/events/:eventId/fields) pasifler dahil tümünü döner.
func (h *FieldHandler) ListFields(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	fields, err := h.fieldService.ListFields(c.UserContext(), event.ID)
	if err != nil {
		configslog.Log.Error("ListFields Error", zap.String("event_id", event.ID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Alanlar listelenemedi"})
	}
	return c.JSON(fiber.Map{"data": fields})
}

// CreateField (POST /panel/events/:eventId/fields)
func (h *FieldHandler) CreateField(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	var req fieldRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Lütfen formu kontrol edin", "details": err.Error()})
	}

	field, err := h.fieldService.CreateField(c.UserContext(), event.ID, req.toInput())
	if err != nil {
		statusCode := fieldErrorStatus(err)
		if statusCode == fiber.StatusInternalServerError {
			configslog.Log.Error("CreateField Error", zap.String("event_id", event.ID.String()), zap.Error(err))
		}
		return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": field})
}

// UpdateField (PUT /panel/events/:eventId/fields/:id)
func (h *FieldHandler) UpdateField(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	fieldID, err := paramUUID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	var req fieldRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Lütfen formu kontrol edin", "details": err.Error()})
	}

	if err := h.fieldService.UpdateField(c.UserContext(), fieldID, req.toInput()); err != nil {
		statusCode := fieldErrorStatus(err)
		if statusCode == fiber.StatusInternalServerError {
			configslog.Log.Error("UpdateField Error", zap.String("field_id", fieldID.String()), zap.Error(err))
		}
		return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Alan güncellendi"})
}

// DeactivateField (DELETE /panel/events/:eventId/fields/:id) alanı pasife
// çeker; mevcut yanıtlar alan key'lerine referans verdiği için satır silinmez.
func (h *FieldHandler) DeactivateField(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	fieldID, err := paramUUID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.fieldService.DeactivateField(c.UserContext(), fieldID); err != nil {
		statusCode := fieldErrorStatus(err)
		if statusCode == fiber.StatusInternalServerError {
			configslog.Log.Error("DeactivateField Error", zap.String("field_id", fieldID.String()), zap.Error(err))
		}
		return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Alan pasife alındı"})
}
