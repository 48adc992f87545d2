package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"lcv.link/configs/configslog"
	"lcv.link/services"
)

// LanguageHandler etkinlik bazlı dil/çeviri yönetimi için panel handler'ı.
type LanguageHandler struct {
	eventService    services.IEventService
	languageService services.ILanguageService
}

func NewLanguageHandler() *LanguageHandler {
	return &LanguageHandler{
		eventService:    services.NewEventService(),
		languageService: services.NewLanguageService(),
	}
}

type languageCreateRequest struct {
	Locale    string `json:"locale" validate:"required,min=2,max=10"`
	IsDefault bool   `json:"is_default"`
}

type translationsRequest struct {
	Translations map[string]interface{} `json:"translations" validate:"required"`
}

func languageErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrLanguageNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrLocaleRequired), errors.Is(err, services.ErrLanguageExists):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// ListLanguages (GET /panel/events/:eventId/languages)
func (h *LanguageHandler) ListLanguages(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	languages, err := h.languageService.ListLanguages(c.UserContext(), event.ID)
	if err != nil {
		configslog.Log.Error("ListLanguages Error", zap.String("event_id", event.ID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Diller listelenemedi"})
	}
	return c.JSON(fiber.Map{"data": languages})
}

// AddLanguage (POST /panel/events/:eventId/languages)
func (h *LanguageHandler) AddLanguage(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	var req languageCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Lütfen formu kontrol edin"})
	}

	language, err := h.languageService.AddLanguage(c.UserContext(), event.ID, req.Locale, req.IsDefault)
	if err != nil {
		statusCode := languageErrorStatus(err)
		if statusCode == fiber.StatusInternalServerError {
			configslog.Log.Error("AddLanguage Error", zap.String("event_id", event.ID.String()), zap.Error(err))
		}
		return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": language})
}

// SetDefaultLanguage (POST /panel/events/:eventId/languages/:locale/default)
func (h *LanguageHandler) SetDefaultLanguage(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	locale := c.Params("locale")
	if err := h.languageService.SetDefault(c.UserContext(), event.ID, locale); err != nil {
		statusCode := languageErrorStatus(err)
		if statusCode == fiber.StatusInternalServerError {
			configslog.Log.Error("SetDefaultLanguage Error", zap.String("event_id", event.ID.String()), zap.String("locale", locale), zap.Error(err))
		}
		return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Varsayılan dil güncellendi"})
}

// UpdateTranslations (PUT /panel/events/:eventId/languages/:locale)
// Dilin çeviri haritasını tümüyle değiştirir.
func (h *LanguageHandler) UpdateTranslations(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	locale := c.Params("locale")
	var req translationsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}

	if err := h.languageService.UpdateTranslations(c.UserContext(), event.ID, locale, req.Translations); err != nil {
		statusCode := languageErrorStatus(err)
		if statusCode == fiber.StatusInternalServerError {
			configslog.Log.Error("UpdateTranslations Error", zap.String("event_id", event.ID.String()), zap.String("locale", locale), zap.Error(err))
		}
		return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Çeviriler güncellendi"})
}

// RemoveLanguage (DELETE /panel/events/:eventId/languages/:locale)
func (h *LanguageHandler) RemoveLanguage(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	locale := c.Params("locale")
	if err := h.languageService.RemoveLanguage(c.UserContext(), event.ID, locale); err != nil {
		statusCode := languageErrorStatus(err)
		if statusCode == fiber.StatusInternalServerError {
			configslog.Log.Error("RemoveLanguage Error", zap.String("event_id", event.ID.String()), zap.String("locale", locale), zap.Error(err))
		}
		return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Dil kaldırıldı"})
}
