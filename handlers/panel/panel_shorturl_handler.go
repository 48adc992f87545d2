package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"lcv.link/configs/configslog"
	"lcv.link/pkg/queryparams"
	"lcv.link/services"
)

// ShortURLHandler genel amaçlı kısaltıcının yönetim ucu.
// Rotalar yalnızca sistem kullanıcılarına açılır.
type ShortURLHandler struct {
	service services.IShortURLService
}

func NewShortURLHandler() *ShortURLHandler {
	return &ShortURLHandler{service: services.NewShortURLService()}
}

type shortURLCreateRequest struct {
	TargetURL string `json:"target_url" validate:"required,url"`
	Slug      string `json:"slug"`
}

type shortURLActiveRequest struct {
	Active bool `json:"active"`
}

// ListShortURLs (GET /panel/short-urls)
func (h *ShortURLHandler) ListShortURLs(c *fiber.Ctx) error {
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()

	result, err := h.service.List(c.UserContext(), params)
	if err != nil {
		configslog.Log.Error("ListShortURLs Error", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Kısa URL'ler listelenemedi"})
	}
	return c.JSON(result)
}

// CreateShortURL (POST /panel/short-urls)
func (h *ShortURLHandler) CreateShortURL(c *fiber.Ctx) error {
	var req shortURLCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Lütfen formu kontrol edin"})
	}

	shortURL, err := h.service.CreateShortURL(c.UserContext(), req.TargetURL, req.Slug)
	if err != nil {
		statusCode := fiber.StatusInternalServerError
		if errors.Is(err, services.ErrShortURLTargetBad) || errors.Is(err, services.ErrShortURLSlugTaken) {
			statusCode = fiber.StatusBadRequest
		} else {
			configslog.Log.Error("CreateShortURL Error", zap.Error(err))
		}
		return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": shortURL})
}

// SetShortURLActive (PUT /panel/short-urls/:id/active)
func (h *ShortURLHandler) SetShortURLActive(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	var req shortURLActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}
	if err := h.service.SetActive(c.UserContext(), id, req.Active); err != nil {
		if errors.Is(err, services.ErrShortURLNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("SetShortURLActive Error", zap.String("id", id.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Kısa URL güncellenemedi"})
	}
	return c.JSON(fiber.Map{"message": "Kısa URL güncellendi"})
}

// DeleteShortURL (DELETE /panel/short-urls/:id)
func (h *ShortURLHandler) DeleteShortURL(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, services.ErrShortURLNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("DeleteShortURL Error", zap.String("id", id.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Kısa URL silinemedi"})
	}
	return c.JSON(fiber.Map{"message": "Kısa URL silindi"})
}
