package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"lcv.link/configs/configslog"
	"lcv.link/services"
)

// MediaHandler etkinlik görseli/PDF yükleme için panel handler'ı.
type MediaHandler struct {
	eventService services.IEventService
	mediaService services.IMediaService
}

func NewMediaHandler() *MediaHandler {
	return &MediaHandler{
		eventService: services.NewEventService(),
		mediaService: services.NewMediaService(),
	}
}

// UploadMedia (POST /panel/events/:eventId/media) multipart "file" alanını
// yükler; "locale" form alanı dosyayı dile bağlar (varsayılan "tr").
func (h *MediaHandler) UploadMedia(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Dosya (file) gerekli"})
	}
	locale := c.FormValue("locale", "tr")

	publicURL, err := h.mediaService.UploadEventMedia(c.UserContext(), event.ID.String(), locale, fileHeader)
	if err != nil {
		statusCode := fiber.StatusInternalServerError
		if errors.Is(err, services.ErrMediaFileEmpty) || errors.Is(err, services.ErrMediaFileTooLarge) ||
			errors.Is(err, services.ErrMediaTypeUnsupported) {
			statusCode = fiber.StatusBadRequest
		} else {
			configslog.Log.Error("UploadMedia Error", zap.String("event_id", event.ID.String()), zap.Error(err))
		}
		return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"url": publicURL}})
}
