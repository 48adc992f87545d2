package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lcv.link/configs/configslog"
	"lcv.link/models"
	"lcv.link/services"
)

// LinkHandler paylaşım linki yönetimi için panel handler'ı.
type LinkHandler struct {
	eventService services.IEventService
	linkService  services.ILinkService
}

func NewLinkHandler() *LinkHandler {
	return &LinkHandler{
		eventService: services.NewEventService(),
		linkService:  services.NewLinkService(),
	}
}

// linkCreateRequest tek uçtan dört link türünü de üretir; type alanına
// göre gerekli alanlar değişir.
type linkCreateRequest struct {
	Type        string `json:"type" validate:"required,oneof=open name numbered personal"`
	DisplayName string `json:"display_name"`
	Count       int    `json:"count"`
	GuestID     string `json:"guest_id"`
}

// ListLinks (GET /panel/events/:eventId/links) linkleri public URL'leriyle döner.
func (h *LinkHandler) ListLinks(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	links, err := h.linkService.ListByEvent(c.UserContext(), event.ID)
	if err != nil {
		configslog.Log.Error("ListLinks Error", zap.String("event_id", event.ID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Linkler listelenemedi"})
	}
	return c.JSON(fiber.Map{"data": links})
}

// CreateLink (POST /panel/events/:eventId/links)
func (h *LinkHandler) CreateLink(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	var req linkCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Lütfen formu kontrol edin", "details": err.Error()})
	}

	ctx := c.UserContext()
	switch req.Type {
	case "open":
		link, err := h.linkService.CreateOpenLink(ctx, event.ID)
		if err != nil {
			return h.linkError(c, event.ID.String(), err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"data": fiber.Map{"link": link, "public_url": h.linkService.BuildPublicURL(event, link.Slug)},
		})
	case "name":
		link, err := h.linkService.CreateNameLink(ctx, event.ID, req.DisplayName)
		if err != nil {
			return h.linkError(c, event.ID.String(), err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"data": fiber.Map{"link": link, "public_url": h.linkService.BuildPublicURL(event, link.Slug)},
		})
	case "numbered":
		links, err := h.linkService.CreateNumberedLinks(ctx, event.ID, req.Count)
		if err != nil {
			return h.linkError(c, event.ID.String(), err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"links": links}})
	case "personal":
		guestID, parseErr := uuidFromString(req.GuestID)
		if parseErr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz guest_id"})
		}
		link, err := h.linkService.CreatePersonalLink(ctx, event.ID, guestID)
		if err != nil {
			return h.linkError(c, event.ID.String(), err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"data": fiber.Map{"link": link, "public_url": h.linkService.BuildPublicURL(event, link.Slug)},
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Bilinmeyen link türü"})
}

// UpdateLink (PUT /panel/events/:eventId/links/:id) süre/limit/ayar günceller.
func (h *LinkHandler) UpdateLink(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	linkID, err := paramUUID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if ok, resp := h.linkBelongsToEvent(c, event, linkID); !ok {
		return resp
	}

	var input services.LinkUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}
	if err := h.linkService.UpdateLink(c.UserContext(), linkID, input); err != nil {
		return h.linkError(c, event.ID.String(), err)
	}
	return c.JSON(fiber.Map{"message": "Link güncellendi"})
}

// DeleteLink (DELETE /panel/events/:eventId/links/:id)
func (h *LinkHandler) DeleteLink(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	linkID, err := paramUUID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if ok, resp := h.linkBelongsToEvent(c, event, linkID); !ok {
		return resp
	}

	if err := h.linkService.DeleteLink(c.UserContext(), linkID); err != nil {
		return h.linkError(c, event.ID.String(), err)
	}
	return c.JSON(fiber.Map{"message": "Link silindi"})
}

func (h *LinkHandler) linkBelongsToEvent(c *fiber.Ctx, event *models.Event, linkID uuid.UUID) (bool, error) {
	link, err := h.linkService.GetLinkByID(c.UserContext(), linkID)
	if err != nil || link.EventID != event.ID {
		return false, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": services.ErrLinkNotFound.Error()})
	}
	return true, nil
}

func (h *LinkHandler) linkError(c *fiber.Ctx, eventID string, err error) error {
	statusCode := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrLinkNotFound), errors.Is(err, services.ErrGuestNotFoundServ):
		statusCode = fiber.StatusNotFound
	case errors.Is(err, services.ErrLinkInvalidInput), errors.Is(err, services.ErrLinkNameRequired):
		statusCode = fiber.StatusBadRequest
	default:
		configslog.Log.Error("Link Error", zap.String("event_id", eventID), zap.Error(err))
	}
	return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
}

func uuidFromString(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}
