package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"lcv.link/models"
	"lcv.link/services"
)

var validate = validator.New()

// currentUser middleware'in doldurduğu locals'tan kimliği okur.
func currentUser(c *fiber.Ctx) (uuid.UUID, bool) {
	userID, ok := c.Locals("userID").(uuid.UUID)
	isSystem, _ := c.Locals("isSystem").(bool)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, isSystem
}

// paramUUID :name parametresini UUID'e çevirir.
func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, errors.New("geçersiz ID")
	}
	return id, nil
}

// requireEvent :eventId parametresindeki etkinliği sahiplik kontrolüyle yükler.
// Panel'deki tüm alt kaynaklar (davetli, link, alan, dil, yanıt) bu
// kontrolden geçer; alt kaynağa ID ile doğrudan erişim yoktur.
func requireEvent(c *fiber.Ctx, eventService services.IEventService) (*models.Event, error) {
	eventID, err := paramUUID(c, "eventId")
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz etkinlik ID"})
	}
	userID, isSystem := currentUser(c)
	event, err := eventService.GetEventForUser(c.UserContext(), eventID, userID, isSystem)
	if err != nil {
		statusCode := fiber.StatusInternalServerError
		if errors.Is(err, services.ErrEventNotFoundServ) {
			statusCode = fiber.StatusNotFound
		} else if errors.Is(err, services.ErrEventForbidden) {
			statusCode = fiber.StatusForbidden
		}
		return nil, c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
	}
	return event, nil
}
