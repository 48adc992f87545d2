package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"lcv.link/configs/configslog"
	"lcv.link/pkg/queryparams"
	"lcv.link/services"
)

// EventHandler etkinlik yönetimi için panel handler'ı.
type EventHandler struct {
	service services.IEventService
}

func NewEventHandler() *EventHandler {
	return &EventHandler{service: services.NewEventService()}
}

type eventCreateRequest struct {
	Title       string                 `json:"title" validate:"required,min=2,max=255"`
	Description string                 `json:"description"`
	EventDate   *time.Time             `json:"event_date"`
	Location    string                 `json:"location"`
	Theme       map[string]interface{} `json:"theme"`
	Settings    map[string]interface{} `json:"settings"`
}

type eventUpdateRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	EventDate   *time.Time             `json:"event_date"`
	Location    *string                `json:"location"`
	Theme       map[string]interface{} `json:"theme"`
	Settings    map[string]interface{} `json:"settings"`
}

type dashboardCredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Enabled  bool   `json:"enabled"`
}

// ListEvents (GET /panel/events)
func (h *EventHandler) ListEvents(c *fiber.Ctx) error {
	userID, _ := currentUser(c)
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()

	result, err := h.service.ListEventsForUser(c.UserContext(), userID, params)
	if err != nil {
		configslog.Log.Error("ListEvents Error", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Etkinlikler listelenemedi"})
	}
	return c.JSON(result)
}

// CreateEvent (POST /panel/events)
func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	userID, _ := currentUser(c)
	var req eventCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Lütfen formu kontrol edin", "details": err.Error()})
	}

	event, err := h.service.CreateEvent(c.UserContext(), userID, services.EventCreateInput{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		Location:    req.Location,
		Theme:       req.Theme,
		Settings:    req.Settings,
	})
	if err != nil {
		statusCode := fiber.StatusInternalServerError
		if errors.Is(err, services.ErrEventTitleRequired) || errors.Is(err, services.ErrEventInvalidInput) {
			statusCode = fiber.StatusBadRequest
		} else {
			configslog.Log.Error("CreateEvent Error", zap.Error(err))
		}
		return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": event})
}

// GetEvent (GET /panel/events/:eventId)
func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.service)
	if event == nil {
		return err
	}
	return c.JSON(fiber.Map{"data": event})
}

// UpdateEvent (PUT /panel/events/:eventId)
func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.service)
	if event == nil {
		return err
	}
	var req eventUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}

	err = h.service.UpdateEvent(c.UserContext(), event.ID, services.EventUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		Location:    req.Location,
		Theme:       req.Theme,
		Settings:    req.Settings,
	})
	if err != nil {
		statusCode := fiber.StatusInternalServerError
		if errors.Is(err, services.ErrEventTitleRequired) || errors.Is(err, services.ErrEventInvalidInput) {
			statusCode = fiber.StatusBadRequest
		} else {
			configslog.Log.Error("UpdateEvent Error", zap.String("event_id", event.ID.String()), zap.Error(err))
		}
		return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Etkinlik güncellendi"})
}

// DeleteEvent (DELETE /panel/events/:eventId) etkinliği tüm alt
// kayıtlarıyla birlikte siler.
func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.service)
	if event == nil {
		return err
	}
	if err := h.service.DeleteEvent(c.UserContext(), event.ID); err != nil {
		configslog.Log.Error("DeleteEvent Error", zap.String("event_id", event.ID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": services.ErrEventDeletionFailed.Error()})
	}
	return c.JSON(fiber.Map{"message": "Etkinlik silindi"})
}

// EnsureCode (POST /panel/events/:eventId/code) etkinliğe kısa kod atar.
// Kod zaten varsa mevcut kod döner; çağrı idempotenttir.
func (h *EventHandler) EnsureCode(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.service)
	if event == nil {
		return err
	}
	code, err := h.service.EnsureCode(c.UserContext(), event.ID)
	if err != nil {
		configslog.Log.Error("EnsureCode Error", zap.String("event_id", event.ID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Kod üretilemedi"})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"code": code}})
}

// SetDashboardCredentials (POST /panel/events/:eventId/dashboard)
func (h *EventHandler) SetDashboardCredentials(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.service)
	if event == nil {
		return err
	}
	var req dashboardCredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}

	err = h.service.SetDashboardCredentials(c.UserContext(), event.ID, req.Username, req.Password, req.Enabled)
	if err != nil {
		statusCode := fiber.StatusInternalServerError
		if errors.Is(err, services.ErrDashboardInputInvalid) {
			statusCode = fiber.StatusBadRequest
		} else {
			configslog.Log.Error("SetDashboardCredentials Error", zap.String("event_id", event.ID.String()), zap.Error(err))
		}
		return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Client dashboard ayarları güncellendi"})
}
