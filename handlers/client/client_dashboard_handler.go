package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lcv.link/configs/configslog"
	"lcv.link/pkg/queryparams"
	"lcv.link/services"
)

// DashboardHandler etkinlik sahibinin salt-okunur istatistik paneli.
// Organizatör oturumundan bağımsızdır; etkinlik bazlı JWT ile korunur.
type DashboardHandler struct {
	userService services.IUserService
	rsvpService services.IRSVPService
}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{
		userService: services.NewUserService(),
		rsvpService: services.NewRSVPService(),
	}
}

type clientLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login (POST /client/login) etkinlik panel kimlik bilgileriyle token üretir.
func (h *DashboardHandler) Login(c *fiber.Ctx) error {
	var req clientLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}

	token, event, err := h.userService.ClientLogin(c.UserContext(), req.Username, req.Password)
	if err != nil {
		statusCode := fiber.StatusUnauthorized
		if !errors.Is(err, services.ErrClientLoginFailed) && !errors.Is(err, services.ErrClientLoginUnavailable) {
			statusCode = fiber.StatusInternalServerError
			configslog.Log.Error("ClientLogin Error", zap.String("username", req.Username), zap.Error(err))
		}
		return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"token": token,
		"event": fiber.Map{
			"id":         event.ID,
			"title":      event.Title,
			"event_date": event.EventDate,
			"location":   event.Location,
		},
	}})
}

// Stats (GET /client/stats) etkinliğin toplamlarını döndürür.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	eventID, ok := c.Locals("clientEventID").(uuid.UUID)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": services.ErrClientTokenInvalid.Error()})
	}

	totals, err := h.rsvpService.EventTotals(c.UserContext(), eventID)
	if err != nil {
		configslog.Log.Error("Client Stats Error", zap.String("event_id", eventID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "İstatistikler hesaplanamadı"})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"men_total":        totals.MenTotal,
		"women_total":      totals.WomenTotal,
		"submission_count": totals.SubmissionCount,
		"total":            totals.Total(),
	}})
}

// Submissions (GET /client/submissions) yanıt listesini sayfalı döndürür.
func (h *DashboardHandler) Submissions(c *fiber.Ctx) error {
	eventID, ok := c.Locals("clientEventID").(uuid.UUID)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": services.ErrClientTokenInvalid.Error()})
	}

	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("submitted_at")
	}
	params.Validate()

	result, err := h.rsvpService.ListByEvent(c.UserContext(), eventID, params)
	if err != nil {
		configslog.Log.Error("Client Submissions Error", zap.String("event_id", eventID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Yanıtlar listelenemedi"})
	}
	return c.JSON(result)
}
