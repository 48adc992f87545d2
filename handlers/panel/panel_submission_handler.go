package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"lcv.link/configs/configslog"
	"lcv.link/pkg/queryparams"
	"lcv.link/services"
)

// SubmissionHandler LCV yanıtlarının panel tarafı.
type SubmissionHandler struct {
	eventService services.IEventService
	rsvpService  services.IRSVPService
	guestService services.IGuestService
}

func NewSubmissionHandler() *SubmissionHandler {
	return &SubmissionHandler{
		eventService: services.NewEventService(),
		rsvpService:  services.NewRSVPService(),
		guestService: services.NewGuestService(),
	}
}

// ListSubmissions (GET /panel/events/:eventId/submissions)
func (h *SubmissionHandler) ListSubmissions(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("submitted_at")
	}
	params.Validate()

	result, err := h.rsvpService.ListByEvent(c.UserContext(), event.ID, params)
	if err != nil {
		configslog.Log.Error("ListSubmissions Error", zap.String("event_id", event.ID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Yanıtlar listelenemedi"})
	}
	return c.JSON(result)
}

// EventTotals (GET /panel/events/:eventId/submissions/totals)
// Toplamlar yanıt satırlarının ham toplamıdır; aynı davetlinin birden
// fazla gönderimi çift sayılır.
func (h *SubmissionHandler) EventTotals(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	totals, err := h.rsvpService.EventTotals(c.UserContext(), event.ID)
	if err != nil {
		configslog.Log.Error("EventTotals Error", zap.String("event_id", event.ID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Toplamlar hesaplanamadı"})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"men_total":        totals.MenTotal,
		"women_total":      totals.WomenTotal,
		"submission_count": totals.SubmissionCount,
		"total":            totals.Total(),
	}})
}

// GuestSubmissions (GET /panel/events/:eventId/guests/:id/submissions)
func (h *SubmissionHandler) GuestSubmissions(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	guestID, err := paramUUID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	guest, err := h.guestService.GetGuestByID(c.UserContext(), guestID)
	if err != nil || guest.EventID != event.ID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": services.ErrGuestNotFoundServ.Error()})
	}

	submissions, err := h.rsvpService.ListByGuest(c.UserContext(), event.ID, guestID)
	if err != nil {
		configslog.Log.Error("GuestSubmissions Error", zap.String("guest_id", guestID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Yanıtlar listelenemedi"})
	}
	totals, err := h.rsvpService.GuestTotals(c.UserContext(), event.ID, guestID)
	if err != nil {
		configslog.Log.Error("GuestTotals Error", zap.String("guest_id", guestID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Toplamlar hesaplanamadı"})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"guest":       guest,
		"submissions": submissions,
		"totals": fiber.Map{
			"men_total":        totals.MenTotal,
			"women_total":      totals.WomenTotal,
			"submission_count": totals.SubmissionCount,
			"total":            totals.Total(),
		},
	}})
}

// DeleteSubmission (DELETE /panel/events/:eventId/submissions/:id)
func (h *SubmissionHandler) DeleteSubmission(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	submissionID, err := paramUUID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.rsvpService.DeleteSubmission(c.UserContext(), submissionID); err != nil {
		if errors.Is(err, services.ErrRSVPNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("DeleteSubmission Error", zap.String("submission_id", submissionID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Yanıt silinemedi"})
	}
	return c.JSON(fiber.Map{"message": "Yanıt silindi"})
}
