package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lcv.link/configs/configslog"
	"lcv.link/pkg/queryparams"
	"lcv.link/services"
)

// GuestHandler davetli yönetimi için panel handler'ı.
type GuestHandler struct {
	eventService services.IEventService
	guestService services.IGuestService
}

func NewGuestHandler() *GuestHandler {
	return &GuestHandler{
		eventService: services.NewEventService(),
		guestService: services.NewGuestService(),
	}
}

type guestCreateRequest struct {
	FirstName  string `json:"first_name" validate:"required,min=1,max=100"`
	LastName   string `json:"last_name" validate:"max=100"`
	Phone      string `json:"phone"`
	MenCount   int    `json:"men_count" validate:"min=0"`
	WomenCount int    `json:"women_count" validate:"min=0"`
}

type guestUpdateRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Phone      *string `json:"phone"`
	MenCount   *int    `json:"men_count"`
	WomenCount *int    `json:"women_count"`
}

func guestErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrGuestNotFoundServ):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrGuestNameRequired),
		errors.Is(err, services.ErrGuestPhoneInvalid),
		errors.Is(err, services.ErrGuestPhoneDuplicate),
		errors.Is(err, services.ErrGuestInvalidInputServ):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// ListGuests (GET /panel/events/:eventId/guests)
func (h *GuestHandler) ListGuests(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()

	result, err := h.guestService.ListGuests(c.UserContext(), event.ID, params)
	if err != nil {
		configslog.Log.Error("ListGuests Error", zap.String("event_id", event.ID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Davetliler listelenemedi"})
	}
	return c.JSON(result)
}

// CreateGuest (POST /panel/events/:eventId/guests)
func (h *GuestHandler) CreateGuest(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	var req guestCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Lütfen formu kontrol edin", "details": err.Error()})
	}

	guest, err := h.guestService.CreateGuest(c.UserContext(), event.ID, services.GuestCreateInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		MenCount:   req.MenCount,
		WomenCount: req.WomenCount,
	})
	if err != nil {
		statusCode := guestErrorStatus(err)
		if statusCode == fiber.StatusInternalServerError {
			configslog.Log.Error("CreateGuest Error", zap.String("event_id", event.ID.String()), zap.Error(err))
		}
		return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": guest})
}

// UpdateGuest (PUT /panel/events/:eventId/guests/:id)
func (h *GuestHandler) UpdateGuest(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	guestID, err := paramUUID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if ok, resp := h.guestBelongsToEvent(c, event.ID, guestID); !ok {
		return resp
	}

	var req guestUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}

	err = h.guestService.UpdateGuest(c.UserContext(), guestID, services.GuestUpdateInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		MenCount:   req.MenCount,
		WomenCount: req.WomenCount,
	})
	if err != nil {
		statusCode := guestErrorStatus(err)
		if statusCode == fiber.StatusInternalServerError {
			configslog.Log.Error("UpdateGuest Error", zap.String("guest_id", guestID.String()), zap.Error(err))
		}
		return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Davetli güncellendi"})
}

// DeleteGuest (DELETE /panel/events/:eventId/guests/:id)
func (h *GuestHandler) DeleteGuest(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	guestID, err := paramUUID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if ok, resp := h.guestBelongsToEvent(c, event.ID, guestID); !ok {
		return resp
	}

	if err := h.guestService.DeleteGuest(c.UserContext(), guestID); err != nil {
		statusCode := guestErrorStatus(err)
		if statusCode == fiber.StatusInternalServerError {
			configslog.Log.Error("DeleteGuest Error", zap.String("guest_id", guestID.String()), zap.Error(err))
		}
		return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Davetli silindi"})
}

// EnsureGuestCode (POST /panel/events/:eventId/guests/:id/code)
func (h *GuestHandler) EnsureGuestCode(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	guestID, err := paramUUID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if ok, resp := h.guestBelongsToEvent(c, event.ID, guestID); !ok {
		return resp
	}

	code, err := h.guestService.EnsureCode(c.UserContext(), guestID)
	if err != nil {
		configslog.Log.Error("EnsureGuestCode Error", zap.String("guest_id", guestID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Kod üretilemedi"})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"code": code}})
}

// ImportGuests (POST /panel/events/:eventId/guests/import) multipart
// "file" alanındaki CSV'yi içe aktarır. Hatalı satırlar atlanır ve
// satır bazlı hata listesi döner.
func (h *GuestHandler) ImportGuests(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "CSV dosyası (file) gerekli"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Dosya açılamadı"})
	}
	defer file.Close()

	result, err := h.guestService.ImportCSV(c.UserContext(), event.ID, file)
	if err != nil {
		statusCode := fiber.StatusInternalServerError
		if errors.Is(err, services.ErrImportFileEmpty) || errors.Is(err, services.ErrImportMissingColumns) ||
			errors.Is(err, services.ErrGuestInvalidInputServ) {
			statusCode = fiber.StatusBadRequest
		} else {
			configslog.Log.Error("ImportGuests Error", zap.String("event_id", event.ID.String()), zap.Error(err))
		}
		return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": result})
}

// ExportGuests (GET /panel/events/:eventId/guests/export) davetli
// listesini CSV olarak indirir.
func (h *GuestHandler) ExportGuests(c *fiber.Ctx) error {
	event, err := requireEvent(c, h.eventService)
	if event == nil {
		return err
	}

	filename := fmt.Sprintf("davetliler-%s-%s.csv", event.Slug, time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)

	if err := h.guestService.ExportCSV(c.UserContext(), event.ID, c.Response().BodyWriter()); err != nil {
		configslog.Log.Error("ExportGuests Error", zap.String("event_id", event.ID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Dışa aktarma başarısız"})
	}
	return nil
}

// guestBelongsToEvent alt kaynak erişiminde davetlinin gerçekten bu
// etkinliğe ait olduğunu doğrular.
func (h *GuestHandler) guestBelongsToEvent(c *fiber.Ctx, eventID, guestID uuid.UUID) (bool, error) {
	guest, err := h.guestService.GetGuestByID(c.UserContext(), guestID)
	if err != nil || guest.EventID != eventID {
		return false, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": services.ErrGuestNotFoundServ.Error()})
	}
	return true, nil
}
