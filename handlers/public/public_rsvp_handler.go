package handlers

import (
	"errors"
	"regexp"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lcv.link/configs"
	"lcv.link/configs/configslog"
	"lcv.link/models"
	"lcv.link/services"
)

// botUserAgentPattern link önizlemesi çeken mesajlaşma/sosyal medya
// botlarını yakalar. Botlar OG meta'lı HTML alır, insanlar client
// uygulamasına yönlendirilir.
var botUserAgentPattern = regexp.MustCompile(`(?i)WhatsApp|facebookexternalhit|Facebot|Twitterbot|TelegramBot|bot|crawler|spider|LinkedInBot`)

// RSVPHandler public davet linklerinin çözümleme ve yanıt uçları.
type RSVPHandler struct {
	resolverService services.IResolverService
	rsvpService     services.IRSVPService
	fieldService    services.ICustomFieldService
	languageService services.ILanguageService
	clientAppURL    string
}

func NewRSVPHandler() *RSVPHandler {
	return &RSVPHandler{
		resolverService: services.NewResolverService(),
		rsvpService:     services.NewRSVPService(),
		fieldService:    services.NewCustomFieldService(),
		languageService: services.NewLanguageService(),
		clientAppURL:    configs.GetConfig().ClientAppURL,
	}
}

// NewRSVPHandlerWithServices testler için DI constructor'ı.
func NewRSVPHandlerWithServices(resolver services.IResolverService, rsvp services.IRSVPService, fields services.ICustomFieldService, languages services.ILanguageService, clientAppURL string) *RSVPHandler {
	return &RSVPHandler{
		resolverService: resolver,
		rsvpService:     rsvp,
		fieldService:    fields,
		languageService: languages,
		clientAppURL:    clientAppURL,
	}
}

type submitRequest struct {
	GuestToken string                 `json:"guest_token"`
	LinkSlug   string                 `json:"link_slug"`
	FirstName  string                 `json:"first_name"`
	LastName   string                 `json:"last_name"`
	MenCount   int                    `json:"men_count"`
	WomenCount int                    `json:"women_count"`
	Answers    map[string]interface{} `json:"answers"`
}

// ShowPersonal (GET /rsvp/:eventToken/:guestToken)
func (h *RSVPHandler) ShowPersonal(c *fiber.Ctx) error {
	resolution, err := h.resolverService.Resolve(c.UserContext(), c.Params("eventToken"), c.Params("guestToken"))
	return h.renderOrRedirect(c, resolution, err)
}

// ShowName (GET /rsvp/:eventToken/name/:name)
func (h *RSVPHandler) ShowName(c *fiber.Ctx) error {
	resolution, err := h.resolverService.ResolveName(c.UserContext(), c.Params("eventToken"), c.Params("name"))
	return h.renderOrRedirect(c, resolution, err)
}

// ShowOpen (GET /rsvp/:eventToken/open)
func (h *RSVPHandler) ShowOpen(c *fiber.Ctx) error {
	resolution, err := h.resolverService.ResolveOpen(c.UserContext(), c.Params("eventToken"))
	return h.renderOrRedirect(c, resolution, err)
}

// renderOrRedirect UA'ya göre bot önizleme sayfası ya da client
// uygulamasına 302 döndürür. Çözümleme hataları bot ve insan için aynı
// 404 sayfasına düşer (token enumeration'a bilgi sızdırmamak için tek tip).
func (h *RSVPHandler) renderOrRedirect(c *fiber.Ctx, resolution *services.Resolution, err error) error {
	isBot := botUserAgentPattern.MatchString(c.Get(fiber.HeaderUserAgent))

	if err != nil {
		if !errors.Is(err, services.ErrEventNotFound) && !errors.Is(err, services.ErrGuestNotFound) &&
			!errors.Is(err, services.ErrLinkExpired) && !errors.Is(err, services.ErrLinkUsedUp) &&
			!errors.Is(err, services.ErrInvalidRSVPPath) {
			configslog.Log.Error("RSVP çözümleme hatası", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{
			"Title": "Davetiye Bulunamadı",
		})
	}

	event := resolution.Event
	locale := h.languageService.ResolveLocale(c.UserContext(), event.ID, c.Query("lang"))

	if isBot {
		description := h.languageService.Translate(c.UserContext(), event.ID, locale, "og.description")
		imageURL := ""
		if event.Theme != nil {
			if v, ok := event.Theme["og_image"].(string); ok {
				imageURL = v
			}
		}
		return c.Render("rsvp_og", fiber.Map{
			"Title":       event.Title,
			"Description": description,
			"ImageURL":    imageURL,
			"PageURL":     configs.GetConfig().BaseURL + c.Path(),
			"Locale":      locale,
		})
	}

	target := h.clientAppURL + c.Path()
	if qs := string(c.Request().URI().QueryString()); qs != "" {
		target += "?" + qs
	}
	return c.Redirect(target, fiber.StatusFound)
}

// Resolve (GET /api/rsvp/:eventToken/:guestToken ve türevleri) client
// uygulamasının form kurulumu için JSON çözümleme yükü döndürür.
func (h *RSVPHandler) Resolve(c *fiber.Ctx) error {
	resolution, err := h.resolverService.Resolve(c.UserContext(), c.Params("eventToken"), c.Params("guestToken"))
	return h.resolutionJSON(c, resolution, err)
}

// ResolveName (GET /api/rsvp/:eventToken/name/:name)
func (h *RSVPHandler) ResolveName(c *fiber.Ctx) error {
	resolution, err := h.resolverService.ResolveName(c.UserContext(), c.Params("eventToken"), c.Params("name"))
	return h.resolutionJSON(c, resolution, err)
}

// ResolveOpen (GET /api/rsvp/:eventToken/open)
func (h *RSVPHandler) ResolveOpen(c *fiber.Ctx) error {
	resolution, err := h.resolverService.ResolveOpen(c.UserContext(), c.Params("eventToken"))
	return h.resolutionJSON(c, resolution, err)
}

func (h *RSVPHandler) resolutionJSON(c *fiber.Ctx, resolution *services.Resolution, err error) error {
	if err != nil {
		statusCode := fiber.StatusNotFound
		if errors.Is(err, services.ErrLinkExpired) || errors.Is(err, services.ErrLinkUsedUp) {
			statusCode = fiber.StatusGone
		} else if !errors.Is(err, services.ErrEventNotFound) && !errors.Is(err, services.ErrGuestNotFound) &&
			!errors.Is(err, services.ErrInvalidRSVPPath) {
			statusCode = fiber.StatusInternalServerError
			configslog.Log.Error("API çözümleme hatası", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
	}

	ctx := c.UserContext()
	event := resolution.Event
	locale := h.languageService.ResolveLocale(ctx, event.ID, c.Query("lang"))

	linkType := models.LinkTypeOpen
	if resolution.Kind == services.ResolutionPersonalCode || resolution.Kind == services.ResolutionPersonalPhone {
		linkType = models.LinkTypePersonal
	}
	fields, err := h.fieldService.ListActiveFields(ctx, event.ID, linkType)
	if err != nil {
		configslog.Log.Error("Aktif alanlar yüklenemedi", zap.String("event_id", event.ID.String()), zap.Error(err))
		fields = nil
	}

	payload := fiber.Map{
		"kind": resolution.Kind,
		"event": fiber.Map{
			"id":          event.ID,
			"title":       event.Title,
			"description": event.Description,
			"event_date":  event.EventDate,
			"location":    event.Location,
			"theme":       event.Theme,
			"settings":    event.Settings,
		},
		"fields":       fields,
		"locale":       locale,
		"translations": h.languageService.TranslationsFor(ctx, event.ID, locale),
	}
	if resolution.Guest != nil {
		payload["guest"] = fiber.Map{
			"id":          resolution.Guest.ID,
			"first_name":  resolution.Guest.FirstName,
			"last_name":   resolution.Guest.LastName,
			"men_count":   resolution.Guest.MenCount,
			"women_count": resolution.Guest.WomenCount,
		}
	}
	if resolution.DisplayName != "" {
		payload["display_name"] = resolution.DisplayName
	}
	return c.JSON(fiber.Map{"data": payload})
}

// Submit (POST /api/rsvp/:eventToken/submit) LCV yanıtını kaydeder.
// guest_token verilirse davetli yeniden çözülür ve yanıt ona bağlanır;
// verilmezse yanıt anonim (open/name formu) kabul edilir.
func (h *RSVPHandler) Submit(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}

	ctx := c.UserContext()
	eventToken := c.Params("eventToken")

	var (
		event   *models.Event
		guestID *uuid.UUID
		linkID  *uuid.UUID
	)
	if req.GuestToken != "" {
		resolution, err := h.resolverService.Resolve(ctx, eventToken, req.GuestToken)
		if err != nil {
			return h.submitResolveError(c, err)
		}
		event = resolution.Event
		if resolution.Guest != nil {
			id := resolution.Guest.ID
			guestID = &id
		}
		if resolution.Link != nil {
			id := resolution.Link.ID
			linkID = &id
		}
	} else {
		resolved, err := h.resolverService.ResolveEvent(ctx, eventToken)
		if err != nil {
			return h.submitResolveError(c, err)
		}
		event = resolved
	}

	// Anonim (open/name) formlar hangi link üzerinden geldiklerini slug ile
	// bildirir. Bağlama başarısızlığı yanıtı düşürmez; yanıt linksiz kaydedilir.
	if linkID == nil && req.LinkSlug != "" {
		link, lookupErr := h.resolverService.FindLink(ctx, event.ID, req.LinkSlug)
		if lookupErr == nil {
			id := link.ID
			linkID = &id
		} else if !errors.Is(lookupErr, services.ErrInvalidRSVPPath) {
			configslog.Log.Warn("Yanıt link satırına bağlanamadı",
				zap.String("event_id", event.ID.String()), zap.String("slug", req.LinkSlug), zap.Error(lookupErr))
		}
	}

	input := services.SubmitInput{
		EventID:    event.ID,
		GuestID:    guestID,
		LinkID:     linkID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		MenCount:   req.MenCount,
		WomenCount: req.WomenCount,
		Answers:    req.Answers,
	}
	submissionID, err := h.rsvpService.Submit(ctx, input)
	if err != nil {
		statusCode := fiber.StatusInternalServerError
		if errors.Is(err, services.ErrRSVPInvalidInput) || errors.Is(err, services.ErrRSVPNegativeCount) {
			statusCode = fiber.StatusBadRequest
		} else {
			configslog.Log.Error("Submit Error", zap.String("event_id", event.ID.String()), zap.Error(err))
		}
		return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
	}

	locale := h.languageService.ResolveLocale(ctx, event.ID, c.Query("lang"))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"id":      submissionID,
			"message": h.languageService.Translate(ctx, event.ID, locale, "rsvp.thanks"),
		},
	})
}

func (h *RSVPHandler) submitResolveError(c *fiber.Ctx, err error) error {
	statusCode := fiber.StatusNotFound
	if errors.Is(err, services.ErrLinkExpired) || errors.Is(err, services.ErrLinkUsedUp) {
		statusCode = fiber.StatusGone
	} else if !errors.Is(err, services.ErrEventNotFound) && !errors.Is(err, services.ErrGuestNotFound) &&
		!errors.Is(err, services.ErrInvalidRSVPPath) {
		statusCode = fiber.StatusInternalServerError
		configslog.Log.Error("Submit çözümleme hatası", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
}
