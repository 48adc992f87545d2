package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"lcv.link/configs/configslog"
	"lcv.link/services"
)

// ShortURLRedirectHandler kök seviyedeki /:slug yakala-ve-yönlendir ucu.
type ShortURLRedirectHandler struct {
	service services.IShortURLService
}

func NewShortURLRedirectHandler() *ShortURLRedirectHandler {
	return &ShortURLRedirectHandler{service: services.NewShortURLService()}
}

// NewShortURLRedirectHandlerWithService testler için DI constructor'ı.
func NewShortURLRedirectHandlerWithService(service services.IShortURLService) *ShortURLRedirectHandler {
	return &ShortURLRedirectHandler{service: service}
}

// Redirect (GET /:slug) slug'ı hedefe 302 ile yönlendirir ve tıklamayı
// sayar. Diğer tüm rotalardan SONRA kaydedilmelidir; aksi halde /auth,
// /panel gibi yollar slug olarak yorumlanır.
func (h *ShortURLRedirectHandler) Redirect(c *fiber.Ctx) error {
	slug := c.Params("slug")
	targetURL, err := h.service.ResolveAndCount(c.UserContext(), slug)
	if err != nil {
		if errors.Is(err, services.ErrShortURLNotFound) {
			return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{
				"Title": "Sayfa Bulunamadı",
			})
		}
		configslog.Log.Error("Kısa URL yönlendirme hatası", zap.String("slug", slug), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Yönlendirme başarısız"})
	}
	return c.Redirect(targetURL, fiber.StatusFound)
}
