package routes

import (
	public_handlers "lcv.link/handlers/public"

	"github.com/gofiber/fiber/v2"
)

// registerPublicRoutes davet linki çözümleme, LCV API'si ve kök seviye
// kısaltıcı rotalarını tanımlar.
//
// Rota sırası önemlidir: "open" ve "name/:name" kalıpları ":guestToken"
// joker'inden ÖNCE kaydedilmelidir; /:slug ise her şeyden sonra gelir.
func registerPublicRoutes(app *fiber.App) {
	rsvpHandler := public_handlers.NewRSVPHandler()
	redirectHandler := public_handlers.NewShortURLRedirectHandler()

	// Bot önizleme / insan yönlendirme uçları
	app.Get("/rsvp/:eventToken/open", rsvpHandler.ShowOpen)
	app.Get("/rsvp/:eventToken/name/:name", rsvpHandler.ShowName)
	app.Get("/rsvp/:eventToken/:guestToken", rsvpHandler.ShowPersonal)

	// JSON çözümleme ve yanıt API'si
	apiGroup := app.Group("/api/rsvp")
	apiGroup.Get("/:eventToken/open", rsvpHandler.ResolveOpen)
	apiGroup.Get("/:eventToken/name/:name", rsvpHandler.ResolveName)
	apiGroup.Post("/:eventToken/submit", rsvpHandler.Submit)
	apiGroup.Get("/:eventToken/:guestToken", rsvpHandler.Resolve)

	// Genel amaçlı kısaltıcı: kök seviye tek segment, en sonda.
	app.Get("/:slug", redirectHandler.Redirect)
}
