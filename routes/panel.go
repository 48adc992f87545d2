package routes

import (
	panel_handlers "lcv.link/handlers/panel"
	"lcv.link/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerPanelRoutes /panel altındaki organizatör rotalarını tanımlar.
// Tüm alt kaynaklar etkinlik üzerinden adreslenir; sahiplik kontrolü
// handler'lardaki requireEvent ile yapılır.
func registerPanelRoutes(app *fiber.App) {
	eventHandler := panel_handlers.NewEventHandler()
	guestHandler := panel_handlers.NewGuestHandler()
	linkHandler := panel_handlers.NewLinkHandler()
	fieldHandler := panel_handlers.NewFieldHandler()
	languageHandler := panel_handlers.NewLanguageHandler()
	submissionHandler := panel_handlers.NewSubmissionHandler()
	mediaHandler := panel_handlers.NewMediaHandler()
	shortURLHandler := panel_handlers.NewShortURLHandler()

	panelGroup := app.Group("/panel")
	panelGroup.Use(middlewares.AuthMiddleware)

	// --- Etkinlikler ---
	panelGroup.Get("/events", eventHandler.ListEvents)
	panelGroup.Post("/events", eventHandler.CreateEvent)
	panelGroup.Get("/events/:eventId", eventHandler.GetEvent)
	panelGroup.Put("/events/:eventId", eventHandler.UpdateEvent)
	panelGroup.Delete("/events/:eventId", eventHandler.DeleteEvent)
	panelGroup.Post("/events/:eventId/code", eventHandler.EnsureCode)
	panelGroup.Post("/events/:eventId/dashboard", eventHandler.SetDashboardCredentials)

	// --- Davetliler ---
	panelGroup.Get("/events/:eventId/guests", guestHandler.ListGuests)
	panelGroup.Post("/events/:eventId/guests", guestHandler.CreateGuest)
	panelGroup.Post("/events/:eventId/guests/import", guestHandler.ImportGuests)
	panelGroup.Get("/events/:eventId/guests/export", guestHandler.ExportGuests)
	panelGroup.Put("/events/:eventId/guests/:id", guestHandler.UpdateGuest)
	panelGroup.Delete("/events/:eventId/guests/:id", guestHandler.DeleteGuest)
	panelGroup.Post("/events/:eventId/guests/:id/code", guestHandler.EnsureGuestCode)
	panelGroup.Get("/events/:eventId/guests/:id/submissions", submissionHandler.GuestSubmissions)

	// --- Linkler ---
	panelGroup.Get("/events/:eventId/links", linkHandler.ListLinks)
	panelGroup.Post("/events/:eventId/links", linkHandler.CreateLink)
	panelGroup.Put("/events/:eventId/links/:id", linkHandler.UpdateLink)
	panelGroup.Delete("/events/:eventId/links/:id", linkHandler.DeleteLink)

	// --- Özel form alanları ---
	panelGroup.Get("/events/:eventId/fields", fieldHandler.ListFields)
	panelGroup.Post("/events/:eventId/fields", fieldHandler.CreateField)
	panelGroup.Put("/events/:eventId/fields/:id", fieldHandler.UpdateField)
	panelGroup.Delete("/events/:eventId/fields/:id", fieldHandler.DeactivateField)

	// --- Diller ---
	panelGroup.Get("/events/:eventId/languages", languageHandler.ListLanguages)
	panelGroup.Post("/events/:eventId/languages", languageHandler.AddLanguage)
	panelGroup.Put("/events/:eventId/languages/:locale", languageHandler.UpdateTranslations)
	panelGroup.Post("/events/:eventId/languages/:locale/default", languageHandler.SetDefaultLanguage)
	panelGroup.Delete("/events/:eventId/languages/:locale", languageHandler.RemoveLanguage)

	// --- Yanıtlar ---
	panelGroup.Get("/events/:eventId/submissions", submissionHandler.ListSubmissions)
	panelGroup.Get("/events/:eventId/submissions/totals", submissionHandler.EventTotals)
	panelGroup.Delete("/events/:eventId/submissions/:id", submissionHandler.DeleteSubmission)

	// --- Medya ---
	panelGroup.Post("/events/:eventId/media", mediaHandler.UploadMedia)

	// --- Kısa URL'ler (yalnızca sistem kullanıcısı) ---
	shortURLGroup := panelGroup.Group("/short-urls", middlewares.RequireSystem())
	shortURLGroup.Get("/", shortURLHandler.ListShortURLs)
	shortURLGroup.Post("/", shortURLHandler.CreateShortURL)
	shortURLGroup.Put("/:id/active", shortURLHandler.SetShortURLActive)
	shortURLGroup.Delete("/:id", shortURLHandler.DeleteShortURL)
}
