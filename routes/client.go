package routes

import (
	client_handlers "lcv.link/handlers/client"
	"lcv.link/middlewares"
	"lcv.link/services"

	"github.com/gofiber/fiber/v2"
)

// registerClientRoutes /client altındaki etkinlik sahibi dashboard
// rotalarını tanımlar. Organizatör oturumu yerine etkinlik bazlı JWT kullanır.
func registerClientRoutes(app *fiber.App) {
	dashboardHandler := client_handlers.NewDashboardHandler()
	userService := services.NewUserService()

	clientGroup := app.Group("/client")
	clientGroup.Post("/login", dashboardHandler.Login)

	protected := clientGroup.Group("", middlewares.ClientAuthMiddleware(userService))
	protected.Get("/stats", dashboardHandler.Stats)
	protected.Get("/submissions", dashboardHandler.Submissions)
}
