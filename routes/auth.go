package routes

import (
	auth_handlers "lcv.link/handlers/auth"
	"lcv.link/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerAuthRoutes /auth altındaki oturum rotalarını tanımlar.
func registerAuthRoutes(app *fiber.App) {
	authHandler := auth_handlers.NewAuthHandler()

	authGroup := app.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)

	authGroup.Get("/me", middlewares.AuthMiddleware, authHandler.Me)
	authGroup.Post("/password", middlewares.AuthMiddleware, authHandler.UpdatePassword)
}
