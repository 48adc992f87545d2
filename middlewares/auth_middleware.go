package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"lcv.link/services"
)

// AuthMiddleware session'dan giriş yapmış kullanıcıyı doğrular.
// userID ve isSystem locals'ı router tarafından doldurulur.
func AuthMiddleware(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Oturum gerekli"})
	}
	return c.Next()
}

// RequireSystem yalnızca sistem (admin) kullanıcılarına izin verir.
func RequireSystem() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isSystem, ok := c.Locals("isSystem").(bool)
		if !ok || !isSystem {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Bu işlem için yetkiniz yok"})
		}
		return c.Next()
	}
}

// ClientAuthMiddleware Authorization: Bearer <token> başlığındaki panel
// token'ını doğrular ve etkinlik ID'sini clientEventID locals'ına koyar.
func ClientAuthMiddleware(userService services.IUserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == "" || tokenString == header {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Oturum gerekli"})
		}
		eventID, err := userService.ParseClientToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": services.ErrClientTokenInvalid.Error()})
		}
		c.Locals("clientEventID", eventID)
		return c.Next()
	}
}
