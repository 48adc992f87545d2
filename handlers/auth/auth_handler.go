package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lcv.link/configs/configslog"
	"lcv.link/services"
	"lcv.link/utils"
)

var validate = validator.New()

// AuthHandler organizatör oturum işlemleri için handler.
type AuthHandler struct {
	userService services.IUserService
}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{userService: services.NewUserService()}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// Register (POST /auth/register)
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Lütfen formu kontrol edin", "details": err.Error()})
	}

	user, err := h.userService.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		statusCode := fiber.StatusInternalServerError
		if errors.Is(err, services.ErrEmailTaken) || errors.Is(err, services.ErrPasswordTooShort) {
			statusCode = fiber.StatusBadRequest
		} else {
			configslog.Log.Error("Register Error", zap.Error(err))
		}
		return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": user})
}

// Login (POST /auth/login) oturum açar ve session cookie yazar.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Lütfen formu kontrol edin"})
	}

	user, err := h.userService.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("Login Error", zap.String("email", req.Email), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Giriş yapılamadı"})
	}

	sess, err := utils.SessionStart(c)
	if err != nil {
		configslog.Log.Error("Login: session başlatılamadı", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Oturum başlatılamadı"})
	}
	if err := utils.SetUserSession(sess, user.ID, user.Name, user.IsSystem); err != nil {
		configslog.Log.Error("Login: session yazılamadı", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Oturum başlatılamadı"})
	}
	return c.JSON(fiber.Map{"data": user})
}

// Logout (POST /auth/logout)
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, err := utils.SessionStart(c)
	if err == nil {
		_ = utils.DestroySession(sess)
	}
	return c.JSON(fiber.Map{"message": "Çıkış yapıldı"})
}

// Me (GET /auth/me) oturum sahibinin profilini döndürür.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uuid.UUID)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Oturum gerekli"})
	}
	user, err := h.userService.GetUser(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": services.ErrUserNotFound.Error()})
	}
	return c.JSON(fiber.Map{"data": user})
}

// UpdatePassword (POST /auth/password)
func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uuid.UUID)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Oturum gerekli"})
	}
	var req passwordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Lütfen formu kontrol edin"})
	}

	err := h.userService.UpdatePassword(c.UserContext(), userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		statusCode := fiber.StatusInternalServerError
		if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrPasswordTooShort) {
			statusCode = fiber.StatusBadRequest
		} else {
			configslog.Log.Error("UpdatePassword Error", zap.String("user_id", userID.String()), zap.Error(err))
		}
		return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Şifre güncellendi"})
}
