package handlers

import (
	"errors"
	"fmt"

	"github.com/filehost/filehost/internal/services"
	"github.com/filehost/filehost/pkg/logger"
	"github.com/filehost/filehost/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Users *services.UserStoreService
}

func NewAuthHandler(users *services.UserStoreService) *AuthHandler {
	return &AuthHandler{Users: users}
}

type registerRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Email    string `json:"email" form:"email"`
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type resetRequest struct {
	Email string `json:"email" form:"email"`
}

type changePasswordRequest struct {
	Token       string `json:"token" form:"token"`
	NewPassword string `json:"newPassword" form:"newPassword"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	c.Locals("username", req.Username)

	if err := h.Users.Register(c.Context(), req.Username, req.Password, req.Email); err != nil {
		switch {
		case errors.Is(err, services.ErrMissingField):
			return utils.Error(c, fiber.StatusBadRequest, "Username and email are required")
		case errors.Is(err, services.ErrConflict):
			return utils.Error(c, fiber.StatusBadRequest, "Username or email already exists")
		}
		return internalError(c, "user_register_failed", err)
	}

	return utils.Message(c, fiber.StatusOK, "User registered successfully")
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	c.Locals("username", req.Username)

	if err := h.Users.Authenticate(c.Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			logger.WarnWithUser(req.Username, "login_failed", map[string]interface{}{
				"ip": c.IP(),
			})
			return utils.Error(c, fiber.StatusBadRequest, "Invalid username or password")
		}
		return internalError(c, "user_login_failed", err)
	}

	logger.InfoWithUser(req.Username, "login_success", map[string]interface{}{
		"ip": c.IP(),
	})
	return utils.Message(c, fiber.StatusOK, "Login successful")
}

func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req resetRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.Users.RequestPasswordReset(c.Context(), req.Email); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.Error(c, fiber.StatusBadRequest, "Email not found")
		}
		return internalError(c, "password_reset_request_failed", err)
	}

	return utils.Message(c, fiber.StatusOK, "Password reset link has been sent to your email")
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	username, err := h.Users.ChangePassword(c.Context(), req.Token, req.NewPassword)
	if err != nil {
		if errors.Is(err, services.ErrInvalidOrExpiredToken) {
			return utils.Error(c, fiber.StatusBadRequest, "Invalid or expired token")
		}
		return internalError(c, "password_change_failed", err)
	}
	c.Locals("username", username)

	message := fmt.Sprintf("Password updated for %s", username)
	if h.Users.EchoesPassword() {
		message = fmt.Sprintf("New password for %s is %s", username, req.NewPassword)
	}
	return utils.JSON(c, fiber.StatusOK, fiber.Map{
		"message":  message,
		"username": username,
	})
}
