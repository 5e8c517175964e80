package handler

import (
	"github.com/gofiber/fiber/v2"

	"quizlink/internal/dto"
	"quizlink/internal/service"
)

// AuthHandler handles the export passphrase endpoints
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// SetPassphrase godoc
// @Summary Set the export passphrase
// @Tags auth
// @Accept json
// @Param request body dto.SetPassphraseRequest true "Passphrase"
// @Success 204
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /auth/passphrase [post]
func (h *AuthHandler) SetPassphrase(c *fiber.Ctx) error {
	var req dto.SetPassphraseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.SetPassphrase(c.Context(), req.Passphrase); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HasPassphrase godoc
// @Summary Check whether a passphrase is set
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /auth/passphrase [get]
func (h *AuthHandler) HasPassphrase(c *fiber.Ctx) error {
	has, err := h.service.HasPassphrase(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"has_passphrase": has})
}

// Unlock godoc
// @Summary Unlock result export
// @Description Exchanges the passphrase for a short-lived export token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.UnlockRequest true "Passphrase"
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/unlock [post]
func (h *AuthHandler) Unlock(c *fiber.Ctx) error {
	var req dto.UnlockRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.Unlock(c.Context(), req.Passphrase)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
