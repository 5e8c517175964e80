package handler

import (
	"github.com/gofiber/fiber/v2"

	"quizlink/internal/dto"
	"quizlink/internal/service"
)

// PreferencesHandler handles small per-installation preferences
type PreferencesHandler struct {
	service service.PreferencesService
}

// NewPreferencesHandler creates a new PreferencesHandler instance
func NewPreferencesHandler(service service.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{service: service}
}

// GetTheme godoc
// @Summary Get the saved theme
// @Tags preferences
// @Produce json
// @Success 200 {object} dto.ThemeResponse
// @Router /preferences/theme [get]
func (h *PreferencesHandler) GetTheme(c *fiber.Ctx) error {
	resp, err := h.service.GetTheme(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SetTheme godoc
// @Summary Save the theme
// @Tags preferences
// @Accept json
// @Param request body dto.ThemeRequest true "Theme"
// @Success 204
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /preferences/theme [put]
func (h *PreferencesHandler) SetTheme(c *fiber.Ctx) error {
	var req dto.ThemeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.SetTheme(c.Context(), req); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
