package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"quizlink/internal/dto"
	"quizlink/internal/service"
)

// SessionHandler handles the student-side session endpoints
type SessionHandler struct {
	service service.SessionService
}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler(service service.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// Join godoc
// @Summary Join a quiz
// @Description Creates a session from a pasted share link
// @Tags session
// @Accept json
// @Produce json
// @Param request body dto.JoinRequest true "Student name and share link"
// @Success 201 {object} dto.JoinResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) Join(c *fiber.Ctx) error {
	var req dto.JoinRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.Join(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Start godoc
// @Summary Start the quiz
// @Tags session
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionStateResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id}/start [post]
func (h *SessionHandler) Start(c *fiber.Ctx) error {
	resp, err := h.service.Start(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// State godoc
// @Summary Get session state
// @Tags session
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionStateResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) State(c *fiber.Ctx) error {
	resp, err := h.service.State(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Select godoc
// @Summary Answer the current question
// @Tags session
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.SelectRequest true "Selected option index"
// @Success 200 {object} dto.SessionStateResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/select [post]
func (h *SessionHandler) Select(c *fiber.Ctx) error {
	var req dto.SelectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.Select(c.Context(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Pause godoc
// @Summary Pause the countdown
// @Tags session
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionStateResponse
// @Router /sessions/{id}/pause [post]
func (h *SessionHandler) Pause(c *fiber.Ctx) error {
	resp, err := h.service.Pause(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Resume godoc
// @Summary Resume the countdown
// @Tags session
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionStateResponse
// @Router /sessions/{id}/resume [post]
func (h *SessionHandler) Resume(c *fiber.Ctx) error {
	resp, err := h.service.Resume(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ReportViolation godoc
// @Summary Report an anti-cheat event
// @Tags session
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.ViolationRequest true "Violation kind"
// @Success 200 {object} dto.SessionStateResponse
// @Router /sessions/{id}/violation [post]
func (h *SessionHandler) ReportViolation(c *fiber.Ctx) error {
	var req dto.ViolationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.ReportViolation(c.Context(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Finish godoc
// @Summary Finish the quiz
// @Description Ends the attempt and returns the result link to hand back
// @Tags session
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.FinishResponse
// @Router /sessions/{id}/finish [post]
func (h *SessionHandler) Finish(c *fiber.Ctx) error {
	resp, err := h.service.Finish(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Review godoc
// @Summary Review answers
// @Description Returns the per-question breakdown after finishing
// @Tags session
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.ReviewResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/review [get]
func (h *SessionHandler) Review(c *fiber.Ctx) error {
	resp, err := h.service.Review(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Export godoc
// @Summary Export the student's own result
// @Description Downloads the finished attempt as an xlsx file
// @Tags session
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Session ID"
// @Success 200 {file} binary
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/export [get]
func (h *SessionHandler) Export(c *fiber.Ctx) error {
	data, err := h.service.Export(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	filename := "my-result-" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// Retake godoc
// @Summary Retake the quiz
// @Description Resets the attempt with a fresh shuffle
// @Tags session
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionStateResponse
// @Router /sessions/{id}/retake [post]
func (h *SessionHandler) Retake(c *fiber.Ctx) error {
	resp, err := h.service.Retake(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Leave godoc
// @Summary Leave the session
// @Tags session
// @Param id path string true "Session ID"
// @Success 204
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Leave(c *fiber.Ctx) error {
	if err := h.service.Leave(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
