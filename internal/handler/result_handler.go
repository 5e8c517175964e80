package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"quizlink/internal/dto"
	"quizlink/internal/logger"
	"quizlink/internal/service"
)

// ResultHandler handles collecting and aggregating student result links
type ResultHandler struct {
	service service.ResultService
}

// NewResultHandler creates a new ResultHandler instance
func NewResultHandler(service service.ResultService) *ResultHandler {
	return &ResultHandler{service: service}
}

// Collect godoc
// @Summary Collect result links
// @Description Decodes pasted result links and stores them, replacing earlier attempts
// @Tags results
// @Accept json
// @Produce json
// @Param request body dto.CollectRequest true "Pasted result links"
// @Success 200 {object} dto.CollectResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /results/collect [post]
func (h *ResultHandler) Collect(c *fiber.Ctx) error {
	var req dto.CollectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.Collect(c.Context(), req)
	if err != nil {
		return err
	}
	logger.Get().Info("Result links collected",
		zap.Int("accepted", resp.Accepted),
		zap.Int("rejected", resp.Rejected),
	)
	return c.JSON(resp)
}

// Aggregate godoc
// @Summary Aggregate collected results
// @Description Returns averages, pass rate and the per-question breakdown
// @Tags results
// @Produce json
// @Param quiz_id path string true "Quiz ID"
// @Success 200 {object} dto.AggregateResponse
// @Router /results/{quiz_id} [get]
func (h *ResultHandler) Aggregate(c *fiber.Ctx) error {
	resp, err := h.service.Aggregate(c.Context(), c.Params("quiz_id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Export godoc
// @Summary Export results as a workbook
// @Description Downloads the collected results as an xlsx file
// @Tags results
// @Security ApiKeyAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param quiz_id path string true "Quiz ID"
// @Success 200 {file} binary
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /results/{quiz_id}/export [get]
func (h *ResultHandler) Export(c *fiber.Ctx) error {
	quizID := c.Params("quiz_id")
	data, err := h.service.Export(c.Context(), quizID)
	if err != nil {
		return err
	}

	filename := "quiz-results-" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// Clear godoc
// @Summary Clear collected results
// @Tags results
// @Security ApiKeyAuth
// @Param quiz_id path string true "Quiz ID"
// @Success 204
// @Failure 401 {object} middleware.ErrorResponse
// @Router /results/{quiz_id} [delete]
func (h *ResultHandler) Clear(c *fiber.Ctx) error {
	if err := h.service.Clear(c.Context(), c.Params("quiz_id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
