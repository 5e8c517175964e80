package handler

import (
	"bytes"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"quizlink/internal/dto"
	"quizlink/internal/logger"
	"quizlink/internal/qr"
	"quizlink/internal/service"
)

// AuthoringHandler handles the teacher-side question and share link endpoints
type AuthoringHandler struct {
	service service.AuthoringService
}

// NewAuthoringHandler creates a new AuthoringHandler instance
func NewAuthoringHandler(service service.AuthoringService) *AuthoringHandler {
	return &AuthoringHandler{service: service}
}

// AddQuestion godoc
// @Summary Add a question
// @Description Adds a multiple-choice or true-false question to the current quiz
// @Tags authoring
// @Accept json
// @Produce json
// @Param request body dto.AddQuestionRequest true "Question details"
// @Success 201 {object} dto.QuestionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /questions [post]
func (h *AuthoringHandler) AddQuestion(c *fiber.Ctx) error {
	var req dto.AddQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.AddQuestion(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListQuestions godoc
// @Summary List questions
// @Description Lists every question, optionally filtered by category
// @Tags authoring
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {object} dto.QuestionListResponse
// @Router /questions [get]
func (h *AuthoringHandler) ListQuestions(c *fiber.Ctx) error {
	resp, err := h.service.ListQuestions(c.Context(), c.Query("category"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Preview godoc
// @Summary Preview the quiz
// @Description Returns the first questions as they will appear to students
// @Tags authoring
// @Produce json
// @Success 200 {array} dto.QuestionResponse
// @Router /questions/preview [get]
func (h *AuthoringHandler) Preview(c *fiber.Ctx) error {
	resp, err := h.service.Preview(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Tags authoring
// @Param id path string true "Question ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /questions/{id} [delete]
func (h *AuthoringHandler) DeleteQuestion(c *fiber.Ctx) error {
	if err := h.service.DeleteQuestion(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ImportCSV godoc
// @Summary Import questions from CSV
// @Description Imports questions from an uploaded CSV file or a raw CSV body
// @Tags authoring
// @Accept mpfd
// @Produce json
// @Param file formData file false "CSV file"
// @Success 200 {object} dto.CSVImportResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /questions/import [post]
func (h *AuthoringHandler) ImportCSV(c *fiber.Ctx) error {
	var reader io.Reader

	if fileHeader, err := c.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "failed to open uploaded file")
		}
		defer file.Close()
		reader = file
	} else {
		reader = bytes.NewReader(c.Body())
	}

	resp, err := h.service.ImportCSV(c.Context(), reader)
	if err != nil {
		return err
	}
	logger.Get().Info("CSV import finished",
		zap.Int("imported", resp.Imported),
		zap.Int("skipped", resp.Skipped),
	)
	return c.JSON(resp)
}

// NewQuiz godoc
// @Summary Start a new quiz
// @Description Clears all questions and collected results and rotates the quiz ID
// @Tags authoring
// @Produce json
// @Success 200 {object} map[string]string
// @Router /quiz/new [post]
func (h *AuthoringHandler) NewQuiz(c *fiber.Ctx) error {
	quizID, err := h.service.NewQuiz(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"quiz_id": quizID})
}

// ShareLink godoc
// @Summary Get the share link
// @Description Returns the self-contained share link for the current quiz
// @Tags authoring
// @Produce json
// @Success 200 {object} dto.ShareLinkResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /quiz/share-link [get]
func (h *AuthoringHandler) ShareLink(c *fiber.Ctx) error {
	resp, err := h.service.ShareLink(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ShareLinkQR godoc
// @Summary Get the share link as a QR code
// @Description Renders the share link as a PNG QR code
// @Tags authoring
// @Produce png
// @Param size query int false "Image size in pixels"
// @Success 200 {file} binary
// @Router /quiz/share-link/qr [get]
func (h *AuthoringHandler) ShareLinkQR(c *fiber.Ctx) error {
	resp, err := h.service.ShareLink(c.Context())
	if err != nil {
		return err
	}

	size, _ := strconv.Atoi(c.Query("size", strconv.Itoa(qr.DefaultSize)))
	png, err := qr.Encode(resp.Link, size)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
