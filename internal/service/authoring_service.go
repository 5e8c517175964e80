package service

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"quizlink/internal/cache"
	"quizlink/internal/domain"
	"quizlink/internal/dto"
	"quizlink/internal/linkcode"
	"quizlink/internal/logger"
	"quizlink/internal/util"
	"quizlink/internal/validation"
)

const previewSize = 3

// AuthoringService defines the teacher-side question management operations.
type AuthoringService interface {
	AddQuestion(ctx context.Context, req dto.AddQuestionRequest) (*dto.QuestionResponse, error)
	ListQuestions(ctx context.Context, category string) (*dto.QuestionListResponse, error)
	Preview(ctx context.Context) ([]dto.QuestionResponse, error)
	DeleteQuestion(ctx context.Context, id string) error
	NewQuiz(ctx context.Context) (string, error)
	ImportCSV(ctx context.Context, r io.Reader) (*dto.CSVImportResponse, error)
	BuildQuiz(ctx context.Context) (*domain.Quiz, error)
	ShareLink(ctx context.Context) (*dto.ShareLinkResponse, error)
}

type authoringServiceImpl struct {
	questionRepo domain.QuestionRepository
	resultRepo   domain.ResultRepository
	cacheService domain.Cache
	validator    *validation.Validator
	baseURL      string
}

// NewAuthoringService creates a new instance of AuthoringService.
func NewAuthoringService(
	questionRepo domain.QuestionRepository,
	resultRepo domain.ResultRepository,
	cacheService domain.Cache,
	baseURL string,
) AuthoringService {
	return &authoringServiceImpl{
		questionRepo: questionRepo,
		resultRepo:   resultRepo,
		cacheService: cacheService,
		validator:    validation.NewValidator(),
		baseURL:      baseURL,
	}
}

// AddQuestion validates and persists a new question, invalidating the
// cached share link.
func (s *authoringServiceImpl) AddQuestion(ctx context.Context, req dto.AddQuestionRequest) (*dto.QuestionResponse, error) {
	if errs := s.validator.ValidateAddQuestionRequest(req.Type, req.Question, req.Options, req.CorrectAnswer); errs.HasErrors() {
		return nil, errs
	}

	question := domain.NewQuestion(req.Type, strings.TrimSpace(req.Question), req.Options, req.CorrectAnswer)
	question.ID = util.NewULID()
	question.Category = strings.TrimSpace(req.Category)
	question.Hint = strings.TrimSpace(req.Hint)
	question.Explanation = strings.TrimSpace(req.Explanation)
	if len(req.OptionImages) > 0 {
		question.OptionImages = req.OptionImages
	}
	if err := question.Validate(); err != nil {
		return nil, domain.NewInvalidInputError(err.Error())
	}

	if err := s.questionRepo.Save(ctx, question); err != nil {
		return nil, domain.NewInternalError("failed to save question", err)
	}
	s.invalidateShareLink(ctx)

	resp := toQuestionResponse(question)
	return &resp, nil
}

// ListQuestions returns all questions, optionally filtered by category.
func (s *authoringServiceImpl) ListQuestions(ctx context.Context, category string) (*dto.QuestionListResponse, error) {
	var (
		questions []domain.Question
		err       error
	)
	if category != "" {
		questions, err = s.questionRepo.GetByCategory(ctx, category)
	} else {
		questions, err = s.questionRepo.GetAll(ctx)
	}
	if err != nil {
		return nil, domain.NewInternalError("failed to list questions", err)
	}

	resp := &dto.QuestionListResponse{
		Questions: make([]dto.QuestionResponse, 0, len(questions)),
		Total:     len(questions),
	}
	seen := make(map[string]bool)
	for i := range questions {
		resp.Questions = append(resp.Questions, toQuestionResponse(&questions[i]))
		if c := questions[i].Category; c != "" && !seen[c] {
			seen[c] = true
			resp.Categories = append(resp.Categories, c)
		}
	}
	return resp, nil
}

// Preview returns the first few questions for the authoring preview pane.
func (s *authoringServiceImpl) Preview(ctx context.Context) ([]dto.QuestionResponse, error) {
	questions, err := s.questionRepo.GetAll(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to load questions for preview", err)
	}
	if len(questions) > previewSize {
		questions = questions[:previewSize]
	}
	resp := make([]dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		resp = append(resp, toQuestionResponse(&questions[i]))
	}
	return resp, nil
}

// DeleteQuestion removes a question. Editing is delete plus re-add.
func (s *authoringServiceImpl) DeleteQuestion(ctx context.Context, id string) error {
	if err := s.questionRepo.Delete(ctx, id); err != nil {
		var de *domain.DomainError
		if errors.As(err, &de) {
			return err
		}
		return domain.NewInternalError("failed to delete question", err)
	}
	s.invalidateShareLink(ctx)
	return nil
}

// NewQuiz clears every question and collected result and rotates the
// quiz identifier.
func (s *authoringServiceImpl) NewQuiz(ctx context.Context) (string, error) {
	oldID, _ := s.quizID(ctx)

	if err := s.questionRepo.DeleteAll(ctx); err != nil {
		return "", domain.NewInternalError("failed to clear questions", err)
	}
	if oldID != "" {
		if err := s.resultRepo.DeleteByQuiz(ctx, oldID); err != nil {
			logger.Get().Warn("failed to clear collected results", zap.String("quiz_id", oldID), zap.Error(err))
		}
		if err := s.cacheService.Delete(ctx, cache.KeyShareLink(oldID)); err != nil {
			logger.Get().Warn("failed to drop cached share link", zap.Error(err))
		}
	}

	newID := util.NewULID()
	if err := s.cacheService.Set(ctx, cache.KeyQuizID, newID, 0); err != nil {
		return "", domain.NewInternalError("failed to store quiz id", err)
	}
	return newID, nil
}

// ImportCSV reads comma-separated rows of the form
// question,optA,optB,optC,optD,correct[,category,hint,explanation].
// The first row is a header. Rows with fewer than six fields, a blank
// question, or a blank option are skipped.
func (s *authoringServiceImpl) ImportCSV(ctx context.Context, r io.Reader) (*dto.CSVImportResponse, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	resp := &dto.CSVImportResponse{}
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.NewInvalidInputError("malformed CSV: " + err.Error())
		}
		if first {
			first = false
			continue
		}
		question, ok := parseCSVQuestion(record)
		if !ok {
			resp.Skipped++
			continue
		}
		question.ID = util.NewULID()
		if err := s.questionRepo.Save(ctx, question); err != nil {
			return nil, domain.NewInternalError("failed to save imported question", err)
		}
		resp.Imported++
	}

	if resp.Imported > 0 {
		s.invalidateShareLink(ctx)
	}
	return resp, nil
}

func parseCSVQuestion(record []string) (*domain.Question, bool) {
	if len(record) < 6 {
		return nil, false
	}
	text := strings.TrimSpace(record[0])
	options := []string{
		strings.TrimSpace(record[1]),
		strings.TrimSpace(record[2]),
		strings.TrimSpace(record[3]),
		strings.TrimSpace(record[4]),
	}
	if text == "" {
		return nil, false
	}
	for _, opt := range options {
		if opt == "" {
			return nil, false
		}
	}
	correct, err := strconv.Atoi(strings.TrimSpace(record[5]))
	if err != nil || correct < 0 || correct > 3 {
		correct = 0
	}

	question := domain.NewQuestion(domain.TypeMultipleChoice, text, options, correct)
	if len(record) > 6 {
		question.Category = strings.TrimSpace(record[6])
	}
	if len(record) > 7 {
		question.Hint = strings.TrimSpace(record[7])
	}
	if len(record) > 8 {
		question.Explanation = strings.TrimSpace(record[8])
	}
	return question, true
}

// BuildQuiz assembles the current question set into a share-ready quiz.
func (s *authoringServiceImpl) BuildQuiz(ctx context.Context) (*domain.Quiz, error) {
	questions, err := s.questionRepo.GetAll(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to load questions", err)
	}
	if len(questions) == 0 {
		return nil, domain.NewInvalidInputError("no questions to share")
	}
	quizID, err := s.quizIDOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewQuiz(quizID, questions), nil
}

// ShareLink returns the share link for the current quiz, cached until
// the question set changes.
func (s *authoringServiceImpl) ShareLink(ctx context.Context) (*dto.ShareLinkResponse, error) {
	quizID, err := s.quizIDOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	if cached, err := s.cacheService.Get(ctx, cache.KeyShareLink(quizID)); err == nil && cached != "" {
		return &dto.ShareLinkResponse{QuizID: quizID, Link: cached}, nil
	}

	quiz, err := s.BuildQuiz(ctx)
	if err != nil {
		return nil, err
	}
	link, err := linkcode.QuizLink(s.baseURL, quiz)
	if err != nil {
		return nil, domain.NewInternalError("failed to encode share link", err)
	}
	if err := s.cacheService.Set(ctx, cache.KeyShareLink(quizID), link, 0); err != nil {
		logger.Get().Warn("failed to cache share link", zap.Error(err))
	}
	return &dto.ShareLinkResponse{QuizID: quizID, Link: link}, nil
}

func (s *authoringServiceImpl) quizID(ctx context.Context) (string, error) {
	id, err := s.cacheService.Get(ctx, cache.KeyQuizID)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return "", nil
		}
		return "", err
	}
	return id, nil
}

func (s *authoringServiceImpl) quizIDOrCreate(ctx context.Context) (string, error) {
	id, err := s.quizID(ctx)
	if err != nil {
		return "", domain.NewInternalError("failed to read quiz id", err)
	}
	if id != "" {
		return id, nil
	}
	id = util.NewULID()
	if err := s.cacheService.Set(ctx, cache.KeyQuizID, id, 0); err != nil {
		return "", domain.NewInternalError("failed to store quiz id", err)
	}
	return id, nil
}

func (s *authoringServiceImpl) invalidateShareLink(ctx context.Context) {
	quizID, err := s.quizID(ctx)
	if err != nil || quizID == "" {
		return
	}
	if err := s.cacheService.Delete(ctx, cache.KeyShareLink(quizID)); err != nil {
		logger.Get().Warn("failed to invalidate share link cache", zap.Error(err))
	}
}

func toQuestionResponse(q *domain.Question) dto.QuestionResponse {
	return dto.QuestionResponse{
		ID:            q.ID,
		Type:          q.Type,
		Question:      q.Text,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
		Category:      q.Category,
		Hint:          q.Hint,
		Explanation:   q.Explanation,
		OptionImages:  q.OptionImages,
	}
}
