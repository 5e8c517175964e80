package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quizlink/internal/cache"
	"quizlink/internal/domain"
	"quizlink/internal/dto"
	"quizlink/internal/linkcode"
)

const testQuizID = "01HZXW8P2QK4R5T6V7X8Y9Z0AB"

func newAuthoringFixture() (*MockQuestionRepository, *MockResultRepository, *MockCache, AuthoringService) {
	questionRepo := new(MockQuestionRepository)
	resultRepo := new(MockResultRepository)
	cacheService := new(MockCache)
	svc := NewAuthoringService(questionRepo, resultRepo, cacheService, "https://quiz.example.com/app.html")
	return questionRepo, resultRepo, cacheService, svc
}

func TestAuthoringService_AddQuestion_Success(t *testing.T) {
	questionRepo, _, cacheService, svc := newAuthoringFixture()

	questionRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Question")).Return(nil)
	cacheService.On("Get", mock.Anything, cache.KeyQuizID).Return(testQuizID, nil)
	cacheService.On("Delete", mock.Anything, cache.KeyShareLink(testQuizID)).Return(nil)

	resp, err := svc.AddQuestion(context.Background(), dto.AddQuestionRequest{
		Type:          domain.TypeMultipleChoice,
		Question:      "  What is 2 + 2?  ",
		Options:       []string{"3", "4", "5", "22"},
		CorrectAnswer: 1,
		Category:      "math",
	})

	assert.NoError(t, err)
	require.NotNil(t, resp)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "What is 2 + 2?", resp.Question)
	assert.Equal(t, "math", resp.Category)
	questionRepo.AssertExpectations(t)
	cacheService.AssertExpectations(t)
}

func TestAuthoringService_AddQuestion_TrueFalseForcesOptions(t *testing.T) {
	questionRepo, _, cacheService, svc := newAuthoringFixture()

	questionRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Question")).Return(nil)
	cacheService.On("Get", mock.Anything, cache.KeyQuizID).Return("", domain.ErrCacheMiss)

	resp, err := svc.AddQuestion(context.Background(), dto.AddQuestionRequest{
		Type:          domain.TypeTrueFalse,
		Question:      "The sky is green.",
		CorrectAnswer: 1,
	})

	assert.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, []string{"True", "False"}, resp.Options)
	questionRepo.AssertExpectations(t)
}

func TestAuthoringService_AddQuestion_ValidationFailure(t *testing.T) {
	questionRepo, _, _, svc := newAuthoringFixture()

	resp, err := svc.AddQuestion(context.Background(), dto.AddQuestionRequest{
		Type:          domain.TypeMultipleChoice,
		Question:      "Pick one",
		Options:       []string{"a", "b", "c"},
		CorrectAnswer: 0,
	})

	assert.Error(t, err)
	assert.Nil(t, resp)
	var validationErrs domain.ValidationErrors
	assert.True(t, errors.As(err, &validationErrs))
	questionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthoringService_AddQuestion_RepositoryError(t *testing.T) {
	questionRepo, _, _, svc := newAuthoringFixture()

	repoErr := errors.New("database connection error")
	questionRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Question")).Return(repoErr)

	resp, err := svc.AddQuestion(context.Background(), dto.AddQuestionRequest{
		Type:          domain.TypeMultipleChoice,
		Question:      "What is 2 + 2?",
		Options:       []string{"3", "4", "5", "22"},
		CorrectAnswer: 1,
	})

	assert.Error(t, err)
	assert.Nil(t, resp)
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrInternal, domainErr.Code)
	assert.ErrorIs(t, err, repoErr)
}

func TestAuthoringService_ListQuestions_CollectsCategories(t *testing.T) {
	questionRepo, _, _, svc := newAuthoringFixture()

	questions := []domain.Question{
		{ID: "q1", Type: domain.TypeMultipleChoice, Text: "A?", Options: []string{"1", "2", "3", "4"}, Category: "math"},
		{ID: "q2", Type: domain.TypeTrueFalse, Text: "B?", Options: []string{"True", "False"}, Category: "science"},
		{ID: "q3", Type: domain.TypeMultipleChoice, Text: "C?", Options: []string{"1", "2", "3", "4"}, Category: "math"},
	}
	questionRepo.On("GetAll", mock.Anything).Return(questions, nil)

	resp, err := svc.ListQuestions(context.Background(), "")

	assert.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, []string{"math", "science"}, resp.Categories)
	questionRepo.AssertExpectations(t)
}

func TestAuthoringService_ListQuestions_ByCategory(t *testing.T) {
	questionRepo, _, _, svc := newAuthoringFixture()

	questions := []domain.Question{
		{ID: "q1", Type: domain.TypeMultipleChoice, Text: "A?", Options: []string{"1", "2", "3", "4"}, Category: "math"},
	}
	questionRepo.On("GetByCategory", mock.Anything, "math").Return(questions, nil)

	resp, err := svc.ListQuestions(context.Background(), "math")

	assert.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 1, resp.Total)
	questionRepo.AssertNotCalled(t, "GetAll", mock.Anything)
}

func TestAuthoringService_Preview_TruncatesToThree(t *testing.T) {
	questionRepo, _, _, svc := newAuthoringFixture()

	questions := make([]domain.Question, 5)
	for i := range questions {
		questions[i] = domain.Question{ID: "q", Type: domain.TypeTrueFalse, Text: "T?", Options: []string{"True", "False"}}
	}
	questionRepo.On("GetAll", mock.Anything).Return(questions, nil)

	resp, err := svc.Preview(context.Background())

	assert.NoError(t, err)
	assert.Len(t, resp, 3)
}

func TestAuthoringService_DeleteQuestion_NotFound(t *testing.T) {
	questionRepo, _, _, svc := newAuthoringFixture()

	questionRepo.On("Delete", mock.Anything, "missing").Return(domain.NewQuestionNotFoundError("missing"))

	err := svc.DeleteQuestion(context.Background(), "missing")

	assert.Error(t, err)
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrQuestionNotFound, domainErr.Code)
}

func TestAuthoringService_NewQuiz_RotatesIDAndClears(t *testing.T) {
	questionRepo, resultRepo, cacheService, svc := newAuthoringFixture()

	cacheService.On("Get", mock.Anything, cache.KeyQuizID).Return(testQuizID, nil)
	questionRepo.On("DeleteAll", mock.Anything).Return(nil)
	resultRepo.On("DeleteByQuiz", mock.Anything, testQuizID).Return(nil)
	cacheService.On("Delete", mock.Anything, cache.KeyShareLink(testQuizID)).Return(nil)
	cacheService.On("Set", mock.Anything, cache.KeyQuizID, mock.AnythingOfType("string"), mock.Anything).Return(nil)

	newID, err := svc.NewQuiz(context.Background())

	assert.NoError(t, err)
	assert.NotEmpty(t, newID)
	assert.NotEqual(t, testQuizID, newID)
	questionRepo.AssertExpectations(t)
	resultRepo.AssertExpectations(t)
	cacheService.AssertExpectations(t)
}

func TestAuthoringService_NewQuiz_SurvivesResultClearFailure(t *testing.T) {
	questionRepo, resultRepo, cacheService, svc := newAuthoringFixture()

	cacheService.On("Get", mock.Anything, cache.KeyQuizID).Return(testQuizID, nil)
	questionRepo.On("DeleteAll", mock.Anything).Return(nil)
	resultRepo.On("DeleteByQuiz", mock.Anything, testQuizID).Return(errors.New("db down"))
	cacheService.On("Delete", mock.Anything, cache.KeyShareLink(testQuizID)).Return(nil)
	cacheService.On("Set", mock.Anything, cache.KeyQuizID, mock.AnythingOfType("string"), mock.Anything).Return(nil)

	newID, err := svc.NewQuiz(context.Background())

	assert.NoError(t, err)
	assert.NotEmpty(t, newID)
}

const importCSVFixture = `question,optA,optB,optC,optD,correct,category,hint,explanation
What is 2 + 2?,3,4,5,22,1,math,Count it,Two plus two is four
The capital of France?,Paris,Rome,Berlin,Madrid,0,geography,,
Missing option,,b,c,d,1
Short row,only,two
,a,b,c,d,0
Out of range correct,a,b,c,d,9
`

func TestAuthoringService_ImportCSV(t *testing.T) {
	questionRepo, _, cacheService, svc := newAuthoringFixture()

	var saved []*domain.Question
	questionRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Question")).
		Run(func(args mock.Arguments) {
			saved = append(saved, args.Get(1).(*domain.Question))
		}).Return(nil)
	cacheService.On("Get", mock.Anything, cache.KeyQuizID).Return("", domain.ErrCacheMiss)

	resp, err := svc.ImportCSV(context.Background(), strings.NewReader(importCSVFixture))

	assert.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 3, resp.Imported)
	assert.Equal(t, 3, resp.Skipped)

	require.Len(t, saved, 3)
	assert.Equal(t, "What is 2 + 2?", saved[0].Text)
	assert.Equal(t, 1, saved[0].CorrectAnswer)
	assert.Equal(t, "math", saved[0].Category)
	assert.Equal(t, "Count it", saved[0].Hint)
	assert.Equal(t, domain.TypeMultipleChoice, saved[1].Type)
	// unparseable correct index falls back to the first option
	assert.Equal(t, 0, saved[2].CorrectAnswer)
}

func TestAuthoringService_ImportCSV_Empty(t *testing.T) {
	questionRepo, _, _, svc := newAuthoringFixture()

	resp, err := svc.ImportCSV(context.Background(), strings.NewReader("question,optA,optB,optC,optD,correct\n"))

	assert.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 0, resp.Imported)
	questionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthoringService_ShareLink_CacheHit(t *testing.T) {
	questionRepo, _, cacheService, svc := newAuthoringFixture()

	cachedLink := "https://quiz.example.com/app.html#quiz=abc123"
	cacheService.On("Get", mock.Anything, cache.KeyQuizID).Return(testQuizID, nil)
	cacheService.On("Get", mock.Anything, cache.KeyShareLink(testQuizID)).Return(cachedLink, nil)

	resp, err := svc.ShareLink(context.Background())

	assert.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, cachedLink, resp.Link)
	questionRepo.AssertNotCalled(t, "GetAll", mock.Anything)
}

func TestAuthoringService_ShareLink_CacheMissEncodes(t *testing.T) {
	questionRepo, _, cacheService, svc := newAuthoringFixture()

	questions := []domain.Question{
		{ID: "q1", Type: domain.TypeMultipleChoice, Text: "What is 2 + 2?", Options: []string{"3", "4", "5", "22"}, CorrectAnswer: 1},
	}
	cacheService.On("Get", mock.Anything, cache.KeyQuizID).Return(testQuizID, nil)
	cacheService.On("Get", mock.Anything, cache.KeyShareLink(testQuizID)).Return("", domain.ErrCacheMiss)
	questionRepo.On("GetAll", mock.Anything).Return(questions, nil)
	cacheService.On("Set", mock.Anything, cache.KeyShareLink(testQuizID), mock.AnythingOfType("string"), mock.Anything).Return(nil)

	resp, err := svc.ShareLink(context.Background())

	assert.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, testQuizID, resp.QuizID)
	assert.Contains(t, resp.Link, linkcode.QuizFragment)

	decoded, err := linkcode.DecodeQuiz(resp.Link)
	assert.NoError(t, err)
	require.NotNil(t, decoded)
	assert.Equal(t, testQuizID, decoded.ID)
	assert.Len(t, decoded.Questions, 1)
}

func TestAuthoringService_ShareLink_NoQuestions(t *testing.T) {
	questionRepo, _, cacheService, svc := newAuthoringFixture()

	cacheService.On("Get", mock.Anything, cache.KeyQuizID).Return(testQuizID, nil)
	cacheService.On("Get", mock.Anything, cache.KeyShareLink(testQuizID)).Return("", domain.ErrCacheMiss)
	questionRepo.On("GetAll", mock.Anything).Return([]domain.Question{}, nil)

	resp, err := svc.ShareLink(context.Background())

	assert.Error(t, err)
	assert.Nil(t, resp)
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrInvalidInput, domainErr.Code)
}
