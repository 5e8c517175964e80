package service

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"quizlink/internal/domain"
	"quizlink/internal/dto"
	"quizlink/internal/linkcode"
)

// collectWorkers caps the concurrent decode-and-store fan-out.
const collectWorkers = 8

// ResultService collects pasted result links and aggregates them.
type ResultService interface {
	Collect(ctx context.Context, req dto.CollectRequest) (*dto.CollectResponse, error)
	Aggregate(ctx context.Context, quizID string) (*dto.AggregateResponse, error)
	Export(ctx context.Context, quizID string) ([]byte, error)
	Clear(ctx context.Context, quizID string) error
}

type resultServiceImpl struct {
	resultRepo   domain.ResultRepository
	questionRepo domain.QuestionRepository
	exporter     domain.ResultExporter
}

// NewResultService creates a new instance of ResultService.
func NewResultService(
	resultRepo domain.ResultRepository,
	questionRepo domain.QuestionRepository,
	exporter domain.ResultExporter,
) ResultService {
	return &resultServiceImpl{
		resultRepo:   resultRepo,
		questionRepo: questionRepo,
		exporter:     exporter,
	}
}

// Collect decodes each pasted payload and stores the result. Payloads
// are independent, so one bad paste never blocks the rest; a student
// resubmitting replaces their earlier attempt.
func (s *resultServiceImpl) Collect(ctx context.Context, req dto.CollectRequest) (*dto.CollectResponse, error) {
	if len(req.Payloads) == 0 {
		return nil, domain.NewInvalidInputError("no payloads to collect")
	}

	var (
		mu   sync.Mutex
		resp dto.CollectResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(collectWorkers)

	for _, payload := range req.Payloads {
		payload := payload
		g.Go(func() error {
			result, err := linkcode.DecodeResult(payload)
			if err == nil {
				err = result.Validate()
			}
			if err == nil {
				err = s.resultRepo.Upsert(gctx, result)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				resp.Rejected++
				resp.Errors = append(resp.Errors, err.Error())
				return nil
			}
			resp.Accepted++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, domain.NewInternalError("failed to collect results", err)
	}
	sort.Strings(resp.Errors)
	return &resp, nil
}

// Aggregate computes the analytics view over every collected result for
// the quiz: averages, pass rate at the 60 percent threshold, and a
// per-question breakdown against the current question set.
func (s *resultServiceImpl) Aggregate(ctx context.Context, quizID string) (*dto.AggregateResponse, error) {
	results, err := s.resultRepo.GetByQuiz(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load results", err)
	}

	resp := &dto.AggregateResponse{
		QuizID:      quizID,
		ResultCount: len(results),
		Results:     make([]dto.ResultResponse, 0, len(results)),
	}
	if len(results) == 0 {
		return resp, nil
	}

	var scoreSum, pctSum float64
	passed := 0
	resp.HighestScore = results[0].Score
	resp.LowestScore = results[0].Score
	for i := range results {
		r := &results[i]
		resp.Results = append(resp.Results, toResultResponse(r))
		scoreSum += float64(r.Score)
		pctSum += r.Percentage()
		if r.Passed() {
			passed++
		}
		if r.Score > resp.HighestScore {
			resp.HighestScore = r.Score
		}
		if r.Score < resp.LowestScore {
			resp.LowestScore = r.Score
		}
	}
	n := float64(len(results))
	resp.AverageScore = scoreSum / n
	resp.AveragePercentage = pctSum / n
	resp.PassRate = float64(passed) / n * 100

	questions, err := s.questionRepo.GetAll(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to load questions", err)
	}
	resp.PerQuestion = perQuestionStats(questions, results)

	return resp, nil
}

func perQuestionStats(questions []domain.Question, results []domain.Result) []dto.QuestionStat {
	if len(questions) == 0 {
		return nil
	}
	stats := make([]dto.QuestionStat, len(questions))
	for i := range questions {
		stats[i] = dto.QuestionStat{Position: i, Question: questions[i].Text}
	}
	for ri := range results {
		for pos := range questions {
			ans, ok := results[ri].Answers[pos]
			switch {
			case !ok || ans == domain.AnswerAbsent:
				stats[pos].AbsentCount++
			case ans == questions[pos].CorrectAnswer:
				stats[pos].CorrectCount++
			default:
				stats[pos].WrongCount++
			}
		}
	}
	n := float64(len(results))
	for i := range stats {
		stats[i].CorrectRate = float64(stats[i].CorrectCount) / n * 100
	}
	return stats
}

// Export renders the collected results into a downloadable workbook.
func (s *resultServiceImpl) Export(ctx context.Context, quizID string) ([]byte, error) {
	results, err := s.resultRepo.GetByQuiz(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load results", err)
	}
	if len(results) == 0 {
		return nil, domain.NewError(domain.ErrResultNotFound, "no results collected for quiz "+quizID, nil)
	}
	questions, err := s.questionRepo.GetAll(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to load questions", err)
	}
	quiz := &domain.Quiz{ID: quizID, Questions: questions, Version: domain.QuizVersion}

	data, err := s.exporter.Export(ctx, quiz, results)
	if err != nil {
		return nil, domain.NewInternalError("failed to export results", err)
	}
	return data, nil
}

// Clear deletes every collected result for the quiz.
func (s *resultServiceImpl) Clear(ctx context.Context, quizID string) error {
	if err := s.resultRepo.DeleteByQuiz(ctx, quizID); err != nil {
		return domain.NewInternalError("failed to clear results", err)
	}
	return nil
}
