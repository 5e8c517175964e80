package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"quizlink/internal/domain"
	"quizlink/internal/repository/models"
)

// ResultDatabaseAdapter implements domain.ResultRepository using sqlx.DB
type ResultDatabaseAdapter struct {
	db *sqlx.DB
}

// NewResultDatabaseAdapter creates a new instance of ResultDatabaseAdapter
func NewResultDatabaseAdapter(db *sqlx.DB) domain.ResultRepository {
	return &ResultDatabaseAdapter{db: db}
}

// Upsert implements domain.ResultRepository. A student re-submitting a
// result for the same quiz replaces their earlier row.
func (a *ResultDatabaseAdapter) Upsert(ctx context.Context, result *domain.Result) error {
	if result == nil {
		return fmt.Errorf("result cannot be nil")
	}
	row := toModelResult(result)
	row.CreatedAt = time.Now()
	row.UpdatedAt = row.CreatedAt

	query := `INSERT INTO collected_results
			(student_name, quiz_id, score, total_questions, answers, completed_at, created_at, updated_at)
		VALUES (:student_name, :quiz_id, :score, :total_questions, :answers, :completed_at, :created_at, :updated_at)
		ON CONFLICT (student_name, quiz_id) DO UPDATE SET
			score = EXCLUDED.score,
			total_questions = EXCLUDED.total_questions,
			answers = EXCLUDED.answers,
			completed_at = EXCLUDED.completed_at,
			updated_at = EXCLUDED.updated_at`

	if _, err := a.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to upsert result: %w", err)
	}
	return nil
}

// GetByQuiz implements domain.ResultRepository
func (a *ResultDatabaseAdapter) GetByQuiz(ctx context.Context, quizID string) ([]domain.Result, error) {
	var rows []models.Result
	query := `SELECT id, student_name, quiz_id, score, total_questions, answers,
			completed_at, created_at, updated_at
		FROM collected_results WHERE quiz_id = $1 ORDER BY student_name`

	if err := a.db.SelectContext(ctx, &rows, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to get results for quiz %s: %w", quizID, err)
	}
	results := make([]domain.Result, 0, len(rows))
	for i := range rows {
		results = append(results, toDomainResult(&rows[i]))
	}
	return results, nil
}

// DeleteByQuiz implements domain.ResultRepository
func (a *ResultDatabaseAdapter) DeleteByQuiz(ctx context.Context, quizID string) error {
	if _, err := a.db.ExecContext(ctx, `DELETE FROM collected_results WHERE quiz_id = $1`, quizID); err != nil {
		return fmt.Errorf("failed to delete results for quiz %s: %w", quizID, err)
	}
	return nil
}

func toModelResult(r *domain.Result) *models.Result {
	return &models.Result{
		StudentName:    r.StudentName,
		QuizID:         r.QuizID,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		Answers:        models.IntMap(r.Answers),
		CompletedAt:    r.CompletedAt,
	}
}

func toDomainResult(row *models.Result) domain.Result {
	return domain.Result{
		StudentName:    row.StudentName,
		QuizID:         row.QuizID,
		Score:          row.Score,
		TotalQuestions: row.TotalQuestions,
		Answers:        domain.AnswerMap(row.Answers),
		CompletedAt:    row.CompletedAt,
	}
}
