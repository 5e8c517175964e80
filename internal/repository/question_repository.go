package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"quizlink/internal/domain"
	"quizlink/internal/repository/models"
	"quizlink/internal/util"
)

const questionColumns = `id, seq, question_type, question_text, options, correct_answer,
	category, hint, explanation, option_images, created_at, updated_at`

// QuestionDatabaseAdapter implements domain.QuestionRepository using sqlx.DB
type QuestionDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuestionDatabaseAdapter creates a new instance of QuestionDatabaseAdapter
func NewQuestionDatabaseAdapter(db *sqlx.DB) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db}
}

// GetAll implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetAll(ctx context.Context) ([]domain.Question, error) {
	var rows []models.Question
	query := `SELECT ` + questionColumns + ` FROM questions ORDER BY seq`

	if err := a.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	return toDomainQuestions(rows), nil
}

// GetByID implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	var row models.Question
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`

	err := a.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question by id %s: %w", id, err)
	}
	q := toDomainQuestion(&row)
	return &q, nil
}

// GetByCategory implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetByCategory(ctx context.Context, category string) ([]domain.Question, error) {
	var rows []models.Question
	query := `SELECT ` + questionColumns + ` FROM questions WHERE category = $1 ORDER BY seq`

	if err := a.db.SelectContext(ctx, &rows, query, category); err != nil {
		return nil, fmt.Errorf("failed to get questions by category: %w", err)
	}
	return toDomainQuestions(rows), nil
}

// Save implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) Save(ctx context.Context, question *domain.Question) error {
	if question == nil {
		return fmt.Errorf("question cannot be nil")
	}
	row := toModelQuestion(question)
	row.CreatedAt = time.Now()
	row.UpdatedAt = row.CreatedAt

	query := `INSERT INTO questions (id, question_type, question_text, options, correct_answer,
			category, hint, explanation, option_images, created_at, updated_at)
		VALUES (:id, :question_type, :question_text, :options, :correct_answer,
			:category, :hint, :explanation, :option_images, :created_at, :updated_at)`

	if _, err := a.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to save question: %w", err)
	}
	return nil
}

// Delete implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) Delete(ctx context.Context, id string) error {
	result, err := a.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewQuestionNotFoundError(id)
	}
	return nil
}

// DeleteAll implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) DeleteAll(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, `DELETE FROM questions`); err != nil {
		return fmt.Errorf("failed to delete questions: %w", err)
	}
	return nil
}

func toModelQuestion(q *domain.Question) *models.Question {
	return &models.Question{
		ID:            q.ID,
		QuestionType:  q.Type,
		QuestionText:  q.Text,
		Options:       models.StringSlice(q.Options),
		CorrectAnswer: q.CorrectAnswer,
		Category:      util.StringToNullString(q.Category),
		Hint:          util.StringToNullString(q.Hint),
		Explanation:   util.StringToNullString(q.Explanation),
		OptionImages:  models.StringSlice(q.OptionImages),
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
}

func toDomainQuestion(row *models.Question) domain.Question {
	q := domain.Question{
		ID:            row.ID,
		Type:          row.QuestionType,
		Text:          row.QuestionText,
		Options:       []string(row.Options),
		CorrectAnswer: row.CorrectAnswer,
		Category:      row.Category.String,
		Hint:          row.Hint.String,
		Explanation:   row.Explanation.String,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if len(row.OptionImages) > 0 {
		q.OptionImages = []string(row.OptionImages)
	}
	return q
}

func toDomainQuestions(rows []models.Question) []domain.Question {
	questions := make([]domain.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, toDomainQuestion(&rows[i]))
	}
	return questions
}
