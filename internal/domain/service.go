package domain

import "context"

// QuestionRepository defines the interface for question persistence
type QuestionRepository interface {
	// GetAll returns all questions in authored order
	GetAll(ctx context.Context) ([]Question, error)

	// GetByID retrieves a question by its ID
	GetByID(ctx context.Context, id string) (*Question, error)

	// GetByCategory returns all questions in the given category
	GetByCategory(ctx context.Context, category string) ([]Question, error)

	// Save persists a new question
	Save(ctx context.Context, question *Question) error

	// Delete removes a question by its ID
	Delete(ctx context.Context, id string) error

	// DeleteAll removes every question
	DeleteAll(ctx context.Context) error
}

// ResultRepository defines the interface for collected result persistence
type ResultRepository interface {
	// Upsert stores a result, replacing any earlier attempt by the same
	// student on the same quiz
	Upsert(ctx context.Context, result *Result) error

	// GetByQuiz returns every stored result for the quiz
	GetByQuiz(ctx context.Context, quizID string) ([]Result, error)

	// DeleteByQuiz removes every stored result for the quiz
	DeleteByQuiz(ctx context.Context, quizID string) error
}

// ResultExporter defines the interface for rendering collected results
// into a downloadable workbook
type ResultExporter interface {
	Export(ctx context.Context, quiz *Quiz, results []Result) ([]byte, error)
}
