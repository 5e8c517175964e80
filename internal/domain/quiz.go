package domain

import (
	"strings"
	"time"
)

// QuizVersion tags the payload format embedded in share links. Decoders
// accept older payloads but always emit the current version.
const QuizVersion = "8.0"

// Question types as they appear in link payloads.
const (
	TypeMultipleChoice = "mc"
	TypeTrueFalse      = "tf"
)

// ValidationError represents a validation error
type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func NewValidationError(message string) error {
	return &ValidationError{message: message}
}

// Question is a single authored quiz item. Options for true/false
// questions are always the fixed pair ["True", "False"].
type Question struct {
	ID            string
	Type          string
	Text          string
	Options       []string
	CorrectAnswer int
	Category      string
	Hint          string
	Explanation   string
	OptionImages  []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewQuestion creates a new Question instance
func NewQuestion(qType, text string, options []string, correctAnswer int) *Question {
	now := time.Now()
	if qType == TypeTrueFalse {
		options = []string{"True", "False"}
	}
	return &Question{
		Type:          qType,
		Text:          text,
		Options:       options,
		CorrectAnswer: correctAnswer,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate validates the question
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewValidationError("question text is required")
	}
	switch q.Type {
	case TypeMultipleChoice:
		if len(q.Options) != 4 {
			return NewValidationError("multiple-choice questions have exactly 4 options")
		}
		for _, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return NewValidationError("options must not be empty")
			}
		}
	case TypeTrueFalse:
		if len(q.Options) != 2 {
			return NewValidationError("true-false questions have exactly 2 options")
		}
	default:
		return NewValidationError("unknown question type: " + q.Type)
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return NewValidationError("correct answer is out of range")
	}
	if q.OptionImages != nil && len(q.OptionImages) != len(q.Options) {
		return NewValidationError("option images must match option count")
	}
	return nil
}

// Quiz is the unit a teacher shares: an ordered set of questions plus
// the payload version under a stable quiz ID.
type Quiz struct {
	ID        string
	Questions []Question
	Version   string
}

// NewQuiz creates a new Quiz instance
func NewQuiz(id string, questions []Question) *Quiz {
	return &Quiz{
		ID:        id,
		Questions: questions,
		Version:   QuizVersion,
	}
}

// Validate validates the quiz
func (q *Quiz) Validate() error {
	if q.ID == "" {
		return NewValidationError("quiz id is required")
	}
	if len(q.Questions) == 0 {
		return NewValidationError("quiz has no questions")
	}
	for i := range q.Questions {
		if err := q.Questions[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Categories returns the distinct non-empty categories across questions,
// in first-seen order.
func (q *Quiz) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for i := range q.Questions {
		c := q.Questions[i].Category
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
