package domain

import (
	"strings"
	"time"
)

// AnswerAbsent is the view-layer sentinel for "no selection". The
// answer map itself never stores it; an unanswered question has no key.
const AnswerAbsent = -1

// AnswerMap maps a question position (in authored order) to the index
// of the option the student selected. An absent key means unanswered.
type AnswerMap map[int]int

// Result is one student's completed attempt at a quiz.
type Result struct {
	StudentName    string
	QuizID         string
	Score          int
	TotalQuestions int
	Answers        AnswerMap
	CompletedAt    time.Time
}

// NewResult creates a new Result instance
func NewResult(studentName, quizID string, score, total int, answers AnswerMap) *Result {
	return &Result{
		StudentName:    studentName,
		QuizID:         quizID,
		Score:          score,
		TotalQuestions: total,
		Answers:        answers,
		CompletedAt:    time.Now(),
	}
}

// Validate validates the result
func (r *Result) Validate() error {
	if strings.TrimSpace(r.StudentName) == "" {
		return NewValidationError("student name is required")
	}
	if r.QuizID == "" {
		return NewValidationError("quiz id is required")
	}
	if r.TotalQuestions <= 0 {
		return NewValidationError("total questions must be positive")
	}
	if r.Score < 0 || r.Score > r.TotalQuestions {
		return NewValidationError("score is out of range")
	}
	return nil
}

// Percentage returns the score as a 0-100 percentage.
func (r *Result) Percentage() float64 {
	if r.TotalQuestions == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.TotalQuestions) * 100
}

// Passed reports whether the attempt met the pass threshold.
func (r *Result) Passed() bool {
	return r.Percentage() >= 60
}
