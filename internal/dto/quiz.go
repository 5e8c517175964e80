package dto

import "time"

// AddQuestionRequest is the request body for adding a question
type AddQuestionRequest struct {
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer int      `json:"correct_answer"`
	Category      string   `json:"category,omitempty"`
	Hint          string   `json:"hint,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
	OptionImages  []string `json:"option_images,omitempty"`
}

// QuestionResponse represents a question in the API response
type QuestionResponse struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Category      string   `json:"category,omitempty"`
	Hint          string   `json:"hint,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
	OptionImages  []string `json:"option_images,omitempty"`
}

// QuestionListResponse is the response for listing questions
type QuestionListResponse struct {
	Questions  []QuestionResponse `json:"questions"`
	Total      int                `json:"total"`
	Categories []string           `json:"categories"`
}

// ShareLinkResponse carries the generated share link for the current quiz
type ShareLinkResponse struct {
	QuizID string `json:"quiz_id"`
	Link   string `json:"link"`
}

// CSVImportResponse reports the outcome of a CSV import
type CSVImportResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ResultResponse represents one collected result in the API response
type ResultResponse struct {
	StudentName    string      `json:"student_name"`
	QuizID         string      `json:"quiz_id"`
	Score          int         `json:"score"`
	TotalQuestions int         `json:"total_questions"`
	Percentage     float64     `json:"percentage"`
	Passed         bool        `json:"passed"`
	Answers        map[int]int `json:"answers"`
	CompletedAt    time.Time   `json:"completed_at"`
}

// CollectRequest carries one or more pasted result payloads
type CollectRequest struct {
	Payloads []string `json:"payloads"`
}

// CollectResponse reports how many payloads were accepted
type CollectResponse struct {
	Accepted int      `json:"accepted"`
	Rejected int      `json:"rejected"`
	Errors   []string `json:"errors,omitempty"`
}

// QuestionStat is the per-question aggregate across collected results
type QuestionStat struct {
	Position     int     `json:"position"`
	Question     string  `json:"question"`
	CorrectCount int     `json:"correct_count"`
	WrongCount   int     `json:"wrong_count"`
	AbsentCount  int     `json:"absent_count"`
	CorrectRate  float64 `json:"correct_rate"`
}

// AggregateResponse is the analytics view over collected results
type AggregateResponse struct {
	QuizID            string           `json:"quiz_id"`
	ResultCount       int              `json:"result_count"`
	AverageScore      float64          `json:"average_score"`
	AveragePercentage float64          `json:"average_percentage"`
	PassRate          float64          `json:"pass_rate"`
	HighestScore      int              `json:"highest_score"`
	LowestScore       int              `json:"lowest_score"`
	PerQuestion       []QuestionStat   `json:"per_question,omitempty"`
	Results           []ResultResponse `json:"results"`
}

// SetPassphraseRequest sets the export passphrase
type SetPassphraseRequest struct {
	Passphrase string `json:"passphrase"`
}

// UnlockRequest presents the passphrase to obtain an export token
type UnlockRequest struct {
	Passphrase string `json:"passphrase"`
}

// TokenResponse carries a short-lived export token
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ThemeRequest sets the saved theme preference
type ThemeRequest struct {
	Theme string `json:"theme"`
}

// ThemeResponse returns the saved theme preference
type ThemeResponse struct {
	Theme string `json:"theme"`
}
