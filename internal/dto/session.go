package dto

// JoinRequest starts a new session from a pasted share link or token
type JoinRequest struct {
	StudentName string `json:"student_name"`
	Link        string `json:"link"`
}

// JoinResponse identifies the created session
type JoinResponse struct {
	SessionID      string `json:"session_id"`
	QuizID         string `json:"quiz_id"`
	StudentName    string `json:"student_name"`
	TotalQuestions int    `json:"total_questions"`
}

// SelectRequest records an answer for the current question
type SelectRequest struct {
	Option int `json:"option"`
}

// ViolationRequest reports an anti-cheat event
type ViolationRequest struct {
	Kind string `json:"kind"`
}

// QuestionView is the current question as presented to the student
type QuestionView struct {
	Position     int      `json:"position"`
	Total        int      `json:"total"`
	Type         string   `json:"type"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	OptionImages []string `json:"option_images,omitempty"`
	Category     string   `json:"category,omitempty"`
	Hint         string   `json:"hint,omitempty"`
}

// FeedbackView is shown while the answered question is held on screen
type FeedbackView struct {
	Selected      int    `json:"selected"`
	CorrectOption int    `json:"correct_option"`
	Correct       bool   `json:"correct"`
	Explanation   string `json:"explanation,omitempty"`
}

// SessionStateResponse is a snapshot of a running session
type SessionStateResponse struct {
	SessionID        string          `json:"session_id"`
	State            string          `json:"state"`
	StudentName      string          `json:"student_name"`
	QuizID           string          `json:"quiz_id"`
	Position         int             `json:"position"`
	Total            int             `json:"total"`
	RemainingSeconds float64         `json:"remaining_seconds"`
	Violations       int             `json:"violations"`
	Warnings         int             `json:"warnings"`
	Obscured         bool            `json:"obscured"`
	Locked           bool            `json:"locked"`
	Question         *QuestionView   `json:"question,omitempty"`
	Feedback         *FeedbackView   `json:"feedback,omitempty"`
	Result           *ResultResponse `json:"result,omitempty"`
}

// FinishResponse carries the final result and the link that delivers it
type FinishResponse struct {
	Result     ResultResponse `json:"result"`
	ResultLink string         `json:"result_link"`
}

// ReviewItemResponse is one question in the post-quiz review
type ReviewItemResponse struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Selected    int      `json:"selected"`
	WasCorrect  bool     `json:"was_correct"`
	Explanation string   `json:"explanation,omitempty"`
	Category    string   `json:"category,omitempty"`
}

// ReviewResponse lists the full answer breakdown after finishing
type ReviewResponse struct {
	SessionID string               `json:"session_id"`
	Items     []ReviewItemResponse `json:"items"`
}
