package session

import (
	"time"

	"quizlink/internal/domain"
)

// QuestionView is the current question as the student sees it: options
// in display order, no correct answer.
type QuestionView struct {
	Position     int
	Total        int
	Type         string
	Text         string
	Options      []string
	OptionImages []string
	Category     string
	Hint         string
}

// Feedback is shown while a question is locked after answering or
// timing out.
type Feedback struct {
	Selected      int // display slot, AnswerAbsent on timeout
	CorrectOption int // display slot
	Correct       bool
	Explanation   string
}

// Snapshot is a point-in-time view of the session for transport to the
// client.
type Snapshot struct {
	ID          string
	State       State
	StudentName string
	QuizID      string
	Position    int
	Total       int
	Remaining   time.Duration
	Violations  int
	Warnings    int
	Obscured    bool
	Locked      bool
	Question    *QuestionView
	Feedback    *Feedback
	Result      *domain.Result
}

// Snapshot returns the session's current visible state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:          s.id,
		State:       s.state,
		StudentName: s.studentName,
		QuizID:      s.quiz.ID,
		Position:    s.current,
		Total:       len(s.order),
		Remaining:   s.remaining,
		Violations:  s.violations,
		Warnings:    s.warnings,
		Obscured:    s.obscured,
		Locked:      s.locked,
		Result:      s.result,
	}
	if (s.state == StateRunning || s.state == StatePaused) && s.current < len(s.order) {
		snap.Question = s.questionViewLocked()
		if s.locked {
			snap.Feedback = s.feedbackLocked()
		}
	}
	return snap
}

func (s *Session) questionViewLocked() *QuestionView {
	qi := s.order[s.current]
	q := &s.quiz.Questions[qi]
	opts := s.optionOrder[qi]

	view := &QuestionView{
		Position: s.current,
		Total:    len(s.order),
		Type:     q.Type,
		Text:     q.Text,
		Options:  make([]string, len(opts)),
		Category: q.Category,
		Hint:     q.Hint,
	}
	if q.OptionImages != nil {
		view.OptionImages = make([]string, len(opts))
	}
	for slot, authored := range opts {
		view.Options[slot] = q.Options[authored]
		if view.OptionImages != nil {
			view.OptionImages[slot] = q.OptionImages[authored]
		}
	}
	return view
}

func (s *Session) feedbackLocked() *Feedback {
	qi := s.order[s.current]
	q := &s.quiz.Questions[qi]
	opts := s.optionOrder[qi]

	fb := &Feedback{
		Selected:      domain.AnswerAbsent,
		CorrectOption: domain.AnswerAbsent,
		Explanation:   q.Explanation,
	}
	selected, answered := s.answers[qi]
	for slot, authored := range opts {
		if authored == q.CorrectAnswer {
			fb.CorrectOption = slot
		}
		if answered && authored == selected {
			fb.Selected = slot
		}
	}
	fb.Correct = answered && selected == q.CorrectAnswer
	return fb
}

// ReviewItem is one question in the post-quiz review, in authored order.
type ReviewItem struct {
	Question    string
	Options     []string
	Correct     int
	Selected    int
	WasCorrect  bool
	Explanation string
	Category    string
}

// Review returns the full answer breakdown for a finished session.
func (s *Session) Review() ([]ReviewItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateFinished {
		return nil, domain.NewInvalidTransitionError("session is not finished")
	}
	items := make([]ReviewItem, 0, len(s.quiz.Questions))
	for qi := range s.quiz.Questions {
		q := &s.quiz.Questions[qi]
		selected := domain.AnswerAbsent
		if ans, ok := s.answers[qi]; ok {
			selected = ans
		}
		items = append(items, ReviewItem{
			Question:    q.Text,
			Options:     q.Options,
			Correct:     q.CorrectAnswer,
			Selected:    selected,
			WasCorrect:  selected == q.CorrectAnswer,
			Explanation: q.Explanation,
			Category:    q.Category,
		})
	}
	return items, nil
}
