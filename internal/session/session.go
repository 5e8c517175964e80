// Package session runs a single student's timed pass through a quiz:
// per-question countdowns, answer locking with feedback holds, and
// violation tracking with escalating consequences.
package session

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"quizlink/internal/domain"
)

// State is the lifecycle phase of a session.
type State string

const (
	StateNotStarted State = "not_started"
	StateRunning    State = "running"
	StatePaused     State = "paused"
	StateFinished   State = "finished"
)

// ViolationKind classifies an anti-cheat event reported by the client.
type ViolationKind string

const (
	ViolationFocusLost        ViolationKind = "focus_lost"
	ViolationVisibilityHidden ViolationKind = "visibility_hidden"
	ViolationScreenshot       ViolationKind = "screenshot"
	ViolationCopyShortcut     ViolationKind = "copy_shortcut"
	ViolationContextMenu      ViolationKind = "context_menu"
)

// counts reports whether the kind increments the violation counter.
// Context-menu attempts only warn.
func (k ViolationKind) counts() bool {
	return k != ViolationContextMenu
}

// Valid reports whether the kind is one the session understands.
func (k ViolationKind) Valid() bool {
	switch k {
	case ViolationFocusLost, ViolationVisibilityHidden, ViolationScreenshot,
		ViolationCopyShortcut, ViolationContextMenu:
		return true
	}
	return false
}

// Config carries the timing knobs for a session. Tests shrink these to
// milliseconds.
type Config struct {
	QuestionTime   time.Duration
	TickInterval   time.Duration
	FeedbackHold   time.Duration
	ObscureWindow  time.Duration
	ViolationLimit int
	Shuffle        bool
	Seed           int64 // 0 seeds from the clock
}

// Session is a single student's attempt at a quiz. All methods are safe
// for concurrent use.
type Session struct {
	mu sync.Mutex

	id          string
	studentName string
	quiz        *domain.Quiz
	cfg         Config

	state       State
	order       []int   // display position -> authored question index
	optionOrder [][]int // authored question index -> display slot -> authored option index
	current     int     // display position
	remaining   time.Duration
	answers     domain.AnswerMap // authored question index -> authored option index
	violations  int
	warnings    int
	locked      bool
	obscured    bool
	result      *domain.Result

	questionTimer *time.Timer
	holdTimer     *time.Timer
	obscureTimer  *time.Timer
}

// NewSession builds a session for the given quiz. The quiz must already
// be validated.
func NewSession(quiz *domain.Quiz, studentName string, cfg Config) *Session {
	s := &Session{
		id:          uuid.NewString(),
		studentName: studentName,
		quiz:        quiz,
		cfg:         cfg,
		state:       StateNotStarted,
		answers:     make(domain.AnswerMap, len(quiz.Questions)),
	}
	s.shuffle()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// StudentName returns the name the student joined with.
func (s *Session) StudentName() string {
	return s.studentName
}

// QuizID returns the identifier of the quiz being taken.
func (s *Session) QuizID() string {
	return s.quiz.ID
}

// Quiz returns the immutable quiz copy this session runs over.
func (s *Session) Quiz() *domain.Quiz {
	return s.quiz
}

func (s *Session) shuffle() {
	n := len(s.quiz.Questions)
	s.order = make([]int, n)
	for i := range s.order {
		s.order[i] = i
	}
	s.optionOrder = make([][]int, n)
	for qi := range s.optionOrder {
		opts := make([]int, len(s.quiz.Questions[qi].Options))
		for i := range opts {
			opts[i] = i
		}
		s.optionOrder[qi] = opts
	}
	if !s.cfg.Shuffle {
		return
	}
	seed := s.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) {
		s.order[i], s.order[j] = s.order[j], s.order[i]
	})
	for qi := range s.optionOrder {
		// True-false keeps its fixed option order.
		if s.quiz.Questions[qi].Type == domain.TypeTrueFalse {
			continue
		}
		opts := s.optionOrder[qi]
		rng.Shuffle(len(opts), func(i, j int) {
			opts[i], opts[j] = opts[j], opts[i]
		})
	}
}

// Start moves the session from not_started to running and arms the
// first question's countdown.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateNotStarted {
		return domain.NewInvalidTransitionError("session already started")
	}
	s.state = StateRunning
	s.current = 0
	s.remaining = s.cfg.QuestionTime
	s.armTickLocked()
	return nil
}

// Select records the student's choice for the current question. The
// argument is the option's display slot, which is mapped back to the
// authored option before it is stored. Selecting locks the question and
// schedules the advance after the feedback hold.
func (s *Session) Select(displayOption int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return domain.NewInvalidTransitionError("session is not running")
	}
	if s.locked {
		return domain.NewInvalidTransitionError("current question is already answered")
	}
	qi := s.order[s.current]
	opts := s.optionOrder[qi]
	if displayOption < 0 || displayOption >= len(opts) {
		return domain.NewInvalidInputError("selected option is out of range")
	}
	s.answers[qi] = opts[displayOption]
	s.lockAndHoldLocked()
	return nil
}

// Pause stops the countdown and remembers the remaining time.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return domain.NewInvalidTransitionError("session is not running")
	}
	s.state = StatePaused
	s.stopTimersLocked()
	return nil
}

// Resume continues a paused session with the time that was left when it
// was paused.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePaused {
		return domain.NewInvalidTransitionError("session is not paused")
	}
	s.state = StateRunning
	if s.locked {
		s.armHoldLocked()
	} else {
		s.armTickLocked()
	}
	return nil
}

// ReportViolation records an anti-cheat event. The second counted
// violation obscures the screen for a window, and reaching the limit
// force-finishes the attempt with the remaining questions unanswered.
func (s *Session) ReportViolation(kind ViolationKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !kind.Valid() {
		return domain.NewInvalidInputError("unknown violation kind: " + string(kind))
	}
	if s.state != StateRunning && s.state != StatePaused {
		return domain.NewInvalidTransitionError("session is not active")
	}
	if !kind.counts() {
		s.warnings++
		return nil
	}
	s.violations++
	if s.violations >= s.cfg.ViolationLimit {
		s.finishLocked()
		return nil
	}
	if s.violations == 2 {
		s.obscured = true
		if s.obscureTimer != nil {
			s.obscureTimer.Stop()
		}
		s.obscureTimer = time.AfterFunc(s.cfg.ObscureWindow, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.obscured = false
		})
	}
	return nil
}

// Finish ends the attempt and scores it. Unanswered questions simply
// have no entry in the answer map. Finishing an already finished
// session is a no-op.
func (s *Session) Finish() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateFinished {
		return nil
	}
	if s.state == StateNotStarted {
		return domain.NewInvalidTransitionError("session has not started")
	}
	s.finishLocked()
	return nil
}

// Result returns the scored outcome once the session is finished.
func (s *Session) Result() (*domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateFinished {
		return nil, domain.NewInvalidTransitionError("session is not finished")
	}
	return s.result, nil
}

// Retake rearms a finished session for a fresh attempt: new shuffle,
// cleared answers and violations.
func (s *Session) Retake() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateFinished {
		return domain.NewInvalidTransitionError("session is not finished")
	}
	s.state = StateNotStarted
	s.current = 0
	s.remaining = 0
	s.answers = make(domain.AnswerMap, len(s.quiz.Questions))
	s.violations = 0
	s.warnings = 0
	s.locked = false
	s.obscured = false
	s.result = nil
	s.shuffle()
	return nil
}

// armTickLocked arms one countdown tick. Each tick re-arms itself until
// the question's time is spent.
func (s *Session) armTickLocked() {
	if s.questionTimer != nil {
		s.questionTimer.Stop()
	}
	s.questionTimer = time.AfterFunc(s.cfg.TickInterval, s.tick)
}

func (s *Session) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning || s.locked {
		return
	}
	s.remaining -= s.cfg.TickInterval
	if s.remaining > 0 {
		s.armTickLocked()
		return
	}
	// Time ran out: leave the question unanswered and move on.
	s.remaining = 0
	s.lockAndHoldLocked()
}

// lockAndHoldLocked freezes the current question for the feedback hold,
// then advances.
func (s *Session) lockAndHoldLocked() {
	s.locked = true
	if s.questionTimer != nil {
		s.questionTimer.Stop()
	}
	s.armHoldLocked()
}

func (s *Session) armHoldLocked() {
	if s.holdTimer != nil {
		s.holdTimer.Stop()
	}
	s.holdTimer = time.AfterFunc(s.cfg.FeedbackHold, s.advance)
}

func (s *Session) advance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning || !s.locked {
		return
	}
	s.locked = false
	s.current++
	if s.current >= len(s.order) {
		s.finishLocked()
		return
	}
	s.remaining = s.cfg.QuestionTime
	s.armTickLocked()
}

func (s *Session) finishLocked() {
	s.stopTimersLocked()
	if s.obscureTimer != nil {
		s.obscureTimer.Stop()
	}
	s.obscured = false
	s.locked = false

	score := 0
	for qi := range s.quiz.Questions {
		if ans, ok := s.answers[qi]; ok && ans == s.quiz.Questions[qi].CorrectAnswer {
			score++
		}
	}
	s.result = domain.NewResult(s.studentName, s.quiz.ID, score, len(s.quiz.Questions), s.answers)
	s.state = StateFinished
}

func (s *Session) stopTimersLocked() {
	if s.questionTimer != nil {
		s.questionTimer.Stop()
	}
	if s.holdTimer != nil {
		s.holdTimer.Stop()
	}
}
