package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizlink/internal/domain"
)

func fastConfig() Config {
	return Config{
		QuestionTime:   80 * time.Millisecond,
		TickInterval:   20 * time.Millisecond,
		FeedbackHold:   40 * time.Millisecond,
		ObscureWindow:  50 * time.Millisecond,
		ViolationLimit: 3,
		Shuffle:        false,
	}
}

func threeQuestionQuiz() *domain.Quiz {
	return &domain.Quiz{
		ID:      "quiz-1",
		Version: domain.QuizVersion,
		Questions: []domain.Question{
			{
				ID:            "q1",
				Type:          domain.TypeMultipleChoice,
				Text:          "2 + 2 = ?",
				Options:       []string{"3", "4", "5", "22"},
				CorrectAnswer: 1,
			},
			{
				ID:            "q2",
				Type:          domain.TypeTrueFalse,
				Text:          "The sky is green.",
				Options:       []string{"True", "False"},
				CorrectAnswer: 1,
			},
			{
				ID:            "q3",
				Type:          domain.TypeMultipleChoice,
				Text:          "Capital of France?",
				Options:       []string{"Paris", "Rome", "Berlin", "Madrid"},
				CorrectAnswer: 0,
			},
		},
	}
}

func waitForPosition(t *testing.T, s *Session, pos int) {
	t.Helper()
	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		return snap.Position == pos && !snap.Locked
	}, time.Second, 5*time.Millisecond)
}

func waitForState(t *testing.T, s *Session, state State) {
	t.Helper()
	require.Eventually(t, func() bool {
		return s.Snapshot().State == state
	}, time.Second, 5*time.Millisecond)
}

func TestSessionLifecycle(t *testing.T) {
	s := NewSession(threeQuestionQuiz(), "Mina", fastConfig())

	snap := s.Snapshot()
	assert.Equal(t, StateNotStarted, snap.State)
	assert.Nil(t, snap.Question)

	require.NoError(t, s.Start())
	snap = s.Snapshot()
	assert.Equal(t, StateRunning, snap.State)
	require.NotNil(t, snap.Question)
	assert.Equal(t, "2 + 2 = ?", snap.Question.Text)
	assert.Equal(t, 3, snap.Total)

	err := s.Start()
	require.Error(t, err)
	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrInvalidTransition, de.Code)
}

func TestSelectLocksAndAdvances(t *testing.T) {
	s := NewSession(threeQuestionQuiz(), "Mina", fastConfig())
	require.NoError(t, s.Start())

	require.NoError(t, s.Select(1))
	snap := s.Snapshot()
	assert.True(t, snap.Locked)
	require.NotNil(t, snap.Feedback)
	assert.True(t, snap.Feedback.Correct)
	assert.Equal(t, 1, snap.Feedback.Selected)
	assert.Equal(t, 1, snap.Feedback.CorrectOption)

	// A second select while locked is rejected.
	err := s.Select(0)
	require.Error(t, err)

	waitForPosition(t, s, 1)
	assert.Equal(t, "The sky is green.", s.Snapshot().Question.Text)
}

func TestTimeoutRecordsAbsent(t *testing.T) {
	s := NewSession(threeQuestionQuiz(), "Mina", fastConfig())
	require.NoError(t, s.Start())

	// Let the first question time out without answering.
	waitForPosition(t, s, 1)

	require.NoError(t, s.Select(1))
	waitForPosition(t, s, 2)
	require.NoError(t, s.Select(0))
	waitForState(t, s, StateFinished)

	result, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, 2, result.Score)
	assert.Equal(t, 3, result.TotalQuestions)
	// The timed-out question leaves no entry, never a wrong-looking one.
	_, answered := result.Answers[0]
	assert.False(t, answered)
	assert.Equal(t, 1, result.Answers[1])
	assert.Equal(t, 0, result.Answers[2])
}

func TestShuffledScoringUsesAuthoredIndexes(t *testing.T) {
	cfg := fastConfig()
	cfg.Shuffle = true
	cfg.Seed = 42

	quiz := threeQuestionQuiz()
	s := NewSession(quiz, "Mina", cfg)
	require.NoError(t, s.Start())

	// Answer every question correctly by locating the right option text
	// in the shuffled view.
	for s.Snapshot().State == StateRunning {
		snap := s.Snapshot()
		if snap.Locked || snap.Question == nil {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		correctText := map[string]string{
			"2 + 2 = ?":          "4",
			"The sky is green.":  "False",
			"Capital of France?": "Paris",
		}[snap.Question.Text]
		slot := -1
		for i, opt := range snap.Question.Options {
			if opt == correctText {
				slot = i
			}
		}
		require.GreaterOrEqual(t, slot, 0)
		require.NoError(t, s.Select(slot))
		waitForNextOrFinish(t, s, snap.Position)
	}

	result, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, 3, result.Score)
	// Answers are keyed by authored position regardless of display order.
	assert.Equal(t, 1, result.Answers[0])
	assert.Equal(t, 1, result.Answers[1])
	assert.Equal(t, 0, result.Answers[2])
}

func waitForNextOrFinish(t *testing.T, s *Session, prevPos int) {
	t.Helper()
	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		return snap.State == StateFinished || (snap.Position == prevPos+1 && !snap.Locked)
	}, time.Second, 5*time.Millisecond)
}

func TestPauseFreezesCountdown(t *testing.T) {
	cfg := fastConfig()
	s := NewSession(threeQuestionQuiz(), "Mina", cfg)
	require.NoError(t, s.Start())

	// Burn at least one tick so the paused value is below the full time.
	require.Eventually(t, func() bool {
		return s.Snapshot().Remaining < cfg.QuestionTime
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Pause())
	remaining := s.Snapshot().Remaining

	// Sleep past what would be the full question time.
	time.Sleep(120 * time.Millisecond)
	snap := s.Snapshot()
	assert.Equal(t, StatePaused, snap.State)
	assert.Equal(t, remaining, snap.Remaining)
	assert.Equal(t, 0, snap.Position)

	require.NoError(t, s.Resume())
	snap = s.Snapshot()
	assert.Equal(t, StateRunning, snap.State)
	// The countdown picks up at the paused value, not the full duration.
	assert.Equal(t, remaining, snap.Remaining)
	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		return snap.Locked || snap.Position > 0 || snap.Remaining < remaining
	}, time.Second, 5*time.Millisecond)

	err := s.Resume()
	require.Error(t, err)
}

func TestContextMenuOnlyWarns(t *testing.T) {
	s := NewSession(threeQuestionQuiz(), "Mina", fastConfig())
	require.NoError(t, s.Start())

	for i := 0; i < 5; i++ {
		require.NoError(t, s.ReportViolation(ViolationContextMenu))
	}
	snap := s.Snapshot()
	assert.Equal(t, 0, snap.Violations)
	assert.Equal(t, 5, snap.Warnings)
	assert.Equal(t, StateRunning, snap.State)
}

func TestSecondViolationObscures(t *testing.T) {
	s := NewSession(threeQuestionQuiz(), "Mina", fastConfig())
	require.NoError(t, s.Start())

	require.NoError(t, s.ReportViolation(ViolationFocusLost))
	assert.False(t, s.Snapshot().Obscured)

	require.NoError(t, s.ReportViolation(ViolationVisibilityHidden))
	assert.True(t, s.Snapshot().Obscured)

	// The obscure window clears on its own.
	require.Eventually(t, func() bool {
		return !s.Snapshot().Obscured
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, StateRunning, s.Snapshot().State)
}

func TestThirdViolationForceFinishes(t *testing.T) {
	s := NewSession(threeQuestionQuiz(), "Mina", fastConfig())
	require.NoError(t, s.Start())
	require.NoError(t, s.Select(1))

	require.NoError(t, s.ReportViolation(ViolationFocusLost))
	require.NoError(t, s.ReportViolation(ViolationScreenshot))
	require.NoError(t, s.ReportViolation(ViolationCopyShortcut))

	snap := s.Snapshot()
	assert.Equal(t, StateFinished, snap.State)
	assert.Equal(t, 3, snap.Violations)

	result, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Score)
	require.Len(t, result.Answers, 1)
	assert.Equal(t, 1, result.Answers[0])
}

func TestUnknownViolationKindRejected(t *testing.T) {
	s := NewSession(threeQuestionQuiz(), "Mina", fastConfig())
	require.NoError(t, s.Start())

	err := s.ReportViolation(ViolationKind("shouting"))
	require.Error(t, err)
}

func TestFinishIsIdempotent(t *testing.T) {
	s := NewSession(threeQuestionQuiz(), "Mina", fastConfig())
	require.NoError(t, s.Start())
	require.NoError(t, s.Select(1))

	require.NoError(t, s.Finish())
	result1, err := s.Result()
	require.NoError(t, err)

	require.NoError(t, s.Finish())
	result2, err := s.Result()
	require.NoError(t, err)
	assert.Same(t, result1, result2)
	assert.Equal(t, 1, result1.Score)
}

func TestReviewAfterFinish(t *testing.T) {
	s := NewSession(threeQuestionQuiz(), "Mina", fastConfig())
	require.NoError(t, s.Start())

	_, err := s.Review()
	require.Error(t, err)

	require.NoError(t, s.Select(0)) // wrong
	require.NoError(t, s.Finish())

	items, err := s.Review()
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, 0, items[0].Selected)
	assert.False(t, items[0].WasCorrect)
	assert.Equal(t, domain.AnswerAbsent, items[1].Selected)
	assert.Equal(t, 1, items[1].Correct)
}

func TestRetakeResets(t *testing.T) {
	s := NewSession(threeQuestionQuiz(), "Mina", fastConfig())

	err := s.Retake()
	require.Error(t, err)

	require.NoError(t, s.Start())
	require.NoError(t, s.ReportViolation(ViolationFocusLost))
	require.NoError(t, s.Finish())

	require.NoError(t, s.Retake())
	snap := s.Snapshot()
	assert.Equal(t, StateNotStarted, snap.State)
	assert.Equal(t, 0, snap.Violations)
	assert.Nil(t, snap.Result)

	require.NoError(t, s.Start())
	assert.Equal(t, StateRunning, s.Snapshot().State)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	s := NewSession(threeQuestionQuiz(), "Mina", fastConfig())

	r.Add(s)
	assert.Equal(t, 1, r.Len())

	got, err := r.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = r.Get("missing")
	require.Error(t, err)
	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrSessionNotFound, de.Code)

	r.Remove(s.ID())
	assert.Equal(t, 0, r.Len())
	r.Remove(s.ID())
}
