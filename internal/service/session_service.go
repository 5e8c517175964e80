package service

import (
	"context"

	"quizlink/internal/domain"
	"quizlink/internal/dto"
	"quizlink/internal/linkcode"
	"quizlink/internal/session"
	"quizlink/internal/validation"
)

// SessionService drives the student flow from join to result link.
type SessionService interface {
	Join(ctx context.Context, req dto.JoinRequest) (*dto.JoinResponse, error)
	Start(ctx context.Context, sessionID string) (*dto.SessionStateResponse, error)
	State(ctx context.Context, sessionID string) (*dto.SessionStateResponse, error)
	Select(ctx context.Context, sessionID string, req dto.SelectRequest) (*dto.SessionStateResponse, error)
	Pause(ctx context.Context, sessionID string) (*dto.SessionStateResponse, error)
	Resume(ctx context.Context, sessionID string) (*dto.SessionStateResponse, error)
	ReportViolation(ctx context.Context, sessionID string, req dto.ViolationRequest) (*dto.SessionStateResponse, error)
	Finish(ctx context.Context, sessionID string) (*dto.FinishResponse, error)
	Review(ctx context.Context, sessionID string) (*dto.ReviewResponse, error)
	Export(ctx context.Context, sessionID string) ([]byte, error)
	Retake(ctx context.Context, sessionID string) (*dto.SessionStateResponse, error)
	Leave(ctx context.Context, sessionID string) error
}

type sessionServiceImpl struct {
	registry   *session.Registry
	sessionCfg session.Config
	validator  *validation.Validator
	exporter   domain.ResultExporter
	baseURL    string
}

// NewSessionService creates a new instance of SessionService.
func NewSessionService(registry *session.Registry, sessionCfg session.Config, exporter domain.ResultExporter, baseURL string) SessionService {
	return &sessionServiceImpl{
		registry:   registry,
		sessionCfg: sessionCfg,
		validator:  validation.NewValidator(),
		exporter:   exporter,
		baseURL:    baseURL,
	}
}

// Join decodes a pasted share link and creates a fresh session over the
// embedded quiz. A malformed or empty quiz fails the join outright.
func (s *sessionServiceImpl) Join(ctx context.Context, req dto.JoinRequest) (*dto.JoinResponse, error) {
	if errs := s.validator.ValidateJoinRequest(req.StudentName, req.Link); errs.HasErrors() {
		return nil, errs
	}

	quiz, err := linkcode.DecodeQuiz(req.Link)
	if err != nil {
		return nil, err
	}
	if err := quiz.Validate(); err != nil {
		return nil, domain.NewInvalidLinkError(err)
	}

	sess := session.NewSession(quiz, req.StudentName, s.sessionCfg)
	s.registry.Add(sess)

	return &dto.JoinResponse{
		SessionID:      sess.ID(),
		QuizID:         quiz.ID,
		StudentName:    req.StudentName,
		TotalQuestions: len(quiz.Questions),
	}, nil
}

func (s *sessionServiceImpl) Start(ctx context.Context, sessionID string) (*dto.SessionStateResponse, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Start(); err != nil {
		return nil, err
	}
	return toStateResponse(sess.Snapshot()), nil
}

func (s *sessionServiceImpl) State(ctx context.Context, sessionID string) (*dto.SessionStateResponse, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return toStateResponse(sess.Snapshot()), nil
}

func (s *sessionServiceImpl) Select(ctx context.Context, sessionID string, req dto.SelectRequest) (*dto.SessionStateResponse, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Select(req.Option); err != nil {
		return nil, err
	}
	return toStateResponse(sess.Snapshot()), nil
}

func (s *sessionServiceImpl) Pause(ctx context.Context, sessionID string) (*dto.SessionStateResponse, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Pause(); err != nil {
		return nil, err
	}
	return toStateResponse(sess.Snapshot()), nil
}

func (s *sessionServiceImpl) Resume(ctx context.Context, sessionID string) (*dto.SessionStateResponse, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Resume(); err != nil {
		return nil, err
	}
	return toStateResponse(sess.Snapshot()), nil
}

func (s *sessionServiceImpl) ReportViolation(ctx context.Context, sessionID string, req dto.ViolationRequest) (*dto.SessionStateResponse, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.ReportViolation(session.ViolationKind(req.Kind)); err != nil {
		return nil, err
	}
	return toStateResponse(sess.Snapshot()), nil
}

// Finish ends the attempt and returns the scored result together with
// the result link the student hands back to the teacher.
func (s *sessionServiceImpl) Finish(ctx context.Context, sessionID string) (*dto.FinishResponse, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Finish(); err != nil {
		return nil, err
	}
	result, err := sess.Result()
	if err != nil {
		return nil, err
	}
	link, err := linkcode.ResultLink(s.baseURL, result)
	if err != nil {
		return nil, domain.NewInternalError("failed to encode result link", err)
	}
	return &dto.FinishResponse{
		Result:     toResultResponse(result),
		ResultLink: link,
	}, nil
}

func (s *sessionServiceImpl) Review(ctx context.Context, sessionID string) (*dto.ReviewResponse, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	items, err := sess.Review()
	if err != nil {
		return nil, err
	}
	resp := &dto.ReviewResponse{
		SessionID: sessionID,
		Items:     make([]dto.ReviewItemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.ReviewItemResponse{
			Question:    item.Question,
			Options:     item.Options,
			Correct:     item.Correct,
			Selected:    item.Selected,
			WasCorrect:  item.WasCorrect,
			Explanation: item.Explanation,
			Category:    item.Category,
		})
	}
	return resp, nil
}

// Export renders the student's own finished result as a workbook.
func (s *sessionServiceImpl) Export(ctx context.Context, sessionID string) ([]byte, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	result, err := sess.Result()
	if err != nil {
		return nil, err
	}

	data, err := s.exporter.Export(ctx, sess.Quiz(), []domain.Result{*result})
	if err != nil {
		return nil, domain.NewInternalError("failed to export result", err)
	}
	return data, nil
}

func (s *sessionServiceImpl) Retake(ctx context.Context, sessionID string) (*dto.SessionStateResponse, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Retake(); err != nil {
		return nil, err
	}
	return toStateResponse(sess.Snapshot()), nil
}

// Leave destroys the session and stops its timers.
func (s *sessionServiceImpl) Leave(ctx context.Context, sessionID string) error {
	if _, err := s.registry.Get(sessionID); err != nil {
		return err
	}
	s.registry.Remove(sessionID)
	return nil
}

func toStateResponse(snap session.Snapshot) *dto.SessionStateResponse {
	resp := &dto.SessionStateResponse{
		SessionID:        snap.ID,
		State:            string(snap.State),
		StudentName:      snap.StudentName,
		QuizID:           snap.QuizID,
		Position:         snap.Position,
		Total:            snap.Total,
		RemainingSeconds: snap.Remaining.Seconds(),
		Violations:       snap.Violations,
		Warnings:         snap.Warnings,
		Obscured:         snap.Obscured,
		Locked:           snap.Locked,
	}
	if snap.Question != nil {
		resp.Question = &dto.QuestionView{
			Position:     snap.Question.Position,
			Total:        snap.Question.Total,
			Type:         snap.Question.Type,
			Question:     snap.Question.Text,
			Options:      snap.Question.Options,
			OptionImages: snap.Question.OptionImages,
			Category:     snap.Question.Category,
			Hint:         snap.Question.Hint,
		}
	}
	if snap.Feedback != nil {
		resp.Feedback = &dto.FeedbackView{
			Selected:      snap.Feedback.Selected,
			CorrectOption: snap.Feedback.CorrectOption,
			Correct:       snap.Feedback.Correct,
			Explanation:   snap.Feedback.Explanation,
		}
	}
	if snap.Result != nil {
		r := toResultResponse(snap.Result)
		resp.Result = &r
	}
	return resp
}

func toResultResponse(r *domain.Result) dto.ResultResponse {
	return dto.ResultResponse{
		StudentName:    r.StudentName,
		QuizID:         r.QuizID,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		Percentage:     r.Percentage(),
		Passed:         r.Passed(),
		Answers:        map[int]int(r.Answers),
		CompletedAt:    r.CompletedAt,
	}
}
