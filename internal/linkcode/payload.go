package linkcode

import (
	"time"

	"quizlink/internal/domain"
)

// QuestionPayload is the wire form of a question inside a share link.
type QuestionPayload struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Category      string   `json:"category,omitempty"`
	Hint          string   `json:"hint,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
	OptionImages  []string `json:"optionImages,omitempty"`
}

// QuizPayload is the wire form of a whole quiz inside a share link.
type QuizPayload struct {
	ID        string            `json:"id"`
	Questions []QuestionPayload `json:"questions"`
	Version   string            `json:"version"`
}

// ResultPayload is the wire form of a finished attempt inside a result
// link. Answer keys are question positions serialized as decimal
// strings; unanswered positions carry no key.
type ResultPayload struct {
	StudentName    string      `json:"studentName"`
	QuizID         string      `json:"quizId"`
	Score          int         `json:"score"`
	TotalQuestions int         `json:"totalQuestions"`
	Answers        map[int]int `json:"answers"`
	CompletedAt    time.Time   `json:"completedAt"`
}

func quizToPayload(quiz *domain.Quiz) *QuizPayload {
	p := &QuizPayload{
		ID:        quiz.ID,
		Questions: make([]QuestionPayload, 0, len(quiz.Questions)),
		Version:   domain.QuizVersion,
	}
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		p.Questions = append(p.Questions, QuestionPayload{
			ID:            q.ID,
			Type:          q.Type,
			Question:      q.Text,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Category:      q.Category,
			Hint:          q.Hint,
			Explanation:   q.Explanation,
			OptionImages:  q.OptionImages,
		})
	}
	return p
}

func (p *QuizPayload) toDomain() *domain.Quiz {
	quiz := &domain.Quiz{
		ID:        p.ID,
		Version:   p.Version,
		Questions: make([]domain.Question, 0, len(p.Questions)),
	}
	for _, qp := range p.Questions {
		quiz.Questions = append(quiz.Questions, domain.Question{
			ID:            qp.ID,
			Type:          qp.Type,
			Text:          qp.Question,
			Options:       qp.Options,
			CorrectAnswer: qp.CorrectAnswer,
			Category:      qp.Category,
			Hint:          qp.Hint,
			Explanation:   qp.Explanation,
			OptionImages:  qp.OptionImages,
		})
	}
	return quiz
}

func resultToPayload(result *domain.Result) *ResultPayload {
	answers := make(map[int]int, len(result.Answers))
	for pos, ans := range result.Answers {
		if ans == domain.AnswerAbsent {
			continue
		}
		answers[pos] = ans
	}
	return &ResultPayload{
		StudentName:    result.StudentName,
		QuizID:         result.QuizID,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		Answers:        answers,
		CompletedAt:    result.CompletedAt,
	}
}

func (p *ResultPayload) toDomain() *domain.Result {
	// Some encoders mark unanswered questions with a negative value
	// instead of omitting the key. Normalize to the absent-key form.
	answers := make(domain.AnswerMap, len(p.Answers))
	for pos, ans := range p.Answers {
		if ans < 0 {
			continue
		}
		answers[pos] = ans
	}
	return &domain.Result{
		StudentName:    p.StudentName,
		QuizID:         p.QuizID,
		Score:          p.Score,
		TotalQuestions: p.TotalQuestions,
		Answers:        answers,
		CompletedAt:    p.CompletedAt,
	}
}
