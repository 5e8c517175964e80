package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"quizlink/internal/domain"
	"quizlink/internal/util"
)

func TestValidateAddQuestionRequest(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name          string
		questionType  string
		text          string
		options       []string
		correctAnswer int
		wantErrors    int
	}{
		{"valid multiple choice", domain.TypeMultipleChoice, "2 + 2 = ?", []string{"3", "4", "5", "6"}, 1, 0},
		{"valid true false", domain.TypeTrueFalse, "The sky is green.", nil, 1, 0},
		{"missing text", domain.TypeMultipleChoice, "  ", []string{"3", "4", "5", "6"}, 0, 1},
		{"too few options", domain.TypeMultipleChoice, "Pick one", []string{"a", "b"}, 0, 1},
		{"too many options", domain.TypeMultipleChoice, "Pick one", []string{"a", "b", "c", "d", "e"}, 0, 1},
		{"blank option", domain.TypeMultipleChoice, "Pick one", []string{"a", " ", "c", "d"}, 0, 1},
		{"answer out of range", domain.TypeMultipleChoice, "Pick one", []string{"a", "b", "c", "d"}, 5, 1},
		{"true false bad answer", domain.TypeTrueFalse, "Really?", nil, 2, 1},
		{"missing type", "", "Pick one", []string{"a", "b"}, 0, 1},
		{"unknown type", "essay", "Write about Go.", nil, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.ValidateAddQuestionRequest(tt.questionType, tt.text, tt.options, tt.correctAnswer)
			assert.Len(t, errs, tt.wantErrors)
		})
	}
}

func TestValidateJoinRequest(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateJoinRequest("Mina", "https://example.com#quiz=abc"))
	assert.Len(t, v.ValidateJoinRequest("", "link"), 1)
	assert.Len(t, v.ValidateJoinRequest("Mina", " "), 1)
	assert.Len(t, v.ValidateJoinRequest("", ""), 2)
}

func TestValidateQuizID(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateQuizID(util.NewULID()))
	assert.True(t, v.ValidateQuizID("").HasErrors())
	assert.True(t, v.ValidateQuizID("not-a-ulid").HasErrors())
	// I, L, O and U are not valid Crockford base32 characters.
	assert.True(t, v.ValidateQuizID("IIIIIIIIIIIIIIIIIIIIIIIIII").HasErrors())
}

func TestValidatePassphrase(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidatePassphrase("open sesame"))
	assert.True(t, v.ValidatePassphrase("").HasErrors())
	assert.True(t, v.ValidatePassphrase("abc").HasErrors())
}

func TestValidateTheme(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateTheme("light"))
	assert.Empty(t, v.ValidateTheme("dark"))
	assert.True(t, v.ValidateTheme("").HasErrors())
	assert.True(t, v.ValidateTheme("solarized").HasErrors())
}
