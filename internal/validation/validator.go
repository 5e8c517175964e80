package validation

import (
	"regexp"
	"strings"

	"quizlink/internal/domain"
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAddQuestionRequest validates the add question request
func (v *Validator) ValidateAddQuestionRequest(questionType, text string, options []string, correctAnswer int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(text) == "" {
		errors = append(errors, domain.NewMissingFieldError("question"))
	} else if len(text) > 2000 {
		errors = append(errors, domain.NewOutOfRangeError("question", len(text), 1, 2000))
	}

	switch questionType {
	case domain.TypeMultipleChoice:
		if len(options) != 4 {
			errors = append(errors, domain.NewOutOfRangeError("options", len(options), 4, 4))
		} else {
			for _, opt := range options {
				if strings.TrimSpace(opt) == "" {
					errors = append(errors, domain.NewMissingFieldError("options"))
					break
				}
			}
			if correctAnswer < 0 || correctAnswer >= len(options) {
				errors = append(errors, domain.NewOutOfRangeError("correctAnswer", correctAnswer, 0, len(options)-1))
			}
		}
	case domain.TypeTrueFalse:
		if correctAnswer != 0 && correctAnswer != 1 {
			errors = append(errors, domain.NewOutOfRangeError("correctAnswer", correctAnswer, 0, 1))
		}
	case "":
		errors = append(errors, domain.NewMissingFieldError("type"))
	default:
		errors = append(errors, domain.NewInvalidFormatError("type", questionType))
	}

	return errors
}

// ValidateJoinRequest validates a student joining with a share link
func (v *Validator) ValidateJoinRequest(studentName, link string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(studentName) == "" {
		errors = append(errors, domain.NewMissingFieldError("studentName"))
	} else if len(studentName) > 100 {
		errors = append(errors, domain.NewOutOfRangeError("studentName", len(studentName), 1, 100))
	}

	if strings.TrimSpace(link) == "" {
		errors = append(errors, domain.NewMissingFieldError("link"))
	}

	return errors
}

// ValidateQuizID validates a quiz identifier parameter
func (v *Validator) ValidateQuizID(quizID string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(quizID) == "" {
		errors = append(errors, domain.NewMissingFieldError("quiz_id"))
	} else if !isValidULID(quizID) {
		errors = append(errors, domain.NewInvalidFormatError("quiz_id", quizID))
	}

	return errors
}

// ValidatePassphrase validates the export passphrase
func (v *Validator) ValidatePassphrase(passphrase string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if passphrase == "" {
		errors = append(errors, domain.NewMissingFieldError("passphrase"))
	} else if len(passphrase) < 4 || len(passphrase) > 72 {
		// bcrypt rejects inputs above 72 bytes
		errors = append(errors, domain.NewOutOfRangeError("passphrase", len(passphrase), 4, 72))
	}

	return errors
}

// ValidateTheme validates a theme preference value
func (v *Validator) ValidateTheme(theme string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	switch theme {
	case "light", "dark":
	case "":
		errors = append(errors, domain.NewMissingFieldError("theme"))
	default:
		errors = append(errors, domain.NewInvalidFormatError("theme", theme))
	}

	return errors
}

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	if len(s) != 26 {
		return false
	}
	validULID := regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	return validULID.MatchString(s)
}
