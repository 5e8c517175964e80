package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StringSlice stores a string array as a JSON text column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(bytesToParse, s)
}

// IntMap stores a position-to-answer map as a JSON text column.
type IntMap map[int]int

// Value implements the driver.Valuer interface
func (m IntMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	jsonData, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (m *IntMap) Scan(value interface{}) error {
	if value == nil {
		*m = IntMap{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("IntMap Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*m = IntMap{}
		return nil
	}
	return json.Unmarshal(bytesToParse, m)
}

// Question is the questions table row. Seq preserves authored order;
// re-added questions land at the end.
type Question struct {
	ID            string         `db:"id"`
	Seq           int64          `db:"seq"`
	QuestionType  string         `db:"question_type"`
	QuestionText  string         `db:"question_text"`
	Options       StringSlice    `db:"options"`
	CorrectAnswer int            `db:"correct_answer"`
	Category      sql.NullString `db:"category"`
	Hint          sql.NullString `db:"hint"`
	Explanation   sql.NullString `db:"explanation"`
	OptionImages  StringSlice    `db:"option_images"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

// Result is the collected_results table row. (student_name, quiz_id) is
// unique; a later attempt by the same student replaces the earlier one.
type Result struct {
	ID             int64     `db:"id"`
	StudentName    string    `db:"student_name"`
	QuizID         string    `db:"quiz_id"`
	Score          int       `db:"score"`
	TotalQuestions int       `db:"total_questions"`
	Answers        IntMap    `db:"answers"`
	CompletedAt    time.Time `db:"completed_at"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (Result) TableName() string {
	return "collected_results"
}
