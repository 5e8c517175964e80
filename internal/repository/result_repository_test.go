package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizlink/internal/domain"
)

func TestResultUpsert(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewResultDatabaseAdapter(db)

	mock.ExpectExec(`INSERT INTO collected_results`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	result := domain.NewResult("Mina", "quiz-1", 2, 3, domain.AnswerMap{0: 1, 1: 0})
	require.NoError(t, repo.Upsert(context.Background(), result))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultGetByQuiz(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewResultDatabaseAdapter(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "student_name", "quiz_id", "score", "total_questions", "answers",
		"completed_at", "created_at", "updated_at",
	}).
		AddRow(1, "Mina", "quiz-1", 2, 3, `{"0":1,"1":0,"2":-1}`, now, now, now).
		AddRow(2, "Taeyang", "quiz-1", 3, 3, `{"0":1,"1":1,"2":0}`, now, now, now)

	mock.ExpectQuery(`SELECT (.+) FROM collected_results WHERE quiz_id = \$1 ORDER BY student_name`).
		WithArgs("quiz-1").
		WillReturnRows(rows)

	results, err := repo.GetByQuiz(context.Background(), "quiz-1")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Mina", results[0].StudentName)
	assert.Equal(t, domain.AnswerAbsent, results[0].Answers[2])
	assert.Equal(t, 3, results[1].Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultGetByQuizEmpty(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewResultDatabaseAdapter(db)

	rows := sqlmock.NewRows([]string{
		"id", "student_name", "quiz_id", "score", "total_questions", "answers",
		"completed_at", "created_at", "updated_at",
	})

	mock.ExpectQuery(`SELECT (.+) FROM collected_results WHERE quiz_id = \$1 ORDER BY student_name`).
		WithArgs("quiz-404").
		WillReturnRows(rows)

	results, err := repo.GetByQuiz(context.Background(), "quiz-404")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultDeleteByQuiz(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewResultDatabaseAdapter(db)

	mock.ExpectExec(`DELETE FROM collected_results WHERE quiz_id = \$1`).
		WithArgs("quiz-1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.DeleteByQuiz(context.Background(), "quiz-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
