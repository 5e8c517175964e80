package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // Postgres driver

	"go.uber.org/zap"

	"quizlink/internal/logger"
)

// NewSQLXPostgresDB opens a Postgres connection pool with sqlx and
// verifies it with a ping.
func NewSQLXPostgresDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Postgres database: %w", err)
	}

	logger.Get().Info("Successfully connected to Postgres database")
	return db, nil
}

// Close closes the database pool, logging any error.
func Close(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.Get().Error("Failed to close database", zap.Error(err))
	}
}
