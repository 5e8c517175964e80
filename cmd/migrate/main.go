package main

import (
	"flag"
	"log"

	"quizlink/internal/config"
	"quizlink/internal/database"
	"quizlink/internal/logger"
)

func main() {
	migrationsPath := flag.String("path", "migrations", "directory holding the migration files")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db, *migrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
}
