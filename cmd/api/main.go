// @title QuizLink API
// @version 1.0
// @description Authoring, delivery and result collection for link-encoded quizzes.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_EXPORT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"quizlink/internal/adapter"
	"quizlink/internal/cache"
	"quizlink/internal/config"
	"quizlink/internal/database"
	"quizlink/internal/export"
	"quizlink/internal/handler"
	"quizlink/internal/logger"
	"quizlink/internal/middleware"
	"quizlink/internal/repository"
	"quizlink/internal/service"
	"quizlink/internal/session"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	questionRepository := repository.NewQuestionDatabaseAdapter(db)
	resultRepository := repository.NewResultDatabaseAdapter(db)

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	sessionCfg := session.Config{
		QuestionTime:   time.Duration(cfg.Quiz.QuestionTime) * time.Second,
		TickInterval:   cfg.Quiz.TickInterval,
		FeedbackHold:   cfg.Quiz.FeedbackHold,
		ObscureWindow:  cfg.Quiz.ObscureWindow,
		ViolationLimit: cfg.Quiz.ViolationLimit,
		Shuffle:        cfg.Quiz.Shuffle,
	}

	authoringService := service.NewAuthoringService(questionRepository, resultRepository, cacheAdapter, cfg.Quiz.BaseURL)
	exporter := export.NewExcelExporter()
	sessionService := service.NewSessionService(session.NewRegistry(), sessionCfg, exporter, cfg.Quiz.BaseURL)
	resultService := service.NewResultService(resultRepository, questionRepository, exporter)
	authService := service.NewAuthService(cacheAdapter, cfg.Auth)
	preferencesService := service.NewPreferencesService(cacheAdapter)

	authoringHandler := handler.NewAuthoringHandler(authoringService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	resultHandler := handler.NewResultHandler(resultService)
	authHandler := handler.NewAuthHandler(authService)
	preferencesHandler := handler.NewPreferencesHandler(preferencesService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	apiGroup := app.Group("/api")

	// Authoring routes
	apiGroup.Post("/questions", authoringHandler.AddQuestion)
	apiGroup.Get("/questions", authoringHandler.ListQuestions)
	apiGroup.Get("/questions/preview", authoringHandler.Preview)
	apiGroup.Delete("/questions/:id", authoringHandler.DeleteQuestion)
	apiGroup.Post("/questions/import", authoringHandler.ImportCSV)
	apiGroup.Post("/quiz/new", authoringHandler.NewQuiz)
	apiGroup.Get("/quiz/share-link", authoringHandler.ShareLink)
	apiGroup.Get("/quiz/share-link/qr", authoringHandler.ShareLinkQR)

	// Session routes
	sessionGroup := apiGroup.Group("/sessions")
	sessionGroup.Post("/", sessionHandler.Join)
	sessionGroup.Post("/:id/start", sessionHandler.Start)
	sessionGroup.Get("/:id", sessionHandler.State)
	sessionGroup.Post("/:id/select", sessionHandler.Select)
	sessionGroup.Post("/:id/pause", sessionHandler.Pause)
	sessionGroup.Post("/:id/resume", sessionHandler.Resume)
	sessionGroup.Post("/:id/violation", sessionHandler.ReportViolation)
	sessionGroup.Post("/:id/finish", sessionHandler.Finish)
	sessionGroup.Get("/:id/review", sessionHandler.Review)
	sessionGroup.Get("/:id/export", sessionHandler.Export)
	sessionGroup.Post("/:id/retake", sessionHandler.Retake)
	sessionGroup.Delete("/:id", sessionHandler.Leave)

	// Result routes, export and clear sit behind the export token
	apiGroup.Post("/results/collect", resultHandler.Collect)
	apiGroup.Get("/results/:quiz_id", resultHandler.Aggregate)
	apiGroup.Get("/results/:quiz_id/export", middleware.ExportProtected(authService), resultHandler.Export)
	apiGroup.Delete("/results/:quiz_id", middleware.ExportProtected(authService), resultHandler.Clear)

	// Auth routes
	apiGroup.Post("/auth/passphrase", authHandler.SetPassphrase)
	apiGroup.Get("/auth/passphrase", authHandler.HasPassphrase)
	apiGroup.Post("/auth/unlock", authHandler.Unlock)

	// Preference routes
	apiGroup.Get("/preferences/theme", preferencesHandler.GetTheme)
	apiGroup.Put("/preferences/theme", preferencesHandler.SetTheme)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
