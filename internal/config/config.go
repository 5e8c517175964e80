package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Quiz     QuizConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	JWTSecret      string
	ExportTokenTTL time.Duration
}

// QuizConfig carries the session timing knobs and the base URL that share
// and result links are built on.
type QuizConfig struct {
	BaseURL        string
	QuestionTime   int           // seconds per question
	TickInterval   time.Duration // countdown granularity
	FeedbackHold   time.Duration // hold on the revealed answer before advancing
	ObscureWindow  time.Duration // warning blur after the second violation
	ViolationLimit int
	Shuffle        bool // present questions in a random order per session
}

type LoggerConfig struct {
	Level string
	Env   string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("auth.export_token_ttl", 15)
	viper.SetDefault("quiz.question_time", 60)
	viper.SetDefault("quiz.tick_interval_ms", 1000)
	viper.SetDefault("quiz.feedback_hold_ms", 2500)
	viper.SetDefault("quiz.obscure_window_ms", 2000)
	viper.SetDefault("quiz.violation_limit", 3)
	viper.SetDefault("quiz.shuffle", true)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("database.host"),
			Port:     viper.GetInt("database.port"),
			User:     viper.GetString("database.user"),
			Password: viper.GetString("database.password"),
			DBName:   viper.GetString("database.name"),
			SSLMode:  viper.GetString("database.ssl_mode"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			JWTSecret:      viper.GetString("auth.jwt_secret"),
			ExportTokenTTL: viper.GetDuration("auth.export_token_ttl") * time.Minute,
		},
		Quiz: QuizConfig{
			BaseURL:        viper.GetString("quiz.base_url"),
			QuestionTime:   viper.GetInt("quiz.question_time"),
			TickInterval:   viper.GetDuration("quiz.tick_interval_ms") * time.Millisecond,
			FeedbackHold:   viper.GetDuration("quiz.feedback_hold_ms") * time.Millisecond,
			ObscureWindow:  viper.GetDuration("quiz.obscure_window_ms") * time.Millisecond,
			ViolationLimit: viper.GetInt("quiz.violation_limit"),
			Shuffle:        viper.GetBool("quiz.shuffle"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
	}

	// Override with environment variables if set
	if host := os.Getenv("DB_HOST"); host != "" {
		config.Database.Host = host
	}
	if user := os.Getenv("DB_USER"); user != "" {
		config.Database.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.Database.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		config.Database.DBName = dbname
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}
	if baseURL := os.Getenv("QUIZ_BASE_URL"); baseURL != "" {
		config.Quiz.BaseURL = baseURL
	}

	return config, nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}
