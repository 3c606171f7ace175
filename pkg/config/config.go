package config

import (
	"encoding/json"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkrauchanka/tg-history-tutor/pkg/logger"
)

type Config struct {
	Database DatabaseConfig `json:"database"`
	Telegram TelegramConfig `json:"telegram"`
	Logging  LoggingConfig  `json:"logging"`
	Quiz     QuizConfig     `json:"quiz"`
	Notify   NotifyConfig   `json:"notify"`
}

type DatabaseConfig struct {
	Driver   string `json:"driver"` // "postgres" or "sqlite"
	Host     string `json:"host"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	Port     int    `json:"port"`
	SSLMode  string `json:"sslmode"`
	Path     string `json:"path"` // sqlite file
}

type TelegramConfig struct {
	Token string `json:"token"`
}

type LoggingConfig struct {
	Level     string `json:"level"`
	File      string `json:"file"`
	GormLevel string `json:"gorm_level"`
}

type QuizConfig struct {
	OverlapFraction float64 `json:"overlap_fraction"`
	MarathonLength  int     `json:"marathon_length"`
}

type NotifyConfig struct {
	PollIntervalSeconds int `json:"poll_interval_seconds"`
}

var AppConfig Config

func LoadConfig(filename string) error {
	// .env is optional; the environment wins over config.json for secrets.
	_ = godotenv.Load()

	file, err := os.Open(filename)
	if err != nil {
		logger.Error("failed to open config file", "error", err)
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&AppConfig); err != nil {
		logger.Error("failed to decode config file", "error", err)
		return err
	}

	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		AppConfig.Telegram.Token = token
	}
	ApplyDefaults(&AppConfig)
	return nil
}

func ApplyDefaults(cfg *Config) {
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "history_tutor.db"
	}
	if cfg.Quiz.OverlapFraction <= 0 || cfg.Quiz.OverlapFraction > 1 {
		cfg.Quiz.OverlapFraction = 0.6
	}
	if cfg.Quiz.MarathonLength <= 0 {
		cfg.Quiz.MarathonLength = 5
	}
	if cfg.Notify.PollIntervalSeconds <= 0 {
		cfg.Notify.PollIntervalSeconds = 60
	}
}
