package db

import (
	"fmt"
	"strconv"

	"github.com/pkrauchanka/tg-history-tutor/pkg/config"
	"github.com/pkrauchanka/tg-history-tutor/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Export DB variable
var DB *gorm.DB

func InitDB(cfg config.DatabaseConfig) error {
	gormLogger, gormErr := newGormLogger(config.AppConfig.Logging.GormLevel)
	if gormErr != nil {
		logger.Error("invalid gorm log level", "value", config.AppConfig.Logging.GormLevel, "error", gormErr)
	}

	dialector, err := openDialector(cfg)
	if err != nil {
		logger.Error("failed to select database driver", "driver", cfg.Driver, "error", err)
		return err
	}

	DB, err = gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return err
	}
	if err := DB.AutoMigrate(&CorpusItem{}, &UserProgress{}, &Attempt{}, &NotificationJob{}); err != nil {
		logger.Error("failed to auto-migrate database", "error", err)
		return err
	}
	return nil
}

func openDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.Open(cfg.Path), nil
	case "postgres", "":
		dsn := "host=" + cfg.Host +
			" user=" + cfg.User +
			" password=" + cfg.Password +
			" dbname=" + cfg.DBName +
			" port=" + strconv.Itoa(cfg.Port) +
			" sslmode=" + cfg.SSLMode
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
