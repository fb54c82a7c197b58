package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"imunetrackE2E/internal/config"
	"imunetrackE2E/internal/logger"
)

type DB struct {
	*gorm.DB
}

// New подключается к PostgreSQL. SQL-лог GORM выключен, ошибки
// возвращаются вызывающему.
func New(cfg *config.Cfg, log *logger.Zap) (*DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("подключение к %s:%s/%s: %w", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name, err)
	}
	log.Info("подключено к базе истории", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.Name))
	return &DB{DB: db}, nil
}

func (d *DB) Close(log *logger.Zap) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		log.Warn("закрытие базы", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("закрытие базы", zap.Error(err))
	}
}
