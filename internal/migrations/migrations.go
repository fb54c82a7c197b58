// Package migrations применяет SQL-миграции истории прогонов.
package migrations

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"imunetrackE2E/internal/config"
	"imunetrackE2E/internal/logger"
)

// Run применяет миграции из cfg.Migrations.Path к базе истории.
func Run(cfg *config.Cfg, log *logger.Zap) error {
	return Up(cfg.Migrations.Path, cfg.Database.URL(), log.Logger)
}

// Up применяет все новые миграции из sourceURL (например file://migrations)
// к базе databaseURL. Отсутствие изменений не ошибка.
func Up(sourceURL, databaseURL string, log *zap.Logger) error {
	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return fmt.Errorf("инициализация миграций %s: %w", sourceURL, err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err := errors.Join(srcErr, dbErr); err != nil {
			log.Warn("закрытие мигратора", zap.Error(err))
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("применение миграций: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("версия схемы: %w", err)
	}
	log.Info("миграции применены", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
