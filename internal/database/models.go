// Package database хранит историю прогонов в PostgreSQL.
// Схему создают миграции из каталога migrations, GORM только читает и пишет.
package database

import "time"

// Run - один запуск набора сценариев.
// Статусы: running, passed, failed.
type Run struct {
	ID          string     `gorm:"type:uuid;primaryKey"`
	BaseURL     string     `gorm:"type:text;not null"`
	Engine      string     `gorm:"type:varchar(16);not null"`
	Status      string     `gorm:"type:varchar(16);not null;default:'running'"`
	Total       int        `gorm:"not null;default:0"`
	Passed      int        `gorm:"not null;default:0"`
	Failed      int        `gorm:"not null;default:0"`
	SetupFailed int        `gorm:"not null;default:0"`
	Skipped     int        `gorm:"not null;default:0"`
	StartedAt   time.Time  `gorm:"not null"`
	FinishedAt  *time.Time
}

// ScenarioResult - итог одного сценария внутри прогона.
type ScenarioResult struct {
	ID         uint      `gorm:"primaryKey"`
	RunID      string    `gorm:"type:uuid;index;not null"`
	Scenario   string    `gorm:"type:text;not null"`                 // идентификатор, например login-success
	Status     string    `gorm:"type:varchar(16);not null"`          // passed, failed, setup_failed, skipped
	Message    string    `gorm:"type:text"`                          // первая ошибка
	DurationMs int64     `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}
