package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"imunetrackE2E/internal/cli/ui"
	"imunetrackE2E/internal/config"
	"imunetrackE2E/internal/database"
	"imunetrackE2E/internal/logger"
	"imunetrackE2E/internal/migrations"
)

// runStore - чтение истории, *database.RunRepository.
type runStore interface {
	GetRunByID(id string) (*database.Run, error)
	ListRuns(limit, offset int) ([]database.Run, error)
	ListResults(runID string) ([]database.ScenarioResult, error)
}

// browseHistory обслуживает -history и -show: браузер не запускается.
func browseHistory(params commandParams, cfg *config.Cfg, log *logger.Zap) int {
	if !cfg.Database.Enabled() {
		log.Error("история недоступна: не задан DB_HOST")
		return exitSetup
	}
	if err := migrations.Run(cfg, log); err != nil {
		log.Error("ошибка миграций", zap.Error(err))
		return exitSetup
	}
	db, err := database.New(cfg, log)
	if err != nil {
		log.Error("ошибка подключения к БД", zap.Error(err))
		return exitSetup
	}
	defer db.Close(log)

	repo := database.NewRunRepository(db.DB)
	if params.show != "" {
		err = printRun(os.Stdout, repo, params.show)
	} else {
		err = printHistory(os.Stdout, repo, params.history)
	}
	if err != nil {
		log.Error("чтение истории", zap.Error(err))
		return exitSetup
	}
	return exitOK
}

func printHistory(w io.Writer, store runStore, limit int) error {
	runs, err := store.ListRuns(limit, 0)
	if err != nil {
		return fmt.Errorf("список прогонов: %w", err)
	}
	results := make(map[string][]database.ScenarioResult, len(runs))
	for _, r := range runs {
		rows, err := store.ListResults(r.ID)
		if err != nil {
			return fmt.Errorf("результаты прогона %s: %w", r.ID, err)
		}
		results[r.ID] = rows
	}
	ui.PrintRuns(w, runs, results)
	return nil
}

func printRun(w io.Writer, store runStore, id string) error {
	run, err := store.GetRunByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("прогон %s не найден", id)
	}
	if err != nil {
		return fmt.Errorf("прогон %s: %w", id, err)
	}
	rows, err := store.ListResults(run.ID)
	if err != nil {
		return fmt.Errorf("результаты прогона %s: %w", id, err)
	}
	ui.PrintRun(w, run, rows)
	return nil
}
