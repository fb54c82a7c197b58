package database

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"imunetrackE2E/internal/framework"
	"imunetrackE2E/internal/sanitizer"
)

type RunRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) CreateRun(run *Run) error {
	return r.db.Create(run).Error
}

func (r *RunRepository) GetRunByID(id string) (*Run, error) {
	var run Run
	if err := r.db.First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *RunRepository) ListRuns(limit, offset int) ([]Run, error) {
	var runs []Run
	if err := r.db.Order("started_at DESC").Limit(limit).Offset(offset).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *RunRepository) ListResults(runID string) ([]ScenarioResult, error) {
	var results []ScenarioResult
	if err := r.db.Where("run_id = ?", runID).Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// FinishRun записывает итоги и результаты сценариев одной транзакцией.
func (r *RunRepository) FinishRun(run *Run, results []ScenarioResult) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Run{}).
			Where("id = ?", run.ID).
			Updates(map[string]any{
				"status":       run.Status,
				"total":        run.Total,
				"passed":       run.Passed,
				"failed":       run.Failed,
				"setup_failed": run.SetupFailed,
				"skipped":      run.Skipped,
				"finished_at":  run.FinishedAt,
			}).Error; err != nil {
			return err
		}
		if len(results) == 0 {
			return nil
		}
		return tx.Create(&results).Error
	})
}

// Summarize переносит итоги раннера в запись прогона и строки результатов.
// Учетные данные в сообщениях маскируются.
func Summarize(run *Run, results framework.Results, finished time.Time) []ScenarioResult {
	run.Total = len(results.Tests)
	run.Passed = results.Passed()
	run.Failed = len(results.Failures)
	run.SetupFailed = len(results.SetupFailures)
	run.Skipped = results.Skipped()
	run.FinishedAt = &finished
	run.Status = "passed"
	if !results.OK() {
		run.Status = "failed"
	}

	rows := make([]ScenarioResult, 0, len(results.Tests))
	for _, t := range results.Tests {
		row := ScenarioResult{
			RunID:      run.ID,
			Scenario:   t.TestID.String(),
			Status:     t.Status(),
			DurationMs: t.Duration.Milliseconds(),
		}
		if len(t.Errors) > 0 {
			row.Message = sanitizer.Sanitize(strings.TrimSpace(t.Errors[0].Error()))
		}
		rows = append(rows, row)
	}
	return rows
}
