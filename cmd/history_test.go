package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"imunetrackE2E/internal/database"
)

func init() {
	color.NoColor = true
}

type fakeStore struct {
	runs    []database.Run
	results map[string][]database.ScenarioResult
	listErr error

	limit int
}

func (f *fakeStore) GetRunByID(id string) (*database.Run, error) {
	for i := range f.runs {
		if f.runs[i].ID == id {
			return &f.runs[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) ListRuns(limit, offset int) ([]database.Run, error) {
	f.limit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit > len(f.runs) {
		limit = len(f.runs)
	}
	return f.runs[:limit], nil
}

func (f *fakeStore) ListResults(runID string) ([]database.ScenarioResult, error) {
	return f.results[runID], nil
}

func newStore() *fakeStore {
	started := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	finished := started.Add(42 * time.Second)
	return &fakeStore{
		runs: []database.Run{
			{ID: "run-2", Engine: "rod", BaseURL: "http://localhost:3000", Status: "failed",
				Total: 3, Passed: 1, Failed: 1, SetupFailed: 1, StartedAt: started, FinishedAt: &finished},
			{ID: "run-1", Engine: "playwright", BaseURL: "http://localhost:3000", Status: "passed",
				Total: 1, Passed: 1, StartedAt: started.Add(-time.Hour), FinishedAt: &finished},
		},
		results: map[string][]database.ScenarioResult{
			"run-2": {
				{Scenario: "login-success", Status: "passed", DurationMs: 900},
				{Scenario: "history-records", Status: "failed", Message: "history: нет ни списка\nстек", DurationMs: 5100},
				{Scenario: "logout", Status: "setup_failed", Message: "session setup failed", DurationMs: 30},
			},
			"run-1": {
				{Scenario: "login-success", Status: "passed", DurationMs: 800},
			},
		},
	}
}

func TestPrintHistoryShowsOnlyFailedScenarios(t *testing.T) {
	store := newStore()
	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, store, 5))

	out := buf.String()
	assert.Equal(t, 5, store.limit)
	assert.Contains(t, out, "run-2")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "history-records")
	assert.Contains(t, out, "history: нет ни списка")
	assert.NotContains(t, out, "стек")
	assert.Contains(t, out, "logout")
	assert.NotContains(t, out, "login-success")
	assert.Contains(t, out, "1/3 пройдено")
}

func TestPrintHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, &fakeStore{}, 10))
	assert.Contains(t, buf.String(), "История пуста")
}

func TestPrintHistoryListError(t *testing.T) {
	boom := errors.New("connection refused")
	err := printHistory(&bytes.Buffer{}, &fakeStore{listErr: boom}, 3)
	assert.ErrorIs(t, err, boom)
}

func TestPrintRunShowsAllScenarios(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRun(&buf, newStore(), "run-2"))

	out := buf.String()
	assert.Contains(t, out, "login-success")
	assert.Contains(t, out, "history-records")
	assert.Contains(t, out, "5.1s")
	assert.NotContains(t, out, "run-1")
}

func TestPrintRunNotFound(t *testing.T) {
	err := printRun(&bytes.Buffer{}, newStore(), "nope")
	assert.EqualError(t, err, "прогон nope не найден")
}

func TestReadHistoryParams(t *testing.T) {
	var p commandParams
	require.True(t, p.Read([]string{"e2e", "-history", "3"}))
	assert.Equal(t, 3, p.history)

	var show commandParams
	require.True(t, show.Read([]string{"e2e", "-show", "run-2"}))
	assert.Equal(t, "run-2", show.show)

	var bad commandParams
	assert.False(t, bad.Read([]string{"e2e", "-history", "-1"}))
}
