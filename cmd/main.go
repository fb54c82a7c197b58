package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"imunetrackE2E/internal/browser"
	"imunetrackE2E/internal/cli/ui"
	"imunetrackE2E/internal/config"
	"imunetrackE2E/internal/database"
	"imunetrackE2E/internal/fixture"
	"imunetrackE2E/internal/framework"
	"imunetrackE2E/internal/logger"
	"imunetrackE2E/internal/metrics"
	"imunetrackE2E/internal/migrations"
	"imunetrackE2E/internal/pages"
	"imunetrackE2E/internal/scenario"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitSetup  = 2
)

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(exitSetup)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitSetup)
	}

	log, err := logger.New(cfg.Logger.Env, cfg.Logger.Level)
	if err != nil {
		panic(err)
	}

	var code int
	if params.history > 0 || params.show != "" {
		code = browseHistory(params, cfg, log)
	} else {
		code = run(params, cfg, log)
	}
	_ = log.Sync()
	os.Exit(code)
}

func run(params commandParams, cfg *config.Cfg, log *logger.Zap) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.New()
	launcher := browser.NewLauncher(cfg.BrowserConfig(), cfg.App.BaseURL, cfg.BrowserTimeouts(), log.Logger)
	launcher.SetWaitObserver(collector)

	creds := pages.Credentials{Email: cfg.Account.Email, Password: cfg.Account.Password}
	suite := scenario.New(scenario.Deps{
		Launcher:     launcher,
		Factory:      fixture.NewLoginFactory(launcher, creds, log.Logger),
		Account:      scenario.Account{Name: cfg.Account.Name, Email: cfg.Account.Email},
		ArtifactsDir: cfg.Artifacts.Dir,
		Log:          log,
	})

	if params.list {
		for _, name := range suite.Names() {
			fmt.Println(name)
		}
		return exitOK
	}

	ui.PrintBanner(os.Stdout, cfg.App.BaseURL, cfg.Browser.Engine, params.filters.Describe())

	client := &http.Client{Timeout: 10 * time.Second}
	if err := fixture.WaitForApp(ctx, client, cfg.App.BaseURL, cfg.Timeouts.Preflight, time.Second, log.Logger); err != nil {
		log.Error("приложение недоступно", zap.Error(err))
		return exitSetup
	}
	if cfg.Account.Register {
		acc := fixture.Account{Name: cfg.Account.Name, Email: cfg.Account.Email, Password: cfg.Account.Password}
		if err := fixture.RegisterAccount(ctx, client, cfg.App.APIURL, acc); err != nil {
			log.Error("не удалось подготовить тестовый аккаунт", zap.Error(err))
			return exitSetup
		}
		log.Info("тестовый аккаунт готов", zap.String("email", acc.Email))
	}

	history := openHistory(cfg, log)
	if history != nil {
		defer history.close()
	}

	console := &ui.ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	started := time.Now()
	results := framework.Run(ctx, params.filters.AsFilter, framework.MultiTestLogger{console, collector}, suite.Run)
	finished := time.Now()

	ui.PrintResults(os.Stdout, results, os.Args[0])
	log.Info("прогон завершен",
		zap.Int("total", len(results.Tests)),
		zap.Int("failed", len(results.Failures)),
		zap.Int("setup_failed", len(results.SetupFailures)),
		zap.Duration("elapsed", finished.Sub(started)),
	)

	if cfg.Metrics.File != "" {
		if err := collector.WriteTextfile(cfg.Metrics.File, finished); err != nil {
			log.Warn("не удалось записать метрики", zap.String("file", cfg.Metrics.File), zap.Error(err))
		}
	}
	if history != nil {
		history.save(started, finished, results)
	}

	if !results.OK() {
		return exitFailed
	}
	return exitOK
}

// runHistory пишет итоги прогона в PostgreSQL. Недоступная база
// не мешает запуску сценариев.
type runHistory struct {
	db   *database.DB
	repo *database.RunRepository
	cfg  *config.Cfg
	log  *logger.Zap
}

func openHistory(cfg *config.Cfg, log *logger.Zap) *runHistory {
	if !cfg.Database.Enabled() {
		return nil
	}
	if err := migrations.Run(cfg, log); err != nil {
		log.Warn("ошибка миграций, история не сохраняется", zap.Error(err))
		return nil
	}
	db, err := database.New(cfg, log)
	if err != nil {
		log.Warn("ошибка подключения к БД, история не сохраняется", zap.Error(err))
		return nil
	}
	return &runHistory{db: db, repo: database.NewRunRepository(db.DB), cfg: cfg, log: log}
}

func (h *runHistory) save(started, finished time.Time, results framework.Results) {
	r := &database.Run{
		ID:        uuid.NewString(),
		BaseURL:   h.cfg.App.BaseURL,
		Engine:    h.cfg.Browser.Engine,
		Status:    "running",
		StartedAt: started,
	}
	if err := h.repo.CreateRun(r); err != nil {
		h.log.Warn("не удалось сохранить прогон", zap.Error(err))
		return
	}
	rows := database.Summarize(r, results, finished)
	if err := h.repo.FinishRun(r, rows); err != nil {
		h.log.Warn("не удалось сохранить результаты", zap.String("run", r.ID), zap.Error(err))
		return
	}
	h.log.Info("история прогона сохранена", zap.String("run", r.ID))
}

func (h *runHistory) close() {
	h.db.Close(h.log)
}
