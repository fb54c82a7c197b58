//go:build acceptance

package scenario

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"imunetrackE2E/internal/browser"
	"imunetrackE2E/internal/cli/ui"
	"imunetrackE2E/internal/config"
	"imunetrackE2E/internal/fixture"
	"imunetrackE2E/internal/framework"
	"imunetrackE2E/internal/logger"
	"imunetrackE2E/internal/pages"
)

// TestAcceptance прогоняет весь набор в настоящем браузере против
// приложения из E2E_BASE_URL:
//
//	go test -tags acceptance ./internal/scenario -run TestAcceptance
func TestAcceptance(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	log, err := logger.New(cfg.Logger.Env, cfg.Logger.Level)
	require.NoError(t, err)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	client := &http.Client{Timeout: 10 * time.Second}
	require.NoError(t, fixture.WaitForApp(ctx, client, cfg.App.BaseURL, cfg.Timeouts.Preflight, time.Second, log.Logger))
	if cfg.Account.Register {
		require.NoError(t, fixture.RegisterAccount(ctx, client, cfg.App.APIURL, fixture.Account{
			Name: cfg.Account.Name, Email: cfg.Account.Email, Password: cfg.Account.Password,
		}))
	}

	launcher := browser.NewLauncher(cfg.BrowserConfig(), cfg.App.BaseURL, cfg.BrowserTimeouts(), log.Logger)
	suite := New(Deps{
		Launcher:     launcher,
		Factory:      fixture.NewLoginFactory(launcher, pages.Credentials{Email: cfg.Account.Email, Password: cfg.Account.Password}, log.Logger),
		Account:      Account{Name: cfg.Account.Name, Email: cfg.Account.Email},
		ArtifactsDir: cfg.Artifacts.Dir,
		Log:          log,
	})

	results := framework.Run(ctx, nil, &ui.ConsoleTestLogger{DebugOutputOnFailure: true}, suite.Run)
	for _, f := range append(results.Failures, results.SetupFailures...) {
		for _, err := range f.Errors {
			t.Errorf("%s: %v", f.TestID, err)
		}
	}
}
