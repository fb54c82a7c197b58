// Package scenario - пользовательские сценарии ImuneTrack поверх page objects.
// Каждый сценарий получает свою сессию и закрывает ее при любом исходе.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"imunetrackE2E/internal/browser"
	"imunetrackE2E/internal/fixture"
	"imunetrackE2E/internal/framework"
	"imunetrackE2E/internal/logger"
	"imunetrackE2E/internal/pages"
)

// Account - тестовый аккаунт, под которым работает фикстура.
type Account struct {
	Name  string
	Email string
}

type Deps struct {
	Launcher fixture.Launcher // сессии без входа
	Factory  fixture.Factory  // сессии после входа
	Account  Account

	// ArtifactsDir - куда сохранять скриншоты проваленных сценариев.
	// Пусто - не сохранять.
	ArtifactsDir string
	Log          *logger.Zap
	Now          func() time.Time
}

type Suite struct {
	deps Deps
	log  *logger.Zap
}

func New(deps Deps) *Suite {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Suite{deps: deps, log: deps.Log}
}

type scenario struct {
	name string
	run  func(c *framework.Context)
}

func (s *Suite) scenarios() []scenario {
	return []scenario{
		{"login-invalid-credentials", s.loginInvalidCredentials},
		{"login-success", s.loginSuccess},
		{"signup-password-mismatch", s.signupPasswordMismatch},
		{"signup-success", s.signupSuccess},
		{"dashboard-stat-counts", s.dashboardStatCounts},
		{"dashboard-welcome", s.dashboardWelcome},
		{"dashboard-user-info", s.dashboardUserInfo},
		{"dashboard-settings", s.dashboardSettings},
		{"schedule-future-date", s.scheduleFutureDate},
		{"history-page", s.historyPage},
		{"history-records", s.historyRecords},
		{"history-empty", s.historyEmpty},
		{"logout", s.logout},
	}
}

// Names - идентификаторы сценариев в порядке запуска.
func (s *Suite) Names() []string {
	var names []string
	for _, sc := range s.scenarios() {
		names = append(names, sc.name)
	}
	return names
}

// Run регистрирует все сценарии в раннере.
func (s *Suite) Run(c *framework.Context) {
	for _, sc := range s.scenarios() {
		c.Run(sc.name, sc.run)
	}
}

// anonymous - сессия без входа, для форм входа и регистрации.
func (s *Suite) anonymous(c *framework.Context) *browser.Session {
	sess, err := s.deps.Launcher.Launch(c.Context())
	if err != nil {
		c.SetupFailed(fmt.Errorf("%w: запуск браузера: %v", fixture.ErrSetupFailed, err))
	}
	s.track(c, sess)
	return sess
}

// authenticated - сессия тестового аккаунта на дашборде.
func (s *Suite) authenticated(c *framework.Context) (*browser.Session, *pages.Dashboard) {
	if s.deps.Account.Email == "" {
		c.SkipWithReason("тестовый аккаунт не настроен")
	}
	sess, err := s.deps.Factory.CreateAuthenticatedSession(c.Context())
	if err != nil {
		if !errors.Is(err, fixture.ErrSetupFailed) {
			err = fmt.Errorf("%w: %v", fixture.ErrSetupFailed, err)
		}
		c.SetupFailed(err)
	}
	s.track(c, sess)
	return sess, pages.NewDashboard(sess)
}

func (s *Suite) track(c *framework.Context, sess *browser.Session) {
	c.Defer(func() {
		if c.Failed() {
			s.screenshot(c, sess)
		}
		if err := sess.Close(); err != nil {
			s.log.Scenario(c.ID().String()).Warn("не удалось закрыть сессию", zap.Error(err))
		}
	})
}

func (s *Suite) screenshot(c *framework.Context, sess *browser.Session) {
	if s.deps.ArtifactsDir == "" {
		return
	}
	if err := os.MkdirAll(s.deps.ArtifactsDir, 0o755); err != nil {
		s.log.Warn("не удалось создать каталог артефактов", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	path, err := sess.Screenshot(ctx, s.deps.ArtifactsDir, c.ID().String())
	if err != nil {
		s.log.Scenario(c.ID().String()).Warn("скриншот не сохранен", zap.Error(err))
		return
	}
	c.Debug("скриншот: %s", path)
	s.log.Scenario(c.ID().String()).Info("скриншот сохранен", zap.String("path", path))
}

// uniqueEmail - адрес, которого точно нет в базе приложения.
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@e2e.imunetrack.test", prefix, uuid.NewString()[:8])
}
