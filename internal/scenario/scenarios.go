package scenario

import (
	"fmt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imunetrackE2E/internal/fixture"
	"imunetrackE2E/internal/framework"
	"imunetrackE2E/internal/pages"
)

// Несуществующий аккаунт: баннер ошибки, пользователь остается на /login.
func (s *Suite) loginInvalidCredentials(c *framework.Context) {
	ctx := c.Context()
	login := pages.NewLogin(s.anonymous(c))
	require.NoError(c, login.Open(ctx))

	require.NoError(c, login.Submit(ctx, pages.Credentials{Email: uniqueEmail("ninguem"), Password: "senha-errada"}))

	require.True(c, login.HasErrorBanner(ctx), "баннер ошибки не появился")
	text, err := login.ErrorText(ctx)
	require.NoError(c, err)
	// заголовок тоста "Erro no login"
	assert.Contains(c, text, "Erro")
	c.Debug("текст ошибки: %q", text)
	assert.True(c, login.IsOnLoginPage(), "ушли со страницы входа")
}

func (s *Suite) loginSuccess(c *framework.Context) {
	sess, dash := s.authenticated(c)
	assert.True(c, dash.IsAuthenticatedView(c.Context()))
	assert.False(c, pages.NewLogin(sess).IsOnLoginPage())
}

// Несовпадающие пароли: ошибка видна, успеха нет даже по истечении его таймаута.
func (s *Suite) signupPasswordMismatch(c *framework.Context) {
	ctx := c.Context()
	signup := pages.NewSignup(s.anonymous(c))
	require.NoError(c, signup.Open(ctx))

	require.NoError(c, signup.Submit(ctx, pages.Registration{
		Name:            "Usuário E2E",
		Email:           uniqueEmail("mismatch"),
		Password:        "senha123",
		ConfirmPassword: "senha321",
	}))

	assert.True(c, signup.HasErrorBanner(ctx), "ошибка несовпадения паролей не появилась")
	assert.False(c, signup.HasSuccessMessage(ctx), "регистрация прошла с разными паролями")
}

func (s *Suite) signupSuccess(c *framework.Context) {
	ctx := c.Context()
	signup := pages.NewSignup(s.anonymous(c))
	require.NoError(c, signup.Open(ctx))

	email := uniqueEmail("cadastro")
	c.Debug("регистрация %s", email)
	require.NoError(c, signup.Submit(ctx, pages.Registration{
		Name:            "Usuário E2E",
		Email:           email,
		Password:        "senha123",
		ConfirmPassword: "senha123",
	}))

	assert.True(c, signup.HasSuccessMessage(ctx), "сообщение об успешной регистрации не появилось")
}

// Счетчики на карточках - целые неотрицательные числа.
func (s *Suite) dashboardStatCounts(c *framework.Context) {
	_, dash := s.authenticated(c)

	counts, err := dash.StatCounts(c.Context())
	require.NoError(c, err)
	c.Debug("карточки: %+v", counts)
}

func (s *Suite) dashboardWelcome(c *framework.Context) {
	_, dash := s.authenticated(c)

	name, err := dash.WelcomeName(c.Context())
	require.NoError(c, err)
	assert.NotEmpty(c, name)
	if s.deps.Account.Name != "" {
		assert.Contains(c, name, s.deps.Account.Name)
	}
}

func (s *Suite) dashboardUserInfo(c *framework.Context) {
	ctx := c.Context()
	_, dash := s.authenticated(c)

	require.True(c, dash.IsUserInfoVisible(ctx), "имя или email пользователя не видны")
	_, email, err := dash.UserInfo(ctx)
	require.NoError(c, err)
	assert.Equal(c, s.deps.Account.Email, email)
}

func (s *Suite) dashboardSettings(c *framework.Context) {
	ctx := c.Context()
	_, dash := s.authenticated(c)

	require.NoError(c, dash.OpenSettings(ctx))
	assert.True(c, dash.IsSettingsOpen(ctx), "окно настроек не открылось")
}

// Запись на вакцину через 30 дней подтверждается сообщением об успехе.
func (s *Suite) scheduleFutureDate(c *framework.Context) {
	ctx := c.Context()
	sess, dash := s.authenticated(c)

	require.NoError(c, dash.GoTo(ctx, pages.SectionSchedule))
	schedule := pages.NewSchedule(sess)
	require.True(c, schedule.IsOnSchedulePage(ctx), "форма записи не открылась")

	require.NoError(c, schedule.Schedule(ctx, pages.Appointment{
		Vaccine:  "BCG",
		Date:     s.deps.Now().AddDate(0, 0, 30),
		Location: "Clínica Teste",
		Notes:    "Teste de agendamento",
	}))
	assert.True(c, schedule.HasSuccessMessage(ctx), "сообщение об успешной записи не появилось")
}

func (s *Suite) historyPage(c *framework.Context) {
	ctx := c.Context()
	sess, dash := s.authenticated(c)

	require.NoError(c, dash.GoTo(ctx, pages.SectionHistory))
	assert.True(c, pages.NewHistory(sess).IsOnHistoryPage(ctx), "заголовок истории не появился")
}

// История показывает либо список, либо явную пометку "нет записей".
func (s *Suite) historyRecords(c *framework.Context) {
	ctx := c.Context()
	sess, dash := s.authenticated(c)

	require.NoError(c, dash.GoTo(ctx, pages.SectionHistory))
	history := pages.NewHistory(sess)
	require.True(c, history.IsOnHistoryPage(ctx))

	view, err := history.Records(ctx)
	require.NoError(c, err)
	assert.True(c, view.ListPresent || view.EmptyIndicatorPresent)
	c.Debug("история: %+v", view)
}

// Свежий аккаунт без прививок: списка нет, пометка "нет записей" есть.
func (s *Suite) historyEmpty(c *framework.Context) {
	ctx := c.Context()
	signup := pages.NewSignup(s.anonymous(c))
	require.NoError(c, signup.Open(ctx))

	creds := pages.Credentials{Email: uniqueEmail("historico"), Password: "senha123"}
	require.NoError(c, signup.Submit(ctx, pages.Registration{
		Name:            "Sem Vacinas",
		Email:           creds.Email,
		Password:        creds.Password,
		ConfirmPassword: creds.Password,
	}))
	if !signup.HasSuccessMessage(ctx) {
		c.SetupFailed(fmt.Errorf("%w: не удалось зарегистрировать %s", fixture.ErrSetupFailed, creds.Email))
	}

	sess, err := fixture.NewLoginFactory(s.deps.Launcher, creds, s.log.Logger).CreateAuthenticatedSession(ctx)
	if err != nil {
		c.SetupFailed(err)
	}
	s.track(c, sess)

	require.NoError(c, pages.NewDashboard(sess).GoTo(ctx, pages.SectionHistory))
	view, err := pages.NewHistory(sess).Records(ctx)
	require.NoError(c, err)
	assert.Equal(c, pages.HistoryView{EmptyIndicatorPresent: true}, view)
}

func (s *Suite) logout(c *framework.Context) {
	sess, dash := s.authenticated(c)

	require.NoError(c, dash.Logout(c.Context()))
	assert.NotContains(c, sess.CurrentLocation(), pages.DashboardPath)
}
