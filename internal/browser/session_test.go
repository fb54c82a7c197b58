package browser_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"imunetrackE2E/internal/browser"
	"imunetrackE2E/internal/browser/browsertest"
)

const baseURL = "http://app.test"

var (
	emailField = browser.ByID("email")
	submit     = browser.ByXPath("//button[contains(text(),'Entrar')]")
	banner     = browser.ByXPath("//*[contains(@class,'destructive')]")
)

var fastTimeouts = browser.Timeouts{
	Element:  150 * time.Millisecond,
	Short:    100 * time.Millisecond,
	Navigate: 200 * time.Millisecond,
	Poll:     10 * time.Millisecond,
}

type recordedWait struct {
	kind      string
	satisfied bool
}

type recordingObserver struct {
	mu    sync.Mutex
	waits []recordedWait
}

func (o *recordingObserver) ObserveWait(kind string, satisfied bool, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.waits = append(o.waits, recordedWait{kind, satisfied})
}

func newSession(t *testing.T, opts ...browser.SessionOption) (*browser.Session, *browsertest.Document) {
	t.Helper()
	doc := browsertest.New(baseURL)
	opts = append([]browser.SessionOption{browser.WithTimeouts(fastTimeouts)}, opts...)
	s := browser.NewSession(doc, baseURL+"/", opts...)
	t.Cleanup(func() { _ = s.Close() })
	return s, doc
}

func TestNewSessionDefaults(t *testing.T) {
	s := browser.NewSession(browsertest.New(baseURL), baseURL+"/")
	defer s.Close()

	assert.Equal(t, baseURL, s.BaseURL())
	assert.Equal(t, 5*time.Second, s.Timeouts().Element)
	assert.Equal(t, 3*time.Second, s.Timeouts().Short)
	assert.Equal(t, 30*time.Second, s.Timeouts().Navigate)
	assert.Equal(t, browser.DefaultPollInterval, s.Timeouts().Poll)
}

func TestIsVisibleMissingElementIsFalseNotError(t *testing.T) {
	s, _ := newSession(t)

	start := time.Now()
	visible := s.IsVisible(context.Background(), banner, 50*time.Millisecond)

	assert.False(t, visible)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestIsVisibleHiddenElement(t *testing.T) {
	s, doc := newSession(t)
	doc.Set(banner, browsertest.Hidden("Credenciais inválidas"))

	assert.False(t, s.IsVisible(context.Background(), banner, 40*time.Millisecond))
	assert.True(t, s.Exists(context.Background(), banner, 40*time.Millisecond))
}

func TestIsVisibleWaitsForLateElement(t *testing.T) {
	s, doc := newSession(t)
	doc.SetAfter(40*time.Millisecond, banner, browsertest.Visible("Erro"))

	assert.True(t, s.IsVisible(context.Background(), banner, time.Second))
	// идемпотентность: состояние не изменилось, ответ тот же
	assert.True(t, s.IsVisible(context.Background(), banner, time.Second))
}

func TestIsVisibleReportsToObserver(t *testing.T) {
	obs := &recordingObserver{}
	s, doc := newSession(t, browser.WithWaitObserver(obs))
	doc.Set(banner, browsertest.Visible("Erro"))

	s.IsVisible(context.Background(), banner, time.Second)
	s.IsVisible(context.Background(), submit, 20*time.Millisecond)

	require.Len(t, obs.waits, 2)
	assert.Equal(t, recordedWait{"visible", true}, obs.waits[0])
	assert.Equal(t, recordedWait{"visible", false}, obs.waits[1])
}

func TestGetText(t *testing.T) {
	s, doc := newSession(t)
	doc.Set(banner, browsertest.Visible("  Email ou senha inválidos \n"))

	text, err := s.GetText(context.Background(), banner, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "Email ou senha inválidos", text)
}

func TestGetTextMissingElement(t *testing.T) {
	s, _ := newSession(t)

	_, err := s.GetText(context.Background(), banner, 30*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, browser.ErrElementNotFound)

	var actionErr *browser.ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, browser.KindElementNotFound, actionErr.Kind)
	assert.Equal(t, banner.String(), actionErr.Target)
}

func TestWaitForText(t *testing.T) {
	s, doc := newSession(t)
	doc.Set(banner, browsertest.Visible("Carregando..."))
	doc.SetAfter(30*time.Millisecond, banner, browsertest.Visible("Pronto"))

	assert.True(t, s.WaitForText(context.Background(), banner, "Pronto", time.Second))
	assert.False(t, s.WaitForText(context.Background(), banner, "Carregando...", 30*time.Millisecond))
}

func TestWaitForURL(t *testing.T) {
	s, doc := newSession(t)
	doc.SetURL("/login")
	time.AfterFunc(30*time.Millisecond, func() { doc.SetURL("/dashboard") })

	assert.True(t, s.WaitForURL(context.Background(), regexp.MustCompile(`/dashboard$`), time.Second))
	assert.Equal(t, baseURL+"/dashboard", s.CurrentLocation())
	assert.False(t, s.WaitForURL(context.Background(), regexp.MustCompile(`/login$`), 30*time.Millisecond))
}

func TestClickMissingIsNotFound(t *testing.T) {
	s, doc := newSession(t)

	err := s.Click(context.Background(), submit)
	assert.ErrorIs(t, err, browser.ErrElementNotFound)
	assert.Zero(t, doc.Clicks())
}

func TestClickHiddenIsNotInteractable(t *testing.T) {
	s, doc := newSession(t)
	doc.Set(submit, browsertest.Hidden("Entrar"))

	err := s.Click(context.Background(), submit)
	assert.ErrorIs(t, err, browser.ErrElementNotInteractable)
	assert.NotErrorIs(t, err, browser.ErrElementNotFound)
	assert.Zero(t, doc.Clicks())
}

func TestClickRunsHandler(t *testing.T) {
	s, doc := newSession(t)
	clicked := false
	doc.Set(submit, browsertest.Button("Entrar", func(*browsertest.Document) { clicked = true }))

	require.NoError(t, s.Click(context.Background(), submit))
	assert.True(t, clicked)
	assert.Equal(t, 1, doc.Clicks())
}

func TestClickWaitsForLateButton(t *testing.T) {
	s, doc := newSession(t)
	doc.SetAfter(40*time.Millisecond, submit, browsertest.Visible("Entrar"))

	require.NoError(t, s.Click(context.Background(), submit))
}

func TestClickInvalidLocator(t *testing.T) {
	s, doc := newSession(t)

	err := s.Click(context.Background(), browser.ByXPath("button"))
	require.Error(t, err)
	assert.Zero(t, doc.Probes())
}

func TestTypeTextRoundTrip(t *testing.T) {
	s, doc := newSession(t)
	doc.Set(emailField, &browsertest.Element{Visible: true, Value: "old@example.com"})

	for _, text := range []string{"joão.ção@exemplo.com.br", "", "Clínica Teste"} {
		require.NoError(t, s.TypeText(context.Background(), emailField, text))
		got, err := s.GetValue(context.Background(), emailField, time.Second)
		require.NoError(t, err)
		assert.Equal(t, text, got)
	}
}

func TestTypeTextDisabledField(t *testing.T) {
	s, doc := newSession(t)
	doc.Set(emailField, &browsertest.Element{Visible: true, Disabled: true})

	err := s.TypeText(context.Background(), emailField, "a@b.c")
	assert.ErrorIs(t, err, browser.ErrElementNotInteractable)
	assert.Empty(t, doc.Value(emailField))
}

func TestSelectOption(t *testing.T) {
	s, doc := newSession(t)
	vaccine := browser.ByCSS("select[name='vaccine']")
	doc.Set(vaccine, &browsertest.Element{Visible: true, Options: []string{"BCG", "Hepatite B"}})

	require.NoError(t, s.SelectOption(context.Background(), vaccine, "Hepatite B"))
	assert.Equal(t, "Hepatite B", doc.Value(vaccine))

	err := s.SelectOption(context.Background(), vaccine, "Febre Amarela")
	assert.ErrorIs(t, err, browser.ErrElementNotInteractable)
}

func TestNavigateWaitsForReadyState(t *testing.T) {
	s, doc := newSession(t)
	doc.Route("/login", func(d *browsertest.Document) {
		d.Set(emailField, browsertest.Input())
	})
	doc.SetReadyState("loading")
	time.AfterFunc(40*time.Millisecond, func() { doc.SetReadyState("complete") })

	require.NoError(t, s.Navigate(context.Background(), "/login"))
	assert.Equal(t, baseURL+"/login", s.CurrentLocation())
	assert.True(t, s.IsVisible(context.Background(), emailField, 0))
}

func TestNavigateTimeout(t *testing.T) {
	s, doc := newSession(t)
	doc.SetReadyState("interactive")

	start := time.Now()
	err := s.Navigate(context.Background(), "/login")
	assert.ErrorIs(t, err, browser.ErrNavigationTimeout)
	assert.GreaterOrEqual(t, time.Since(start), fastTimeouts.Navigate)
}

func TestNavigateGotoError(t *testing.T) {
	s, doc := newSession(t)
	doc.GotoErr = errors.New("net::ERR_CONNECTION_REFUSED")

	err := s.Navigate(context.Background(), "/login")
	assert.ErrorIs(t, err, browser.ErrNavigationTimeout)
	assert.ErrorContains(t, err, "ERR_CONNECTION_REFUSED")
}

func TestCloseIsIdempotent(t *testing.T) {
	s, doc := newSession(t)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.True(t, s.Closed())
	assert.True(t, doc.IsClosed())
}

func TestClosedSession(t *testing.T) {
	s, doc := newSession(t)
	doc.Set(banner, browsertest.Visible("Erro"))
	require.NoError(t, s.Close())

	assert.False(t, s.IsVisible(context.Background(), banner, 20*time.Millisecond))
	assert.ErrorIs(t, s.Navigate(context.Background(), "/"), browser.ErrSessionClosed)
	_, err := s.Screenshot(context.Background(), t.TempDir(), "x")
	assert.ErrorIs(t, err, browser.ErrSessionClosed)
}

func TestScreenshotPath(t *testing.T) {
	s, _ := newSession(t)
	dir := t.TempDir()

	path, err := s.Screenshot(context.Background(), dir, "Login/invalid credentials")
	require.NoError(t, err)
	assert.Equal(t, dir+"/Login_invalid_credentials.png", path)
}

func TestTypeTextLogMasksCredentials(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s, doc := newSession(t, browser.WithLogger(zap.New(core)))
	password := browser.ByID("password")
	doc.Set(emailField, browsertest.Input())
	doc.Set(password, browsertest.Input())

	require.NoError(t, s.TypeText(context.Background(), emailField, "ana@vacinabem.test"))
	require.NoError(t, s.TypeText(context.Background(), password, "senha123"))

	typed := logs.FilterMessage("ввод текста").All()
	require.Len(t, typed, 2)
	assert.Equal(t, "[FILTERED_EMAIL]", typed[0].ContextMap()["text"])
	assert.Equal(t, "[FILTERED]", typed[1].ContextMap()["text"])
	assert.Equal(t, "senha123", doc.Value(password))
}
