package scenario

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imunetrackE2E/internal/browser"
	"imunetrackE2E/internal/fixture"
	"imunetrackE2E/internal/framework"
	"imunetrackE2E/internal/pages"
	"imunetrackE2E/internal/pages/pagestest"
)

const baseURL = "http://imunetrack.test"

var joana = pagestest.Account{Name: "Joana Prado", Email: "joana@vacinabem.test", Password: "senha123"}

type harness struct {
	app      *pagestest.App
	sessions []*browser.Session
}

func (h *harness) Launch(ctx context.Context) (*browser.Session, error) {
	s := browser.NewSession(h.app.Open(baseURL), baseURL, browser.WithTimeouts(browser.Timeouts{
		Element:  300 * time.Millisecond,
		Short:    200 * time.Millisecond,
		Navigate: 300 * time.Millisecond,
		Poll:     10 * time.Millisecond,
	}))
	h.sessions = append(h.sessions, s)
	return s, nil
}

func newSuite(t *testing.T, creds pages.Credentials, acc Account) (*Suite, *harness) {
	t.Helper()
	h := &harness{app: pagestest.New()}
	h.app.AddAccount(joana)
	return New(Deps{
		Launcher:     h,
		Factory:      fixture.NewLoginFactory(h, creds, nil),
		Account:      acc,
		ArtifactsDir: t.TempDir(),
	}), h
}

func runOnly(s *Suite, names ...string) framework.Results {
	var filters framework.RegexFilters
	for _, n := range names {
		_ = filters.MustMatch.Set("^" + n + "$")
	}
	return framework.Run(context.Background(), filters.AsFilter, nil, s.Run)
}

func failureText(r framework.Results) string {
	var b strings.Builder
	for _, f := range append(r.Failures, r.SetupFailures...) {
		for _, err := range f.Errors {
			b.WriteString(f.TestID.String() + ": " + err.Error() + "\n")
		}
	}
	return b.String()
}

func TestSuitePassesAgainstApp(t *testing.T) {
	s, h := newSuite(t,
		pages.Credentials{Email: joana.Email, Password: joana.Password},
		Account{Name: joana.Name, Email: joana.Email})

	results := framework.Run(context.Background(), nil, nil, s.Run)

	require.True(t, results.OK(), failureText(results))
	assert.Len(t, results.Tests, len(s.Names()))
	assert.Equal(t, []string{"BCG - Dose 1"}, h.app.Records(joana.Email))
	for _, sess := range h.sessions {
		assert.True(t, sess.Closed(), "каждая сессия закрыта")
	}
}

func TestSuiteAssertionFailure(t *testing.T) {
	s, h := newSuite(t,
		pages.Credentials{Email: joana.Email, Password: joana.Password},
		Account{Name: joana.Name, Email: joana.Email})
	h.app.StatText = "—"

	results := runOnly(s, "dashboard-stat-counts", "dashboard-welcome")

	require.Len(t, results.Tests, 2)
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "dashboard-stat-counts", results.Failures[0].TestID.String())
	assert.ErrorContains(t, results.Failures[0].Errors[0], pages.ErrUnexpectedContent.Error())
	assert.Empty(t, results.SetupFailures)
	for _, sess := range h.sessions {
		assert.True(t, sess.Closed())
	}
}

func TestSuiteSetupFailure(t *testing.T) {
	s, h := newSuite(t,
		pages.Credentials{Email: joana.Email, Password: "errada"},
		Account{Name: joana.Name, Email: joana.Email})

	results := runOnly(s, "dashboard-settings", "login-invalid-credentials")

	assert.Empty(t, results.Failures, failureText(results))
	require.Len(t, results.SetupFailures, 1)
	assert.Equal(t, "dashboard-settings", results.SetupFailures[0].TestID.String())
	assert.ErrorIs(t, results.SetupFailures[0].Errors[0], fixture.ErrSetupFailed)
	for _, sess := range h.sessions {
		assert.True(t, sess.Closed(), "сессия закрыта и после неудачного входа")
	}
}

func TestSuiteSkipsWithoutAccount(t *testing.T) {
	s, _ := newSuite(t, pages.Credentials{}, Account{})

	results := runOnly(s, "logout", "signup-password-mismatch")

	assert.True(t, results.OK(), failureText(results))
	assert.Equal(t, 1, results.Skipped())
	assert.Equal(t, 1, results.Passed())
}

func TestSuiteHistoryEmptyUsesFreshAccount(t *testing.T) {
	s, h := newSuite(t,
		pages.Credentials{Email: joana.Email, Password: joana.Password},
		Account{Name: joana.Name, Email: joana.Email})

	results := runOnly(s, "schedule-future-date", "history-empty")

	require.True(t, results.OK(), failureText(results))
	assert.Len(t, h.app.Records(joana.Email), 1)
}

func TestScreenshotDirCreatedOnFailure(t *testing.T) {
	h := &harness{app: pagestest.New()}
	h.app.AddAccount(joana)
	h.app.StatText = "x"
	dir := t.TempDir() + "/artifacts"
	s := New(Deps{
		Launcher:     h,
		Factory:      fixture.NewLoginFactory(h, pages.Credentials{Email: joana.Email, Password: joana.Password}, nil),
		Account:      Account{Email: joana.Email},
		ArtifactsDir: dir,
	})

	results := runOnly(s, "dashboard-stat-counts")

	require.Len(t, results.Failures, 1)
	_, err := os.Stat(dir)
	assert.NoError(t, err)
}

func TestUniqueEmail(t *testing.T) {
	a, b := uniqueEmail("x"), uniqueEmail("x")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "x-"))
	assert.True(t, strings.HasSuffix(a, "@e2e.imunetrack.test"))
}
