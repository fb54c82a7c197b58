package framework

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTestLogger struct {
	started  []string
	errors   []string
	finished []TestResult
	skipped  map[string]string
}

func newRecordingTestLogger() *recordingTestLogger {
	return &recordingTestLogger{skipped: map[string]string{}}
}

func (r *recordingTestLogger) TestStarted(id TestID) { r.started = append(r.started, id.String()) }
func (r *recordingTestLogger) TestError(id TestID, err error) {
	r.errors = append(r.errors, id.String()+": "+err.Error())
}
func (r *recordingTestLogger) TestFinished(id TestID, result TestResult, _ CapturedOutput) {
	r.finished = append(r.finished, result)
}
func (r *recordingTestLogger) TestSkipped(id TestID, reason string) { r.skipped[id.String()] = reason }

func TestRunCollectsResults(t *testing.T) {
	rec := newRecordingTestLogger()
	results := Run(context.Background(), nil, rec, func(c *Context) {
		c.Run("ok", func(c *Context) {})
		c.Run("fails", func(c *Context) {
			c.Errorf("valor %d", 1)
			c.Errorf("valor %d", 2)
		})
		c.Run("fail-now", func(c *Context) {
			c.FailNow()
		})
	})

	require.Len(t, results.Tests, 3)
	assert.Len(t, results.Failures, 2)
	assert.False(t, results.OK())
	assert.Equal(t, 1, results.Passed())
	assert.Equal(t, []string{"ok", "fails", "fail-now"}, rec.started)
	assert.Equal(t, "fails", results.Failures[0].TestID.String())
	assert.Len(t, results.Failures[0].Errors, 2)
	assert.EqualError(t, results.Failures[1].Errors[0], "test failed with no failure message")
}

func TestRunNestedIDs(t *testing.T) {
	results := Run(context.Background(), nil, nil, func(c *Context) {
		c.Run("login", func(c *Context) {
			c.Run("success", func(c *Context) {
				assert.Equal(t, []string{"login", "success"}, c.ID().Path)
			})
		})
	})

	require.Len(t, results.Tests, 1)
	assert.Equal(t, "login/success", results.Tests[0].TestID.String())
	assert.True(t, results.OK())
}

func TestRunRecoversPanic(t *testing.T) {
	results := Run(context.Background(), nil, nil, func(c *Context) {
		c.Run("panics", func(c *Context) {
			var m map[string]int
			m["x"] = 1
		})
		c.Run("after", func(c *Context) {})
	})

	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "unexpected panic")
	assert.Equal(t, "passed", results.Tests[1].Status())
}

func TestSkip(t *testing.T) {
	rec := newRecordingTestLogger()
	results := Run(context.Background(), nil, rec, func(c *Context) {
		c.Run("skipped", func(c *Context) {
			c.SkipWithReason("sem conta de teste")
			c.Errorf("não deve chegar aqui")
		})
	})

	assert.True(t, results.OK())
	require.Len(t, results.Tests, 1)
	assert.Equal(t, "skipped", results.Tests[0].Status())
	assert.Equal(t, 1, results.Skipped())
	assert.Equal(t, "sem conta de teste", rec.skipped["skipped"])
	assert.Empty(t, rec.finished)
}

func TestSetupFailedCountedSeparately(t *testing.T) {
	boom := errors.New("browser did not start")
	results := Run(context.Background(), nil, nil, func(c *Context) {
		c.Run("needs-session", func(c *Context) {
			c.SetupFailed(boom)
		})
	})

	assert.Empty(t, results.Failures)
	require.Len(t, results.SetupFailures, 1)
	assert.False(t, results.OK())
	assert.Equal(t, "setup_failed", results.SetupFailures[0].Status())
	assert.ErrorIs(t, results.SetupFailures[0].Errors[0], boom)
}

func TestDeferRunsInReverseOrderOnFailure(t *testing.T) {
	var order []string
	Run(context.Background(), nil, nil, func(c *Context) {
		c.Run("x", func(c *Context) {
			c.Defer(func() { order = append(order, "first") })
			c.Defer(func() { panic("cleanup") })
			c.Defer(func() { order = append(order, "last") })
			c.FailNow()
		})
	})

	assert.Equal(t, []string{"last", "first"}, order)
}

func TestFilterSkipsScenarios(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("^history"))
	rec := newRecordingTestLogger()
	ran := map[string]bool{}

	Run(context.Background(), filters.AsFilter, rec, func(c *Context) {
		for _, name := range []string{"login", "history"} {
			name := name
			c.Run(name, func(c *Context) { ran[name] = true })
		}
	})

	assert.True(t, ran["login"])
	assert.False(t, ran["history"])
	assert.Equal(t, "excluded by filter parameters", rec.skipped["history"])
}

func TestCancelledContextSkipsRemaining(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := newRecordingTestLogger()
	Run(ctx, nil, rec, func(c *Context) {
		c.Run("first", func(c *Context) { cancel() })
		c.Run("second", func(c *Context) { c.Errorf("não deve rodar") })
	})

	assert.Equal(t, []string{"first"}, rec.started)
	assert.Contains(t, rec.skipped, "second")
}

func TestRequireWorksWithContext(t *testing.T) {
	results := Run(context.Background(), nil, nil, func(c *Context) {
		c.Run("require", func(c *Context) {
			require.Equal(c, 1, 2)
			c.Errorf("não deve chegar aqui")
		})
	})

	require.Len(t, results.Failures, 1)
	assert.Len(t, results.Failures[0].Errors, 1)
}

func TestReformatErrorDropsTrace(t *testing.T) {
	err := errors.New("\n\tError Trace:\tfoo.go:10\n\t            \tbar.go:20\n\tError:      \tNot equal\n\tMessages:   \tx")
	out := reformatError(err).Error()
	assert.NotContains(t, out, "Error Trace")
	assert.NotContains(t, out, "foo.go")
	assert.Contains(t, out, "Not equal")
}

func TestCapturedOutputDump(t *testing.T) {
	results := Run(context.Background(), nil, nil, func(c *Context) {
		c.Run("debug", func(c *Context) {
			c.Debug("abrindo %s", "/login")
			c.DebugLogger().Printf("ok")
			var buf bytes.Buffer
			c.debugLogger.Output().Dump(&buf, "  ")
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			assert.Len(c, lines, 2)
			assert.Regexp(c, `^\s*\[\d{2}:\d{2}:\d{2}\.\d{3}\] abrindo /login$`, lines[0])
		})
	})
	assert.True(t, results.OK())
}

func TestRegexFiltersDescribe(t *testing.T) {
	var f RegexFilters
	assert.Empty(t, f.Describe())
	require.NoError(t, f.MustMatch.Set("login"))
	assert.Equal(t, `только "login"`, f.Describe())
	assert.Error(t, f.MustNotMatch.Set("("))
}
