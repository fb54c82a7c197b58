// Package framework - минимальный раннер сценариев. Context реализует
// Errorf/FailNow, поэтому в сценариях работают testify assert и require.
package framework

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

type Context struct {
	env         *environment
	ctx         context.Context
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	setupFailed bool
	skipped     bool
	skipReason  string
	errors      []error
	deferred    []func()
	children    int
}

// Run выполняет корневое действие и возвращает итоги по всем сценариям.
func Run(
	ctx context.Context,
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env, ctx: ctx}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			c.recovered(r)
		}
		c.runDeferred()

		// группа без собственных ошибок - не сценарий
		if len(c.id.Path) == 0 || (c.children > 0 && !c.failed) {
			return
		}
		result := TestResult{
			TestID:      c.id,
			Errors:      c.errors,
			Skipped:     c.skipped,
			SetupFailed: c.setupFailed,
			Duration:    time.Since(started),
		}
		c.env.results.Tests = append(c.env.results.Tests, result)
		switch {
		case c.setupFailed:
			c.env.results.SetupFailures = append(c.env.results.SetupFailures, result)
		case c.failed:
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	action(c)
}

func (c *Context) recovered(r interface{}) {
	if c.skipped {
		return
	}
	c.failed = true
	var addError error
	if _, ok := r.(*Context); ok {
		if len(c.errors) == 0 {
			addError = errors.New("test failed with no failure message")
		}
	} else {
		addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
	}
	if addError != nil {
		c.errors = append(c.errors, addError)
		c.env.testLogger.TestError(c.id, addError)
	}
}

// runDeferred выполняет отложенные действия в обратном порядке.
// Паника в одном из них не мешает остальным.
func (c *Context) runDeferred() {
	for i := len(c.deferred) - 1; i >= 0; i-- {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.Debug("паника в отложенном действии: %v", r)
				}
			}()
			c.deferred[i]()
		}()
	}
	c.deferred = nil
}

func (c *Context) ID() TestID {
	return c.id
}

// Context - контекст запуска, общий для всех сценариев.
func (c *Context) Context() context.Context {
	return c.ctx
}

func (c *Context) Run(name string, action func(*Context)) {
	c.children++
	id := TestID{Path: append(append([]string(nil), c.id.Path...), name)}

	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	if err := c.ctx.Err(); err != nil {
		c.env.testLogger.TestSkipped(id, "run cancelled")
		return
	}

	c.env.testLogger.TestStarted(id)
	c1 := &Context{
		id:  id,
		env: c.env,
		ctx: c.ctx,
	}
	c1.run(action)

	if c1.children > 0 && !c1.failed {
		return
	}
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
		return
	}
	last := c.env.results.Tests[len(c.env.results.Tests)-1]
	c.env.testLogger.TestFinished(id, last, c1.debugLogger.Output())
}

// Errorf отмечает сценарий как проваленный, но не прерывает его.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, reformatError(err))
}

func (c *Context) FailNow() {
	panic(c)
}

// Helper нужен testify; стек вызовов здесь не печатается.
func (c *Context) Helper() {}

func (c *Context) Failed() bool {
	return c.failed
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// SetupFailed прерывает сценарий из-за окружения (браузер, вход, приложение),
// а не из-за проверки. В итогах такие сценарии учитываются отдельно.
func (c *Context) SetupFailed(err error) {
	c.setupFailed = true
	c.Errorf("setup: %w", err)
	c.FailNow()
}

// Defer регистрирует действие, выполняемое после сценария при любом исходе.
func (c *Context) Defer(fn func()) {
	c.deferred = append(c.deferred, fn)
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}

// reformatError убирает из сообщений testify строку "Error Trace",
// бесполезную вне go test.
func reformatError(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "Error Trace:") {
		return err
	}
	var lines []string
	skip := false
	for _, line := range strings.Split(msg, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "Error Trace:") {
			skip = true
			continue
		}
		if skip && strings.HasPrefix(trimmed, "Error:") {
			skip = false
		}
		if !skip {
			lines = append(lines, line)
		}
	}
	return errors.New(strings.Join(lines, "\n"))
}
