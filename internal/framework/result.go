package framework

import (
	"fmt"
	"strings"
	"time"
)

type Results struct {
	Tests         []TestResult
	Failures      []TestResult
	SetupFailures []TestResult
}

type TestResult struct {
	TestID      TestID
	Errors      []error
	Skipped     bool
	SetupFailed bool
	Duration    time.Duration
}

// Status - итоговое состояние сценария: passed, failed, setup_failed или skipped.
func (r TestResult) Status() string {
	switch {
	case r.Skipped:
		return "skipped"
	case r.SetupFailed:
		return "setup_failed"
	case len(r.Errors) > 0:
		return "failed"
	default:
		return "passed"
	}
}

// OK - ни одного провала. Сбой подготовки тоже делает прогон неуспешным.
func (r Results) OK() bool {
	return len(r.Failures) == 0 && len(r.SetupFailures) == 0
}

func (r Results) Passed() int {
	n := 0
	for _, t := range r.Tests {
		if t.Status() == "passed" {
			n++
		}
	}
	return n
}

func (r Results) Skipped() int {
	n := 0
	for _, t := range r.Tests {
		if t.Skipped {
			n++
		}
	}
	return n
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}
