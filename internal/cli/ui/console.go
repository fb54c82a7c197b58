package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"imunetrackE2E/internal/framework"
)

// ConsoleTestLogger печатает ход прогона в консоль.
type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {
	cyan.Fprintf(c.out(), "%s [%s]\n", IconPlay, id)
}

func (c *ConsoleTestLogger) TestError(id framework.TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		red.Fprintf(c.out(), "  %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(id framework.TestID, result framework.TestResult, debugOutput framework.CapturedOutput) {
	icon, col, text := FormatStatus(result.Status())
	col.Fprintf(c.out(), "  %s %s: %s", icon, strings.ToUpper(text), id)
	gray.Fprintf(c.out(), " (%s)\n", FormatDuration(result.Duration))

	failed := result.Status() != "passed"
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.out(), "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	if reason == "" {
		gray.Fprintf(c.out(), "  %s SKIPPED: %s\n", IconSkip, id)
	} else {
		gray.Fprintf(c.out(), "  %s SKIPPED: %s (%s)\n", IconSkip, id, reason)
	}
}

// PrintBanner выводит заголовок прогона.
func PrintBanner(w io.Writer, baseURL, engine, filters string) {
	bold.Fprintf(w, "%s ImuneTrack E2E\n", IconSyringe)
	gray.Fprintf(w, "%s %s (%s)\n", IconGlobe, baseURL, engine)
	if filters != "" {
		gray.Fprintf(w, "Фильтры: %s\n", filters)
	}
	fmt.Fprintln(w)
}
