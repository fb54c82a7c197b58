package ui

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/alessio/shellescape"

	"imunetrackE2E/internal/framework"
)

// PrintResults выводит сводку прогона и команду для перезапуска проваленных
// сценариев. program - путь к бинарнику, как его вызвал пользователь.
func PrintResults(w io.Writer, results framework.Results, program string) {
	fmt.Fprintln(w)
	bold.Fprintln(w, "Итоги:")
	fmt.Fprintf(w, "  всего: %d, ", len(results.Tests))
	green.Fprintf(w, "пройдено: %d, ", results.Passed())
	red.Fprintf(w, "провалено: %d, ", len(results.Failures))
	yellow.Fprintf(w, "ошибок подготовки: %d, ", len(results.SetupFailures))
	gray.Fprintf(w, "пропущено: %d\n", results.Skipped())

	failed := append(append([]framework.TestResult(nil), results.Failures...), results.SetupFailures...)
	if len(failed) == 0 {
		green.Fprintf(w, "%s Все сценарии пройдены\n", IconCheckmark)
		return
	}

	fmt.Fprintln(w)
	for _, r := range failed {
		icon, col, text := FormatStatus(r.Status())
		col.Fprintf(w, "  %s %s (%s)\n", icon, r.TestID, text)
		for _, err := range r.Errors {
			firstLine := strings.SplitN(strings.TrimSpace(err.Error()), "\n", 2)[0]
			gray.Fprintf(w, "      %s\n", firstLine)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Перезапуск проваленных:")
	fmt.Fprintf(w, "  %s\n", RerunCommand(program, failed))
}

// RerunCommand собирает команду с -run для каждого проваленного сценария.
func RerunCommand(program string, failed []framework.TestResult) string {
	var cmd commandBuilder
	cmd.add(program)
	for _, r := range failed {
		cmd.add("-run", "^"+regexp.QuoteMeta(r.TestID.String())+"$")
	}
	return cmd.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
