package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"imunetrackE2E/internal/database"
)

const historyTimeFormat = "02.01.2006 15:04"

// PrintRuns выводит последние прогоны, новые сверху. Под каждым прогоном
// перечислены только сценарии, которые не прошли.
func PrintRuns(w io.Writer, runs []database.Run, results map[string][]database.ScenarioResult) {
	if len(runs) == 0 {
		gray.Fprintln(w, "История пуста")
		return
	}
	for _, r := range runs {
		printRunHeader(w, &r)
		for _, res := range results[r.ID] {
			if res.Status == "failed" || res.Status == "setup_failed" {
				printScenario(w, res)
			}
		}
	}
}

// PrintRun выводит один прогон со всеми сценариями.
func PrintRun(w io.Writer, run *database.Run, results []database.ScenarioResult) {
	printRunHeader(w, run)
	for _, res := range results {
		printScenario(w, res)
	}
}

func printRunHeader(w io.Writer, r *database.Run) {
	icon, col, text := FormatStatus(r.Status)
	col.Fprintf(w, "%s %s %s", icon, r.StartedAt.Local().Format(historyTimeFormat), text)
	gray.Fprintf(w, "  %s [%s] %s\n", r.ID, r.Engine, r.BaseURL)
	if r.FinishedAt != nil {
		fmt.Fprintf(w, "    %d/%d пройдено, провалено %d, подготовка %d, пропущено %d (%s)\n",
			r.Passed, r.Total, r.Failed, r.SetupFailed, r.Skipped,
			FormatDuration(r.FinishedAt.Sub(r.StartedAt)))
	}
}

func printScenario(w io.Writer, res database.ScenarioResult) {
	icon, col, _ := FormatStatus(res.Status)
	col.Fprintf(w, "    %s %s", icon, res.Scenario)
	gray.Fprintf(w, " %s\n", FormatDuration(time.Duration(res.DurationMs)*time.Millisecond))
	if res.Message != "" {
		gray.Fprintf(w, "        %s\n", strings.SplitN(res.Message, "\n", 2)[0])
	}
}
