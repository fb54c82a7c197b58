package ui

import (
	"fmt"
	"time"

	"github.com/fatih/color"
)

// FormatStatus возвращает иконку, цвет и текст для статуса сценария
func FormatStatus(status string) (icon string, c *color.Color, text string) {
	switch status {
	case "passed":
		return IconCheckmark, green, "пройден"
	case "failed":
		return IconCross, red, "провален"
	case "setup_failed":
		return IconWarning, yellow, "ошибка подготовки"
	case "skipped":
		return IconSkip, gray, "пропущен"
	case "running":
		return IconPlay, cyan, "выполняется"
	default:
		return IconClock, yellow, status
	}
}

// FormatDuration округляет длительность для вывода: 1.234s, 850ms.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(10 * time.Millisecond).String()
}
