package ui

import "github.com/fatih/color"

// Цвета консоли. fatih/color сам отключает их, если вывод не терминал.
var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
	gray   = color.New(color.FgHiBlack)
	bold   = color.New(color.Bold)
)

// Icon константы
const (
	IconCheckmark = "✓"
	IconCross     = "✗"
	IconPlay      = "▶"
	IconClock     = "⏳"
	IconSkip      = "↷"
	IconWarning   = "⚠"
	IconGlobe     = "🌐"
	IconSyringe   = "💉"
)
