package ui

import (
	"github.com/charmbracelet/lipgloss"

	"taskmaster/internal/app"
	"taskmaster/internal/task"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7c3aed"))
	activeTabStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	tabStyle       = lipgloss.NewStyle().Faint(true)
	doneTextStyle  = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	removingStyle  = lipgloss.NewStyle().Faint(true).Italic(true)
	metaStyle      = lipgloss.NewStyle().Faint(true)
	helpStyle      = lipgloss.NewStyle().Faint(true)
	confirmStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f59e0b"))

	priorityStyles = map[task.Priority]lipgloss.Style{
		task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981")),
		task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")),
		task.PriorityHigh:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef4444")),
	}

	noticeStyles = map[app.Severity]lipgloss.Style{
		app.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6")),
		app.SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981")),
		app.SeverityError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef4444")),
	}
)

func priorityBadge(p task.Priority) string {
	style, ok := priorityStyles[p]
	if !ok {
		style = metaStyle
	}
	return style.Render("[" + string(p) + "]")
}
