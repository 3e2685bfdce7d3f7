package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/inovacc/repomirror/internal/progress"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

func styleFor(kind progress.Kind) lipgloss.Style {
	switch kind {
	case progress.Success:
		return successStyle
	case progress.Warning:
		return warningStyle
	case progress.Error:
		return errorStyle
	default:
		return infoStyle
	}
}

func iconFor(kind progress.Kind) string {
	switch kind {
	case progress.Success:
		return "✓"
	case progress.Warning:
		return "!"
	case progress.Error:
		return "✗"
	default:
		return "•"
	}
}
