package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/hardenlabs/torsetup/internal/setup"
)

// Color palette shared across the UI
var (
	primaryColor = lipgloss.Color("39")
	successColor = lipgloss.Color("42")
	warningColor = lipgloss.Color("220")
	errorColor   = lipgloss.Color("196")
	mutedColor   = lipgloss.Color("245")
)

// Layout styles
var (
	containerStyle = lipgloss.NewStyle().
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(primaryColor)

	headerStyle = lipgloss.NewStyle().
			Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// The selected menu row is inverted, black text on a white block.
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("15"))
)

// Severity styles for the action output pane
var (
	infoStyle    = lipgloss.NewStyle().Foreground(warningColor)
	successStyle = lipgloss.NewStyle().Foreground(successColor)
	failureStyle = lipgloss.NewStyle().Foreground(errorColor)
	detailStyle  = lipgloss.NewStyle().Foreground(mutedColor)
)

// SeverityStyle returns the render style for an event severity.
func SeverityStyle(severity setup.Severity) lipgloss.Style {
	switch severity {
	case setup.SeveritySuccess:
		return successStyle
	case setup.SeverityFailure:
		return failureStyle
	case setup.SeverityDetail:
		return detailStyle
	default:
		return infoStyle
	}
}

// GetStateIndicator returns a styled symbol for a systemd unit state.
func GetStateIndicator(state string) string {
	switch state {
	case "active":
		return successStyle.Render("●")
	case "failed":
		return failureStyle.Render("✗")
	case "inactive":
		return detailStyle.Render("◯")
	case "activating":
		return infoStyle.Render("◐")
	case "deactivating":
		return infoStyle.Render("◦")
	default:
		return infoStyle.Render("⚠")
	}
}

// GetStateStyle returns the text style matching a systemd unit state.
func GetStateStyle(state string) lipgloss.Style {
	switch state {
	case "active":
		return successStyle
	case "failed":
		return failureStyle
	case "inactive":
		return detailStyle
	default:
		return infoStyle
	}
}

// FormatMenuRow renders one menu row, inverting it when selected.
func FormatMenuRow(label string, selected bool) string {
	row := fmt.Sprintf("  %s  ", label)
	if selected {
		return selectedStyle.Render(row)
	}
	return row
}
