package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	colorPrimary = lipgloss.Color("#7C3AED")
	colorSuccess = lipgloss.Color("#22C55E")
	colorWarning = lipgloss.Color("#F59E0B")
	colorDanger  = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorBorder  = lipgloss.Color("#374151")

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 1)

	styleSection = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleHelp = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	styleNotice = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	styleFailure = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	styleMuted = lipgloss.NewStyle().Foreground(colorMuted)

	styleRowSelected = lipgloss.NewStyle().
				Background(lipgloss.Color("#1F2937")).
				Foreground(lipgloss.Color("#FFFFFF"))

	// Box styles
	styleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	styleFocusedBox = styleBox.
			BorderForeground(colorPrimary)

	styleLabel = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(10)
)

// OutcomeIcon returns a colored success/failure marker.
func OutcomeIcon(success bool) string {
	if success {
		return styleSuccess.Render("✓")
	}
	return styleFailure.Render("✗")
}

func boxStyle(focused bool) lipgloss.Style {
	if focused {
		return styleFocusedBox
	}
	return styleBox
}
