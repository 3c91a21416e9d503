package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#60a5fa"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("#1e3a5f")).Bold(true)
	dirtyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffd700"))
	cleanStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#c084fc")).Bold(true)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#334155")).Padding(0, 1)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171")).Bold(true)
)

// swatch draws a small block in color.
func swatch(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("■")
}
