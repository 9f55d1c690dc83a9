package tui

import (
	"github.com/charmbracelet/lipgloss"

	"pvm/internal/catalog"
)

var (
	// HeaderStyle styles the column header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true)
	// OKStyle marks successful outcomes.
	OKStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	// WarnStyle marks warnings.
	WarnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	// ErrorStyle marks failures.
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	// MutedStyle is for secondary text.
	MutedStyle = lipgloss.NewStyle().Faint(true)

	releaseStatusStyles = map[catalog.Status]lipgloss.Style{
		catalog.StatusLatest:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		catalog.StatusSupported:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		catalog.StatusSecurityFixes: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		catalog.StatusUnsupported:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		catalog.StatusUpcoming:      lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		catalog.StatusFutureRelease: lipgloss.NewStyle().Faint(true),
	}
)

// StatusStyle returns the style for a release status. A nil status is unstyled.
func StatusStyle(status *catalog.Status) lipgloss.Style {
	if status == nil {
		return lipgloss.NewStyle()
	}
	if s, ok := releaseStatusStyles[*status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
