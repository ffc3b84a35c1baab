// Package styles holds the lipgloss palette shared by the TUI views.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Primary   = lipgloss.Color("69")
	Highlight = lipgloss.Color("229")
	Surface   = lipgloss.Color("57")
	Border    = lipgloss.Color("240")
	Muted     = lipgloss.Color("241")
	Danger    = lipgloss.Color("196")
	Warning   = lipgloss.Color("214")
	Success   = lipgloss.Color("42")
)

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Primary)

	HelpStyle     = lipgloss.NewStyle().Foreground(Muted)
	HelpKeyStyle  = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	HelpDescStyle = lipgloss.NewStyle().Foreground(Muted)

	InfoStyle    = lipgloss.NewStyle().Foreground(Primary)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Danger).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(Success).Bold(true)
	UrgentStyle  = lipgloss.NewStyle().Foreground(Danger).Bold(true)

	SelectedRowStyle = lipgloss.NewStyle().Foreground(Highlight).Background(Surface)
	SpinnerStyle     = lipgloss.NewStyle().Foreground(Primary)

	BreadcrumbStyle       = lipgloss.NewStyle().Foreground(Muted)
	BreadcrumbActiveStyle = lipgloss.NewStyle().Foreground(Primary).Bold(true)

	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)
	ConfirmDialogStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(Warning).
				Padding(1, 2)
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(Border).
			PaddingLeft(1).
			MarginBottom(1)

	statusBarStyle = lipgloss.NewStyle().Foreground(Muted)
)

// RenderTitle renders a section heading.
func RenderTitle(title string) string {
	return TitleStyle.Render(title)
}

// RenderStatusBar lays out three segments across width.
func RenderStatusBar(width int, left, center, right string) string {
	if width <= 0 {
		return statusBarStyle.Render(left + " " + center + " " + right)
	}
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	gap := width - lw - cw - rw
	if gap < 2 {
		return statusBarStyle.MaxWidth(width).Render(left + " " + center + " " + right)
	}
	leftGap := gap / 2
	bar := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", gap-leftGap) + right
	return statusBarStyle.Render(bar)
}
