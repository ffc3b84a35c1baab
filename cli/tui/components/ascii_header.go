package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/common-nighthawk/go-figure"
	"github.com/techcollege/portal/cli/tui/styles"
)

// RenderASCIIHeader renders the portal banner, or a plain title when the
// terminal is too narrow for it.
func RenderASCIIHeader(width int) string {
	banner := figure.NewFigure("PORTAL", "standard", true).String()
	if width > 0 && lipgloss.Width(banner) > width {
		return styles.RenderTitle("Портал колледжа")
	}
	return lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Render(banner)
}
