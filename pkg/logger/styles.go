package logger

import (
	"github.com/charmbracelet/lipgloss"
	charmlog "github.com/charmbracelet/log"
)

func levelStyles() *charmlog.Styles {
	styles := charmlog.DefaultStyles()
	for level, spec := range map[charmlog.Level]struct{ label, color string }{
		charmlog.DebugLevel: {"DEBU", "63"},
		charmlog.InfoLevel:  {"INFO", "86"},
		charmlog.WarnLevel:  {"WARN", "192"},
		charmlog.ErrorLevel: {"ERRO", "204"},
	} {
		styles.Levels[level] = lipgloss.NewStyle().SetString(spec.label).Bold(true).Foreground(lipgloss.Color(spec.color))
	}
	styles.Keys["error"] = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	styles.Values["error"] = lipgloss.NewStyle().Bold(true)
	return styles
}
