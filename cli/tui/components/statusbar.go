package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/techcollege/portal/cli/tui/styles"
)

// StatusBar is the one-line footer: a spinner while loading, a message and
// the key hints.
type StatusBar struct {
	Width   int
	Message string
	Hints   string
	Loading bool
	spinner spinner.Model
}

func NewStatusBar() StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle
	return StatusBar{spinner: s}
}

// Tick starts the spinner animation.
func (s StatusBar) Tick() tea.Cmd {
	return s.spinner.Tick
}

func (s StatusBar) Update(msg tea.Msg) (StatusBar, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.Width = msg.Width
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s StatusBar) View() string {
	left := s.Message
	if s.Loading {
		left = s.spinner.View() + " " + left
	}
	return styles.RenderStatusBar(s.Width, left, "", styles.HelpStyle.Render(s.Hints))
}
