package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/techcollege/portal/cli/tui/styles"
)

// Layout frames a view: breadcrumb on top, an error line when set, the
// content, and the status bar at the bottom. The shortcuts overlay replaces
// everything while visible.
type Layout struct {
	Width      int
	Height     int
	Breadcrumb Breadcrumb
	Status     StatusBar
	Shortcuts  KeyboardShortcuts
	Content    string
	Err        error
}

func NewLayout(breadcrumb Breadcrumb, shortcuts KeyboardShortcuts) Layout {
	return Layout{
		Breadcrumb: breadcrumb,
		Status:     NewStatusBar(),
		Shortcuts:  shortcuts,
	}
}

func (l *Layout) SetSize(width, height int) {
	l.Width = width
	l.Height = height
	l.Breadcrumb.Width = width
	l.Status.Width = width
	l.Shortcuts.SetSize(width, height)
}

// Update feeds window and spinner messages to the frame.
func (l *Layout) Update(msg tea.Msg) tea.Cmd {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		l.SetSize(size.Width, size.Height)
	}
	var cmd tea.Cmd
	l.Status, cmd = l.Status.Update(msg)
	return cmd
}

// ContentSize returns the space left for the content.
func (l *Layout) ContentSize() (width, height int) {
	height = l.Height - 3
	if l.Err != nil {
		height--
	}
	return max(0, l.Width-2), max(1, height)
}

func (l *Layout) View() string {
	if l.Shortcuts.Visible {
		return l.Shortcuts.View()
	}
	sections := []string{l.Breadcrumb.View(), ""}
	if l.Err != nil {
		sections = append(sections, styles.ErrorStyle.Render("✗ "+l.Err.Error()))
	}
	width, height := l.ContentSize()
	content := lipgloss.NewStyle().PaddingLeft(1)
	if l.Width > 0 {
		content = content.Width(width + 1)
	}
	if l.Height > 0 {
		content = content.Height(height).MaxHeight(height)
	}
	sections = append(sections, content.Render(l.Content), l.Status.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
