package components

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/techcollege/portal/cli/tui/styles"
)

// ShortcutGroup is one column of the "?" overlay.
type ShortcutGroup []key.Binding

func bind(keys, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(keys), key.WithHelp(keys, desc))
}

func GeneralShortcuts() ShortcutGroup {
	return ShortcutGroup{
		bind("q", "выход"),
		bind("ctrl+c", "прервать"),
		bind("?", "подсказка"),
		bind("r", "обновить"),
		bind("esc", "назад / отмена"),
	}
}

func ListShortcuts() ShortcutGroup {
	return ShortcutGroup{
		bind("↑/k", "вверх"),
		bind("↓/j", "вниз"),
		bind("pgup/pgdn", "страница"),
	}
}

func AdminShortcuts() ShortcutGroup {
	return ShortcutGroup{
		bind("a", "добавить"),
		bind("e/enter", "редактировать"),
		bind("d", "удалить"),
		bind("y/n", "подтвердить удаление"),
	}
}

func ScheduleShortcuts() ShortcutGroup {
	return ShortcutGroup{
		bind("enter", "открыть группу"),
		bind("tab", "ввести код группы"),
		bind("esc", "к списку групп"),
	}
}

var closeOverlay = key.NewBinding(key.WithKeys("esc", "q", "?"))

// KeyboardShortcuts is the "?" overlay. It renders with bubbles/help, one
// column per group.
type KeyboardShortcuts struct {
	Width   int
	Height  int
	Visible bool
	groups  [][]key.Binding
	help    help.Model
}

// NewKeyboardShortcuts puts the general group first, then the view's own.
func NewKeyboardShortcuts(extra ...ShortcutGroup) KeyboardShortcuts {
	groups := [][]key.Binding{GeneralShortcuts()}
	for _, g := range extra {
		groups = append(groups, g)
	}
	h := help.New()
	h.ShowAll = true
	h.FullSeparator = "   "
	h.Styles.FullKey = styles.HelpKeyStyle
	h.Styles.FullDesc = styles.HelpDescStyle
	h.Styles.FullSeparator = styles.HelpStyle
	return KeyboardShortcuts{groups: groups, help: h}
}

// ShortHelp and FullHelp make the overlay a help.KeyMap.
func (k *KeyboardShortcuts) ShortHelp() []key.Binding { return k.groups[0] }

func (k *KeyboardShortcuts) FullHelp() [][]key.Binding { return k.groups }

func (k *KeyboardShortcuts) SetSize(width, height int) {
	k.Width, k.Height = width, height
	k.help.Width = width
}

func (k *KeyboardShortcuts) Toggle() {
	k.Visible = !k.Visible
}

// Update closes the overlay on esc, q or ?. It reports whether it consumed
// msg; every key is consumed while the overlay is visible.
func (k *KeyboardShortcuts) Update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		k.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if !k.Visible {
			return false
		}
		if key.Matches(msg, closeOverlay) {
			k.Visible = false
		}
		return true
	}
	return false
}

func (k *KeyboardShortcuts) View() string {
	if !k.Visible {
		return ""
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.RenderTitle("Клавиши"),
		"",
		k.help.View(k),
		"",
		styles.HelpStyle.Render("esc, q или ? чтобы закрыть"),
	)
	dialog := styles.DialogStyle.Render(body)
	if k.Width <= 0 || k.Height <= 0 {
		return dialog
	}
	return lipgloss.Place(k.Width, k.Height, lipgloss.Center, lipgloss.Center, dialog)
}
