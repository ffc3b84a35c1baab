package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/techcollege/portal/cli/tui/styles"
)

const pickerVisibleItems = 8

// GroupPicker lists the known group codes and filters them as the user
// types. A code that is not in the list can still be opened by typing it in
// full.
type GroupPicker struct {
	Width    int
	Input    textinput.Model
	Groups   []string
	Filtered []string
	Selected int
}

func NewGroupPicker(groups []string) GroupPicker {
	input := textinput.New()
	input.Placeholder = "код группы, например ИС-21"
	input.Prompt = "› "
	input.CharLimit = 32
	input.Focus()
	p := GroupPicker{Input: input, Groups: groups}
	p.filter("")
	return p
}

func (p *GroupPicker) SetWidth(width int) {
	p.Width = width
	p.Input.Width = max(10, width-6)
}

// Reset clears the query, keeping the group list.
func (p *GroupPicker) Reset() {
	p.Input.SetValue("")
	p.Input.Focus()
	p.Selected = 0
	p.filter("")
}

func (p *GroupPicker) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		p.Input, cmd = p.Input.Update(msg)
		return cmd
	}
	switch keyMsg.String() {
	case "up", "ctrl+p":
		if p.Selected > 0 {
			p.Selected--
		}
		return nil
	case "down", "ctrl+n":
		if p.Selected < len(p.Filtered)-1 {
			p.Selected++
		}
		return nil
	case "tab":
		if len(p.Filtered) > 0 {
			p.Input.SetValue(p.Filtered[p.Selected])
			p.Input.CursorEnd()
		}
		return nil
	case "enter":
		return p.choose()
	}
	var cmd tea.Cmd
	p.Input, cmd = p.Input.Update(msg)
	p.filter(p.Input.Value())
	if p.Selected >= len(p.Filtered) {
		p.Selected = 0
	}
	return cmd
}

// choose opens the highlighted group, or the typed code when nothing matches.
func (p *GroupPicker) choose() tea.Cmd {
	code := strings.TrimSpace(p.Input.Value())
	if len(p.Filtered) > 0 && p.Selected < len(p.Filtered) {
		code = p.Filtered[p.Selected]
	}
	if code == "" {
		return nil
	}
	return emit(GroupChosenMsg{Code: code})
}

func (p *GroupPicker) filter(query string) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		p.Filtered = p.Groups
		return
	}
	p.Filtered = nil
	for _, group := range p.Groups {
		if strings.Contains(strings.ToLower(group), query) {
			p.Filtered = append(p.Filtered, group)
		}
	}
}

func (p *GroupPicker) View() string {
	var b strings.Builder
	b.WriteString(styles.RenderTitle("Выберите группу"))
	b.WriteString("\n\n")
	b.WriteString(p.Input.View())
	b.WriteString("\n\n")
	switch {
	case len(p.Groups) == 0:
		b.WriteString(styles.HelpStyle.Render("Список групп не настроен, введите код вручную"))
	case len(p.Filtered) == 0:
		b.WriteString(styles.HelpStyle.Render("Нет совпадений, enter откроет введённый код"))
	default:
		start, end := visibleRange(p.Selected, len(p.Filtered), pickerVisibleItems)
		for i := start; i < end; i++ {
			if i == p.Selected {
				b.WriteString(styles.SelectedRowStyle.Render("▶ " + p.Filtered[i]))
			} else {
				b.WriteString("  " + p.Filtered[i])
			}
			b.WriteString("\n")
		}
		if len(p.Filtered) > pickerVisibleItems {
			b.WriteString(styles.HelpStyle.Render(fmt.Sprintf("%d из %d", end-start, len(p.Filtered))))
		}
	}
	return b.String()
}

// visibleRange keeps selected roughly centered in a window of size items.
func visibleRange(selected, total, size int) (start, end int) {
	if total <= size {
		return 0, total
	}
	start = max(0, selected-size/2)
	end = start + size
	if end > total {
		end = total
		start = end - size
	}
	return start, end
}

// GroupChosenMsg asks the owner to open a group's timetable.
type GroupChosenMsg struct {
	Code string
}
