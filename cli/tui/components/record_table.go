package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/techcollege/portal/cli/tui/styles"
)

// RecordTableKeyMap defines the admin actions bound on the table.
type RecordTableKeyMap struct {
	Refresh key.Binding
	Add     key.Binding
	Edit    key.Binding
	Delete  key.Binding
}

func DefaultRecordTableKeyMap() RecordTableKeyMap {
	return RecordTableKeyMap{
		Refresh: newBinding([]string{"r", "ctrl+r"}, "обновить", "r"),
		Add:     newBinding([]string{"a", "n"}, "добавить", "a"),
		Edit:    newBinding([]string{"e", "enter"}, "изменить", "e"),
		Delete:  newBinding([]string{"d", "delete"}, "удалить", "d"),
	}
}

func newBinding(keys []string, help, display string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(display, help),
	)
}

// RecordTable lists records in server order. Rows are keyed by record id; a
// row with an empty id cannot be edited or deleted.
type RecordTable struct {
	table   table.Model
	columns []table.Column
	ids     []string
	width   int
	height  int
	empty   string
	keyMap  RecordTableKeyMap
}

func NewRecordTable(columns []table.Column, empty string) RecordTable {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(defaultTableStyles())
	return RecordTable{
		table:   t,
		columns: columns,
		empty:   empty,
		keyMap:  DefaultRecordTableKeyMap(),
	}
}

func defaultTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Border).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.Highlight).
		Background(styles.Surface).
		Bold(true)
	return s
}

// SetSize scales the configured column widths to fit width.
func (rt *RecordTable) SetSize(width, height int) {
	rt.width = width
	rt.height = height
	rt.table.SetHeight(max(3, height-2))
	total := 0
	for _, c := range rt.columns {
		total += c.Width
	}
	available := width - 2*len(rt.columns)
	if total == 0 || available <= 0 {
		return
	}
	scaled := make([]table.Column, len(rt.columns))
	for i, c := range rt.columns {
		scaled[i] = table.Column{Title: c.Title, Width: max(4, c.Width*available/total)}
	}
	rt.table.SetColumns(scaled)
}

// SetRecords replaces every row. ids and rows are parallel.
func (rt *RecordTable) SetRecords(ids []string, rows []table.Row) {
	rt.ids = ids
	rt.table.SetRows(rows)
	if rt.table.Cursor() >= len(rows) {
		rt.table.SetCursor(max(0, len(rows)-1))
	}
}

// SelectedID returns the id of the row under the cursor.
func (rt *RecordTable) SelectedID() (string, bool) {
	i := rt.table.Cursor()
	if i < 0 || i >= len(rt.ids) || rt.ids[i] == "" {
		return "", false
	}
	return rt.ids[i], true
}

func (rt *RecordTable) Len() int {
	return len(rt.ids)
}

func (rt *RecordTable) Focus() {
	rt.table.Focus()
}

func (rt *RecordTable) Blur() {
	rt.table.Blur()
}

func (rt RecordTable) Update(msg tea.Msg) (RecordTable, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && rt.table.Focused() {
		switch {
		case key.Matches(keyMsg, rt.keyMap.Refresh):
			return rt, emit(RefreshMsg{})
		case key.Matches(keyMsg, rt.keyMap.Add):
			return rt, emit(AddRecordMsg{})
		case key.Matches(keyMsg, rt.keyMap.Edit):
			if id, ok := rt.SelectedID(); ok {
				return rt, emit(EditRecordMsg{ID: id})
			}
			return rt, nil
		case key.Matches(keyMsg, rt.keyMap.Delete):
			if id, ok := rt.SelectedID(); ok {
				return rt, emit(DeleteRecordMsg{ID: id})
			}
			return rt, nil
		}
	}
	var cmd tea.Cmd
	rt.table, cmd = rt.table.Update(msg)
	return rt, cmd
}

func (rt RecordTable) View() string {
	if len(rt.ids) == 0 {
		return styles.HelpStyle.Render(rt.empty)
	}
	footer := styles.HelpStyle.Render(fmt.Sprintf("Записей: %d", len(rt.ids)))
	return lipgloss.JoinVertical(lipgloss.Left, rt.table.View(), footer)
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// RefreshMsg asks the owner to reload the collection.
type RefreshMsg struct{}

type AddRecordMsg struct{}

type EditRecordMsg struct {
	ID string
}

type DeleteRecordMsg struct {
	ID string
}
