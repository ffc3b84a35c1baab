package views

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/techcollege/portal/cli/store"
	"github.com/techcollege/portal/cli/tui/components"
	"github.com/techcollege/portal/cli/tui/models"
	"github.com/techcollege/portal/cli/tui/styles"
)

// reloadedMsg reports a finished store reload.
type reloadedMsg struct {
	err error
}

func reloadCmd[R any](ctx context.Context, s *store.ListStore[R]) tea.Cmd {
	return func() tea.Msg {
		return reloadedMsg{err: s.Reload(ctx)}
	}
}

// ListView is a read-only page over one collection: it loads on mount,
// renders the snapshot in server order and reloads on r. Failures become an
// error state on the page; they never end the program.
type ListView[R any] struct {
	models.BaseModel
	store    *store.ListStore[R]
	layout   components.Layout
	viewport viewport.Model
	render   func(R) string
	empty    string
}

// NewListView creates the page. The store should be freshly created, so that
// it starts in the loading state.
func NewListView[R any](
	ctx context.Context,
	title string,
	s *store.ListStore[R],
	render func(R) string,
	empty string,
) *ListView[R] {
	layout := components.NewLayout(
		components.NewBreadcrumb(title),
		components.NewKeyboardShortcuts(components.ListShortcuts()),
	)
	v := &ListView[R]{
		BaseModel: models.NewBaseModel(ctx),
		store:     s,
		layout:    layout,
		viewport:  viewport.New(80, 20),
		render:    render,
		empty:     empty,
	}
	v.sync()
	return v
}

func (v *ListView[R]) Init() tea.Cmd {
	return tea.Batch(v.layout.Status.Tick(), v.reload())
}

func (v *ListView[R]) reload() tea.Cmd {
	v.layout.Status.Loading = true
	return reloadCmd(v.Context(), v.store)
}

func (v *ListView[R]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if cmd := v.BaseModel.Update(msg); cmd != nil {
		v.store.Close()
		return v, cmd
	}
	cmds := []tea.Cmd{v.layout.Update(msg)}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w, h := v.layout.ContentSize()
		v.viewport.Width, v.viewport.Height = w, h
		v.sync()
	case reloadedMsg:
		if errors.Is(msg.err, store.ErrStale) || errors.Is(msg.err, store.ErrClosed) {
			return v, nil
		}
		v.sync()
	case tea.KeyMsg:
		if v.layout.Shortcuts.Update(msg) {
			return v, nil
		}
		switch msg.String() {
		case "q", "esc":
			v.Quit()
			v.store.Close()
			return v, tea.Quit
		case "?":
			v.layout.Shortcuts.Toggle()
			return v, nil
		case "r", "ctrl+r":
			v.sync()
			return v, v.reload()
		}
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return v, tea.Batch(cmds...)
}

// sync renders the store state into the viewport.
func (v *ListView[R]) sync() {
	v.layout.Status.Loading = v.store.Status() == store.StatusLoading
	v.layout.Err = nil
	v.layout.Status.Hints = "r обновить · ? клавиши · q выход"
	v.viewport.SetContent(v.Content())
	switch v.store.Status() {
	case store.StatusLoading:
		v.layout.Status.Message = "Загрузка…"
	case store.StatusError:
		v.layout.Status.Message = "Ошибка загрузки"
	default:
		v.layout.Status.Message = "Обновлено " + v.store.LoadedAt().Format("15:04:05")
	}
}

// Content renders the page body for the current store state.
func (v *ListView[R]) Content() string {
	switch v.store.Status() {
	case store.StatusLoading:
		return styles.HelpStyle.Render("Загрузка…")
	case store.StatusError:
		return styles.ErrorStyle.Render(ErrorText(v.store.Err(), nil)) + "\n\n" +
			styles.HelpStyle.Render("Нажмите r, чтобы повторить")
	}
	records := v.store.Snapshot()
	if len(records) == 0 {
		return styles.HelpStyle.Render(v.empty)
	}
	cards := make([]string, 0, len(records))
	for _, r := range records {
		cards = append(cards, v.render(r))
	}
	return strings.Join(cards, "\n")
}

func (v *ListView[R]) View() string {
	if v.IsQuitting() {
		return ""
	}
	v.layout.Content = v.viewport.View()
	return v.layout.View()
}
