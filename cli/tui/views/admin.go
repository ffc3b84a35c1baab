package views

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/techcollege/portal/cli/admin"
	"github.com/techcollege/portal/cli/form"
	"github.com/techcollege/portal/cli/store"
	"github.com/techcollege/portal/cli/tui/components"
	"github.com/techcollege/portal/cli/tui/models"
	"github.com/techcollege/portal/cli/tui/styles"
)

type adminState int

const (
	adminBrowsing adminState = iota
	adminEditing
	adminConfirming
	adminBusy
)

type savedMsg struct {
	err error
}

type deletedMsg struct {
	id  string
	err error
}

// AdminSpec describes how one collection is shown in the admin table.
type AdminSpec[R any] struct {
	Title    string
	Columns  []table.Column
	Row      func(R) table.Row
	Describe func(R) string
	Empty    string
}

// AdminView is the admin table with its modal form and delete confirmation.
// Every successful mutation reloads the whole list.
type AdminView[R, D any] struct {
	models.BaseModel
	ctrl    *admin.Controller[R, D]
	spec    AdminSpec[R]
	table   components.RecordTable
	layout  components.Layout
	draft   *components.DraftForm
	state   adminState
	pending string
	notice  string
}

func NewAdminView[R, D any](ctx context.Context, ctrl *admin.Controller[R, D], spec AdminSpec[R]) *AdminView[R, D] {
	v := &AdminView[R, D]{
		BaseModel: models.NewBaseModel(ctx),
		ctrl:      ctrl,
		spec:      spec,
		table:     components.NewRecordTable(spec.Columns, spec.Empty),
		layout: components.NewLayout(
			components.NewBreadcrumb("Администрирование", spec.Title),
			components.NewKeyboardShortcuts(components.ListShortcuts(), components.AdminShortcuts()),
		),
	}
	v.layout.Status.Hints = "a добавить · e изменить · d удалить · r обновить · q выход"
	return v
}

func (v *AdminView[R, D]) Init() tea.Cmd {
	return tea.Batch(v.layout.Status.Tick(), v.reload())
}

func (v *AdminView[R, D]) reload() tea.Cmd {
	v.layout.Status.Loading = true
	v.layout.Status.Message = "Загрузка…"
	return reloadCmd(v.Context(), v.ctrl.Store())
}

func (v *AdminView[R, D]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if cmd := v.BaseModel.Update(msg); cmd != nil {
		v.ctrl.Close()
		return v, cmd
	}
	cmds := []tea.Cmd{v.layout.Update(msg)}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w, h := v.layout.ContentSize()
		v.table.SetSize(w, h)
	case reloadedMsg:
		if errors.Is(msg.err, store.ErrStale) || errors.Is(msg.err, store.ErrClosed) {
			return v, nil
		}
		v.syncTable()
	case savedMsg:
		return v, v.afterSave(msg.err)
	case deletedMsg:
		v.afterDelete(msg)
	case components.RefreshMsg:
		v.notice = ""
		return v, v.reload()
	case components.AddRecordMsg:
		v.ctrl.Add()
		return v, v.openDraft("Новая запись")
	case components.EditRecordMsg:
		if err := v.ctrl.Edit(msg.ID); err != nil {
			v.layout.Err = err
			return v, nil
		}
		return v, v.openDraft("Редактирование")
	case components.DeleteRecordMsg:
		v.state = adminConfirming
		v.pending = msg.ID
		v.table.Blur()
	case tea.KeyMsg:
		return v, v.handleKey(msg)
	default:
		if v.state == adminEditing && v.draft != nil {
			cmds = append(cmds, v.updateDraft(msg))
		}
	}
	return v, tea.Batch(cmds...)
}

func (v *AdminView[R, D]) handleKey(msg tea.KeyMsg) tea.Cmd {
	if v.layout.Shortcuts.Update(msg) {
		return nil
	}
	switch v.state {
	case adminEditing:
		return v.updateDraft(msg)
	case adminConfirming:
		return v.updateConfirm(msg)
	case adminBusy:
		return nil
	}
	switch msg.String() {
	case "q", "esc":
		v.Quit()
		v.ctrl.Close()
		return tea.Quit
	case "?":
		v.layout.Shortcuts.Toggle()
		return nil
	}
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return cmd
}

func (v *AdminView[R, D]) openDraft(title string) tea.Cmd {
	v.state = adminEditing
	v.layout.Err = nil
	v.notice = ""
	v.table.Blur()
	v.draft = components.NewDraftForm(title, v.ctrl.Form().Fields(), v.ctrl.Form().Values())
	return v.draft.Init()
}

func (v *AdminView[R, D]) closeDraft() {
	v.state = adminBrowsing
	v.draft = nil
	v.table.Focus()
}

// updateDraft forwards msg to the modal. huh reports completion through its
// own messages, so the state is checked after every update.
func (v *AdminView[R, D]) updateDraft(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		v.ctrl.Cancel()
		v.closeDraft()
		return nil
	}
	cmd := v.draft.Update(msg)
	switch v.draft.State() {
	case huh.StateAborted:
		v.ctrl.Cancel()
		v.closeDraft()
		return nil
	case huh.StateCompleted:
		return v.submit()
	}
	return cmd
}

// submit copies the modal values into the draft and saves it.
func (v *AdminView[R, D]) submit() tea.Cmd {
	for _, field := range v.draft.Values() {
		if err := v.ctrl.SetField(field.Name, field.Value); err != nil {
			v.layout.Err = err
			return v.openDraft(v.formTitle())
		}
	}
	v.state = adminBusy
	v.draft = nil
	v.layout.Status.Loading = true
	v.layout.Status.Message = "Сохранение…"
	ctx, ctrl := v.Context(), v.ctrl
	return func() tea.Msg {
		_, err := ctrl.Save(ctx)
		return savedMsg{err: err}
	}
}

func (v *AdminView[R, D]) formTitle() string {
	if v.ctrl.Form().Mode() == form.ModeEdit {
		return "Редактирование"
	}
	return "Новая запись"
}

// afterSave reopens the modal with the input intact when the save failed.
func (v *AdminView[R, D]) afterSave(err error) tea.Cmd {
	v.layout.Status.Loading = false
	if err != nil && v.ctrl.Form().IsOpen() {
		cmd := v.openDraft(v.formTitle())
		v.layout.Err = errors.New(ErrorText(err, v.ctrl.Form().Fields()))
		return cmd
	}
	v.closeDraft()
	if err != nil {
		// saved, but the follow-up reload failed
		v.layout.Err = errors.New(ErrorText(err, nil))
	} else {
		v.notice = "Сохранено"
	}
	v.syncTable()
	return nil
}

func (v *AdminView[R, D]) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y", "д", "Д":
		id := v.pending
		v.state = adminBusy
		v.layout.Status.Loading = true
		v.layout.Status.Message = "Удаление…"
		ctx, ctrl := v.Context(), v.ctrl
		return func() tea.Msg {
			return deletedMsg{id: id, err: ctrl.Delete(ctx, id, true)}
		}
	case "n", "N", "н", "Н", "esc", "q":
		v.pending = ""
		v.closeDraft()
	}
	return nil
}

func (v *AdminView[R, D]) afterDelete(msg deletedMsg) {
	v.pending = ""
	v.closeDraft()
	v.layout.Status.Loading = false
	if msg.err != nil {
		v.layout.Err = errors.New(ErrorText(msg.err, nil))
	} else {
		v.layout.Err = nil
		v.notice = "Удалено"
	}
	v.syncTable()
}

func (v *AdminView[R, D]) syncTable() {
	s := v.ctrl.Store()
	records := s.Snapshot()
	ids := make([]string, len(records))
	rows := make([]table.Row, len(records))
	for i, r := range records {
		ids[i] = v.ctrl.ID(r)
		rows[i] = v.spec.Row(r)
	}
	v.table.SetRecords(ids, rows)
	v.layout.Status.Loading = s.Status() == store.StatusLoading
	switch s.Status() {
	case store.StatusError:
		v.layout.Err = errors.New(ErrorText(s.Err(), nil))
		v.layout.Status.Message = "r повторить"
	case store.StatusReady:
		v.layout.Status.Message = fmt.Sprintf("%d · %s", len(records), s.LoadedAt().Format("15:04:05"))
		if v.notice != "" {
			v.layout.Status.Message = v.notice + " · " + v.layout.Status.Message
		}
	}
}

// Content renders the page body for the current state.
func (v *AdminView[R, D]) Content() string {
	width, height := v.layout.ContentSize()
	switch v.state {
	case adminEditing:
		if v.draft != nil {
			return centered(width, height, styles.DialogStyle.Render(v.draft.View()))
		}
	case adminConfirming:
		return centered(width, height, v.confirmView())
	}
	if v.ctrl.Store().Status() == store.StatusLoading && v.table.Len() == 0 {
		return styles.HelpStyle.Render("Загрузка…")
	}
	return v.table.View()
}

func (v *AdminView[R, D]) confirmView() string {
	description := v.pending
	if record, ok := v.ctrl.Lookup(v.pending); ok {
		description = v.spec.Describe(record)
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.WarningStyle.Render("Удалить запись?"),
		"",
		description,
		"",
		styles.ErrorStyle.Render("Действие нельзя отменить."),
		styles.HelpStyle.Render("y удалить · n отмена"),
	)
	return styles.ConfirmDialogStyle.Render(content)
}

func (v *AdminView[R, D]) View() string {
	if v.IsQuitting() {
		return ""
	}
	v.layout.Content = v.Content()
	return v.layout.View()
}
