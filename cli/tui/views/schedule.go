package views

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/techcollege/portal/cli/api"
	"github.com/techcollege/portal/cli/tui/components"
	"github.com/techcollege/portal/cli/tui/models"
	"github.com/techcollege/portal/cli/tui/styles"
	"github.com/techcollege/portal/pkg/logger"
)

// GroupFetcher loads one group's timetable.
type GroupFetcher interface {
	Group(ctx context.Context, code string) (*api.Group, error)
}

type scheduleState int

const (
	schedulePicking scheduleState = iota
	scheduleLoading
	scheduleShowing
	scheduleNotFound
	scheduleFailed
)

type groupLoadedMsg struct {
	seq   uint64
	group *api.Group
	err   error
}

// ScheduleView lets the user pick a group and shows its week. An unknown
// code shows the not-found state with a way back to the group list.
type ScheduleView struct {
	models.BaseModel
	fetcher  GroupFetcher
	picker   components.GroupPicker
	layout   components.Layout
	viewport viewport.Model
	state    scheduleState
	code     string
	group    *api.Group
	err      error
	seq      uint64
}

// NewScheduleView starts on the group list, or directly on code when given.
func NewScheduleView(ctx context.Context, fetcher GroupFetcher, groups []string, code string) *ScheduleView {
	v := &ScheduleView{
		BaseModel: models.NewBaseModel(ctx),
		fetcher:   fetcher,
		picker:    components.NewGroupPicker(groups),
		layout: components.NewLayout(
			components.NewBreadcrumb("Расписание"),
			components.NewKeyboardShortcuts(components.ScheduleShortcuts()),
		),
		viewport: viewport.New(80, 20),
		state:    schedulePicking,
		code:     code,
	}
	v.layout.Status.Hints = "enter открыть · esc выход"
	return v
}

func (v *ScheduleView) Init() tea.Cmd {
	if v.code != "" {
		return tea.Batch(v.layout.Status.Tick(), v.open(v.code))
	}
	return textinput.Blink
}

// open starts loading code. Responses for earlier codes are ignored.
func (v *ScheduleView) open(code string) tea.Cmd {
	v.seq++
	seq := v.seq
	v.code = code
	v.group = nil
	v.err = nil
	v.state = scheduleLoading
	v.layout.Breadcrumb = components.NewBreadcrumb("Расписание", code)
	v.layout.Status.Loading = true
	v.layout.Status.Message = "Загрузка расписания…"
	v.layout.Status.Hints = "esc к списку групп"
	ctx := v.Context()
	fetcher := v.fetcher
	return func() tea.Msg {
		group, err := fetcher.Group(ctx, code)
		return groupLoadedMsg{seq: seq, group: group, err: err}
	}
}

func (v *ScheduleView) back() {
	v.seq++
	v.state = schedulePicking
	v.group = nil
	v.err = nil
	v.layout.Breadcrumb = components.NewBreadcrumb("Расписание")
	v.layout.Status.Loading = false
	v.layout.Status.Message = ""
	v.layout.Status.Hints = "enter открыть · esc выход"
	v.picker.Reset()
}

func (v *ScheduleView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if cmd := v.BaseModel.Update(msg); cmd != nil {
		return v, cmd
	}
	cmds := []tea.Cmd{v.layout.Update(msg)}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w, h := v.layout.ContentSize()
		v.viewport.Width, v.viewport.Height = w, h
		v.picker.SetWidth(w)
		v.renderGroup()
	case components.GroupChosenMsg:
		return v, tea.Batch(v.layout.Status.Tick(), v.open(msg.Code))
	case groupLoadedMsg:
		v.applyLoaded(msg)
	case tea.KeyMsg:
		if v.layout.Shortcuts.Update(msg) {
			return v, nil
		}
		if v.state == schedulePicking {
			return v, v.updatePicking(msg)
		}
		switch msg.String() {
		case "q":
			v.Quit()
			return v, tea.Quit
		case "esc", "backspace", "b":
			v.back()
			return v, textinput.Blink
		case "?":
			v.layout.Shortcuts.Toggle()
			return v, nil
		case "r", "ctrl+r":
			if v.state != scheduleLoading {
				return v, tea.Batch(v.layout.Status.Tick(), v.open(v.code))
			}
			return v, nil
		}
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		cmds = append(cmds, cmd)
	default:
		if v.state == schedulePicking {
			cmds = append(cmds, v.picker.Update(msg))
		}
	}
	return v, tea.Batch(cmds...)
}

func (v *ScheduleView) updatePicking(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "esc" {
		v.Quit()
		return tea.Quit
	}
	return v.picker.Update(msg)
}

func (v *ScheduleView) applyLoaded(msg groupLoadedMsg) {
	if msg.seq != v.seq {
		return
	}
	v.layout.Status.Loading = false
	v.layout.Status.Hints = "r обновить · esc к списку групп · q выход"
	switch {
	case errors.Is(msg.err, api.ErrGroupNotFound):
		v.state = scheduleNotFound
		v.layout.Status.Message = ""
	case msg.err != nil:
		v.state = scheduleFailed
		v.err = msg.err
		v.layout.Status.Message = "Ошибка загрузки"
		logger.FromContext(v.Context()).Warn("group schedule unavailable", "group", v.code, "error", msg.err)
	default:
		v.state = scheduleShowing
		v.group = msg.group
		v.layout.Status.Message = ""
		v.renderGroup()
	}
}

func (v *ScheduleView) renderGroup() {
	if v.group == nil {
		return
	}
	v.viewport.SetContent(RenderGroup(v.group, v.viewport.Width))
	v.viewport.GotoTop()
}

// Content renders the page body for the current state.
func (v *ScheduleView) Content() string {
	width, height := v.layout.ContentSize()
	switch v.state {
	case schedulePicking:
		return components.RenderASCIIHeader(width) + "\n" + v.picker.View()
	case scheduleLoading:
		return styles.HelpStyle.Render("Загрузка расписания группы " + v.code + "…")
	case scheduleNotFound:
		return centered(width, height, styles.WarningStyle.Render(GroupNotFound)+"\n\n"+
			styles.HelpStyle.Render("Код «"+v.code+"» не найден. Нажмите esc, чтобы вернуться к списку групп."))
	case scheduleFailed:
		return styles.ErrorStyle.Render(ErrorText(v.err, nil)) + "\n\n" +
			styles.HelpStyle.Render("r повторить · esc к списку групп")
	default:
		return v.viewport.View()
	}
}

// Code is the group currently opened, if any.
func (v *ScheduleView) Code() string {
	return v.code
}

func (v *ScheduleView) View() string {
	if v.IsQuitting() {
		return ""
	}
	v.layout.Content = v.Content()
	return v.layout.View()
}
