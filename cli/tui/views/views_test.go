package views

import (
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techcollege/portal/cli/admin"
	"github.com/techcollege/portal/cli/api"
	"github.com/techcollege/portal/cli/store"
	"github.com/techcollege/portal/cli/tui/components"
	"github.com/techcollege/portal/test/helpers"
	"github.com/techcollege/portal/test/helpers/portalapi"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

var escKey = tea.KeyMsg{Type: tea.KeyEsc}

func TestListView(t *testing.T) {
	t.Run("Should show the empty state when there are no announcements", func(t *testing.T) {
		srv := portalapi.New(t)
		ctx := helpers.TestContext(t, srv.Config())
		s := store.New[api.Announcement]("announcements", api.NewAnnouncementResource(srv.Client(t)))
		v := NewListView(ctx, "Объявления", s, RenderAnnouncement, EmptyAnnouncements)
		v.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
		assert.Contains(t, v.Content(), "Загрузка")

		v.Update(reloadCmd(ctx, s)())

		assert.Equal(t, store.StatusReady, s.Status())
		assert.Contains(t, v.Content(), EmptyAnnouncements)
		assert.Contains(t, v.View(), EmptyAnnouncements)
	})

	t.Run("Should render announcements in server order", func(t *testing.T) {
		srv := portalapi.New(t, portalapi.WithAnnouncements(
			api.Announcement{ID: "a1", Title: "Замена пар", Content: "Пары перенесены", Urgent: true, Date: "2026-10-12"},
			api.Announcement{ID: "a2", Title: "Собрание", Content: "В актовом зале"},
		))
		ctx := helpers.TestContext(t, srv.Config())
		s := store.New[api.Announcement]("announcements", api.NewAnnouncementResource(srv.Client(t)))
		v := NewListView(ctx, "Объявления", s, RenderAnnouncement, EmptyAnnouncements)

		v.Update(reloadCmd(ctx, s)())

		content := v.Content()
		assert.NotContains(t, content, EmptyAnnouncements)
		assert.Contains(t, content, "Срочно")
		first, second := strings.Index(content, "Замена пар"), strings.Index(content, "Собрание")
		require.GreaterOrEqual(t, first, 0)
		assert.Less(t, first, second)
	})

	t.Run("Should show a retryable error instead of quitting", func(t *testing.T) {
		srv := portalapi.New(t)
		srv.Fail(http.MethodGet, "/api/schedule/announcements", http.StatusInternalServerError, `{"error":"db down"}`)
		ctx := helpers.TestContext(t, srv.Config())
		s := store.New[api.Announcement]("announcements", api.NewAnnouncementResource(srv.Client(t)))
		v := NewListView(ctx, "Объявления", s, RenderAnnouncement, EmptyAnnouncements)

		v.Update(reloadCmd(ctx, s)())
		assert.Equal(t, store.StatusError, s.Status())
		assert.Contains(t, v.Content(), "Ошибка сервера (500)")
		assert.False(t, v.IsQuitting())

		srv.Recover()
		_, cmd := v.Update(keyRune('r'))
		require.NotNil(t, cmd)
		v.Update(reloadCmd(ctx, s)())
		assert.Contains(t, v.Content(), EmptyAnnouncements)
	})

	t.Run("Should quit on q and close the store", func(t *testing.T) {
		srv := portalapi.New(t)
		ctx := helpers.TestContext(t, srv.Config())
		s := store.New[api.Announcement]("announcements", api.NewAnnouncementResource(srv.Client(t)))
		v := NewListView(ctx, "Объявления", s, RenderAnnouncement, EmptyAnnouncements)

		_, cmd := v.Update(keyRune('q'))

		require.NotNil(t, cmd)
		assert.True(t, v.IsQuitting())
		assert.Equal(t, store.StatusIdle, s.Status())
		assert.Empty(t, v.View())
	})
}

func scheduleGroup() api.Group {
	return api.Group{
		Name:      "IS-21",
		Specialty: "Информационные системы",
		Schedule: []api.DaySchedule{
			{Day: "Понедельник", Lessons: []api.Lesson{
				{Time: "08:30-10:00", Subject: "Базы данных", Teacher: "Иванова А.П.", Room: "214"},
			}},
		},
	}
}

func TestScheduleView(t *testing.T) {
	t.Run("Should show the group timetable", func(t *testing.T) {
		srv := portalapi.New(t, portalapi.WithGroup(scheduleGroup()))
		ctx := helpers.TestContext(t, srv.Config())
		v := NewScheduleView(ctx, api.NewScheduleService(srv.Client(t)), []string{"IS-21"}, "")
		v.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

		v.Update(v.open("IS-21")())

		assert.Equal(t, scheduleShowing, v.state)
		assert.Contains(t, v.View(), "Базы данных")
		assert.Equal(t, "IS-21", v.Code())
	})

	t.Run("Should show not found for an unknown group and go back on esc", func(t *testing.T) {
		srv := portalapi.New(t, portalapi.WithGroup(scheduleGroup()))
		ctx := helpers.TestContext(t, srv.Config())
		v := NewScheduleView(ctx, api.NewScheduleService(srv.Client(t)), []string{"IS-21"}, "")
		v.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

		v.Update(v.open("ZZ-99")())

		assert.Equal(t, scheduleNotFound, v.state)
		assert.Contains(t, v.Content(), GroupNotFound)
		assert.False(t, v.IsQuitting())

		v.Update(escKey)
		assert.Equal(t, schedulePicking, v.state)
		assert.NotContains(t, v.Content(), GroupNotFound)
		assert.False(t, v.IsQuitting())
	})

	t.Run("Should ignore a response for a group the user already left", func(t *testing.T) {
		srv := portalapi.New(t, portalapi.WithGroup(scheduleGroup()))
		ctx := helpers.TestContext(t, srv.Config())
		v := NewScheduleView(ctx, api.NewScheduleService(srv.Client(t)), nil, "")

		late := v.open("IS-21")
		v.Update(escKey)
		v.Update(late())

		assert.Equal(t, schedulePicking, v.state)
	})

	t.Run("Should report other failures with a retry hint", func(t *testing.T) {
		srv := portalapi.New(t)
		srv.Fail(http.MethodGet, "/api/schedule/groups/:code", http.StatusBadGateway, "")
		ctx := helpers.TestContext(t, srv.Config())
		v := NewScheduleView(ctx, api.NewScheduleService(srv.Client(t)), nil, "")

		v.Update(v.open("IS-21")())

		assert.Equal(t, scheduleFailed, v.state)
		assert.Contains(t, v.Content(), "r повторить")
	})
}

func seededAgreements() []api.Cooperation {
	return []api.Cooperation{
		{ID: "c1", StateName: "Казахстан", OrgName: "КазНУ", DogReg: "№12", Order: 1, IsActive: true},
		{ID: "c2", StateName: "Беларусь", OrgName: "БГУ", DogReg: "№7", Order: 2},
	}
}

func cooperationSpec() AdminSpec[api.Cooperation] {
	return AdminSpec[api.Cooperation]{
		Title:    "Международное сотрудничество",
		Columns:  CooperationColumns(),
		Row:      CooperationRow,
		Describe: DescribeCooperation,
		Empty:    EmptyCooperations,
	}
}

func TestAdminView(t *testing.T) {
	setup := func(t *testing.T) (*portalapi.Harness, *AdminView[api.Cooperation, api.CooperationDraft], *admin.Controller[api.Cooperation, api.CooperationDraft]) {
		t.Helper()
		srv := portalapi.New(t, portalapi.WithCooperations(seededAgreements()...))
		ctx := helpers.TestContext(t, srv.Config())
		ctrl := admin.NewCooperationController(srv.Client(t))
		v := NewAdminView(ctx, ctrl, cooperationSpec())
		v.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
		v.Update(reloadCmd(ctx, ctrl.Store())())
		return srv, v, ctrl
	}

	t.Run("Should fill the table after loading", func(t *testing.T) {
		_, v, _ := setup(t)
		assert.Equal(t, 2, v.table.Len())
		assert.Contains(t, v.View(), "Казахстан")
	})

	t.Run("Should open the modal on add and discard it on esc", func(t *testing.T) {
		_, v, ctrl := setup(t)

		v.Update(components.AddRecordMsg{})
		assert.Equal(t, adminEditing, v.state)
		assert.True(t, ctrl.Form().IsOpen())

		v.Update(escKey)
		assert.Equal(t, adminBrowsing, v.state)
		assert.False(t, ctrl.Form().IsOpen())
		assert.False(t, v.IsQuitting())
	})

	t.Run("Should reopen the modal with an error when the draft is invalid", func(t *testing.T) {
		srv, v, ctrl := setup(t)
		before := srv.TotalHits()

		v.Update(components.AddRecordMsg{})
		cmd := v.submit()
		require.NotNil(t, cmd)
		v.Update(cmd())

		assert.Equal(t, adminEditing, v.state)
		assert.True(t, ctrl.Form().IsOpen())
		require.Error(t, v.layout.Err)
		assert.Contains(t, v.layout.Err.Error(), "Страна")
		assert.Equal(t, before, srv.TotalHits())
	})

	t.Run("Should open the modal prefilled on edit", func(t *testing.T) {
		_, v, ctrl := setup(t)

		v.Update(components.EditRecordMsg{ID: "c2"})

		assert.Equal(t, adminEditing, v.state)
		assert.Equal(t, "c2", ctrl.Form().EditID())
		assert.Equal(t, "Беларусь", ctrl.Form().Draft().StateName)
	})

	t.Run("Should not delete when the confirmation is declined", func(t *testing.T) {
		srv, v, _ := setup(t)

		v.Update(components.DeleteRecordMsg{ID: "c1"})
		assert.Equal(t, adminConfirming, v.state)
		assert.Contains(t, v.Content(), "Удалить запись?")
		assert.Contains(t, v.Content(), "Казахстан")

		_, cmd := v.Update(keyRune('n'))
		assert.Nil(t, cmd)
		assert.Equal(t, adminBrowsing, v.state)
		assert.Equal(t, 0, srv.Hits(http.MethodDelete, "/api/international/:id"))
	})

	t.Run("Should delete after confirmation and reload the table", func(t *testing.T) {
		srv, v, _ := setup(t)

		v.Update(components.DeleteRecordMsg{ID: "c1"})
		_, cmd := v.Update(keyRune('y'))
		require.NotNil(t, cmd)
		v.Update(cmd())

		assert.Equal(t, adminBrowsing, v.state)
		assert.Equal(t, 1, v.table.Len())
		assert.Equal(t, 1, srv.Hits(http.MethodDelete, "/api/international/:id"))
		assert.NoError(t, v.layout.Err)
	})

	t.Run("Should keep the table when the delete fails", func(t *testing.T) {
		srv, v, _ := setup(t)
		srv.Fail(http.MethodDelete, "/api/international/:id", http.StatusForbidden, `{"error":"forbidden"}`)

		v.Update(components.DeleteRecordMsg{ID: "c2"})
		_, cmd := v.Update(keyRune('y'))
		require.NotNil(t, cmd)
		v.Update(cmd())

		assert.Equal(t, 2, v.table.Len())
		require.Error(t, v.layout.Err)
		assert.Contains(t, v.layout.Err.Error(), "403")
	})
}
