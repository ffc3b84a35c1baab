package admin

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techcollege/portal/cli/api"
	"github.com/techcollege/portal/cli/form"
	"github.com/techcollege/portal/cli/store"
	"github.com/techcollege/portal/test/helpers"
	"github.com/techcollege/portal/test/helpers/portalapi"
)

func seededAgreements() []api.Cooperation {
	return []api.Cooperation{
		{ID: "c1", StateName: "Казахстан", OrgName: "КазНУ", DogReg: "№12", Order: 1, IsActive: true},
		{ID: "c2", StateName: "Беларусь", OrgName: "БГУ", DogReg: "№7", Order: 2},
	}
}

func TestController_Create(t *testing.T) {
	t.Run("Should create a record and reload the list from the server", func(t *testing.T) {
		srv := portalapi.New(t, portalapi.WithCooperations(seededAgreements()...))
		ctx := helpers.TestContext(t, srv.Config())
		ctrl := NewCooperationController(srv.Client(t))
		require.NoError(t, ctrl.Refresh(ctx))
		require.Equal(t, 2, ctrl.Store().Len())

		ctrl.Add()
		require.NoError(t, ctrl.SetField("stateName", "Узбекистан"))
		require.NoError(t, ctrl.SetField("orgName", "ТашГТУ"))
		require.NoError(t, ctrl.SetField("dogReg", "№3"))
		require.NoError(t, ctrl.SetField("order", "3"))
		require.NoError(t, ctrl.SetField("isActive", "да"))

		saved, err := ctrl.Save(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, saved.ID)
		assert.Equal(t, "Узбекистан", saved.StateName)
		assert.True(t, saved.IsActive)
		assert.False(t, ctrl.Form().IsOpen())

		snapshot := ctrl.Store().Snapshot()
		require.Len(t, snapshot, 3)
		assert.Equal(t, saved.ID, snapshot[2].ID)
		assert.Equal(t, 2, srv.Hits(http.MethodGet, "/api/international"))
	})

	t.Run("Should not send an invalid draft", func(t *testing.T) {
		srv := portalapi.New(t)
		ctx := helpers.TestContext(t, srv.Config())
		ctrl := NewCooperationController(srv.Client(t))

		ctrl.Add()
		require.NoError(t, ctrl.SetField("stateName", "   "))
		_, err := ctrl.Save(ctx)

		require.ErrorIs(t, err, form.ErrValidation)
		var verr *form.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.ElementsMatch(t, []string{"stateName", "orgName", "dogReg"}, verr.Fields)
		assert.True(t, ctrl.Form().IsOpen())
		assert.Equal(t, 0, srv.TotalHits())
	})

	t.Run("Should keep the draft open when the server rejects it", func(t *testing.T) {
		srv := portalapi.New(t)
		srv.Fail(http.MethodPost, "/api/international", http.StatusInternalServerError, `{"error":"boom"}`)
		ctx := helpers.TestContext(t, srv.Config())
		ctrl := NewCooperationController(srv.Client(t))

		ctrl.Add()
		require.NoError(t, ctrl.SetField("stateName", "Китай"))
		require.NoError(t, ctrl.SetField("orgName", "ХПИ"))
		require.NoError(t, ctrl.SetField("dogReg", "№1"))
		_, err := ctrl.Save(ctx)

		require.ErrorIs(t, err, api.ErrHTTP)
		assert.True(t, ctrl.Form().IsOpen())
		assert.Equal(t, "Китай", ctrl.Form().Draft().StateName)
		assert.Equal(t, 0, srv.Hits(http.MethodGet, "/api/international"))

		srv.Recover()
		saved, err := ctrl.Save(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ХПИ", saved.OrgName)
	})
}

func TestController_Edit(t *testing.T) {
	t.Run("Should seed the draft from the selected record and update it", func(t *testing.T) {
		srv := portalapi.New(t, portalapi.WithCooperations(seededAgreements()...))
		ctx := helpers.TestContext(t, srv.Config())
		ctrl := NewCooperationController(srv.Client(t))
		require.NoError(t, ctrl.Refresh(ctx))

		require.NoError(t, ctrl.Edit("c2"))
		assert.Equal(t, form.ModeEdit, ctrl.Form().Mode())
		assert.Equal(t, "БГУ", ctrl.Form().Draft().OrgName)
		require.NoError(t, ctrl.SetField("isActive", "true"))

		saved, err := ctrl.Save(ctx)
		require.NoError(t, err)
		assert.Equal(t, "c2", saved.ID)
		assert.True(t, saved.IsActive)
		record, ok := ctrl.Lookup("c2")
		require.True(t, ok)
		assert.True(t, record.IsActive)
		assert.Equal(t, 1, srv.Hits(http.MethodPut, "/api/international/:id"))
	})

	t.Run("Should reject ids that are not in the current list", func(t *testing.T) {
		srv := portalapi.New(t, portalapi.WithCooperations(seededAgreements()...))
		ctx := helpers.TestContext(t, srv.Config())
		ctrl := NewCooperationController(srv.Client(t))
		require.NoError(t, ctrl.Refresh(ctx))

		err := ctrl.Edit("missing")

		require.ErrorIs(t, err, ErrRecordNotFound)
		assert.False(t, ctrl.Form().IsOpen())
	})

	t.Run("Should discard the draft on cancel", func(t *testing.T) {
		srv := portalapi.New(t, portalapi.WithCooperations(seededAgreements()...))
		ctx := helpers.TestContext(t, srv.Config())
		ctrl := NewCooperationController(srv.Client(t))
		require.NoError(t, ctrl.Refresh(ctx))
		require.NoError(t, ctrl.Edit("c1"))

		ctrl.Cancel()

		assert.Equal(t, form.ModeClosed, ctrl.Form().Mode())
		assert.Equal(t, 0, srv.Hits(http.MethodPut, "/api/international/:id"))
	})
}

func TestController_Delete(t *testing.T) {
	t.Run("Should not issue a request without confirmation", func(t *testing.T) {
		srv := portalapi.New(t, portalapi.WithCooperations(seededAgreements()...))
		ctx := helpers.TestContext(t, srv.Config())
		ctrl := NewCooperationController(srv.Client(t))

		err := ctrl.Delete(ctx, "c1", false)

		require.ErrorIs(t, err, ErrNotConfirmed)
		assert.Equal(t, 0, srv.TotalHits())
		assert.Len(t, srv.Cooperations(), 2)
	})

	t.Run("Should delete a confirmed record and reload", func(t *testing.T) {
		srv := portalapi.New(t, portalapi.WithCooperations(seededAgreements()...))
		ctx := helpers.TestContext(t, srv.Config())
		ctrl := NewCooperationController(srv.Client(t))
		require.NoError(t, ctrl.Refresh(ctx))

		require.NoError(t, ctrl.Delete(ctx, "c1", true))

		snapshot := ctrl.Store().Snapshot()
		require.Len(t, snapshot, 1)
		assert.Equal(t, "c2", snapshot[0].ID)
		_, ok := ctrl.Lookup("c1")
		assert.False(t, ok)
	})

	t.Run("Should leave the list untouched when the delete fails", func(t *testing.T) {
		srv := portalapi.New(t, portalapi.WithCooperations(seededAgreements()...))
		srv.Fail(http.MethodDelete, "/api/international/:id", http.StatusForbidden, `{"error":"forbidden"}`)
		ctx := helpers.TestContext(t, srv.Config())
		ctrl := NewCooperationController(srv.Client(t))
		require.NoError(t, ctrl.Refresh(ctx))
		generation := ctrl.Store().Generation()

		err := ctrl.Delete(ctx, "c1", true)

		require.ErrorIs(t, err, api.ErrHTTP)
		assert.Equal(t, http.StatusForbidden, api.StatusCode(err))
		assert.Equal(t, generation, ctrl.Store().Generation())
		assert.Equal(t, 2, ctrl.Store().Len())
		assert.Equal(t, 1, srv.Hits(http.MethodGet, "/api/international"))
	})
}

func TestAnnouncementController(t *testing.T) {
	t.Run("Should report an empty ready list", func(t *testing.T) {
		srv := portalapi.New(t)
		ctx := helpers.TestContext(t, srv.Config())
		ctrl := NewAnnouncementController(srv.Client(t))
		assert.Equal(t, store.StatusLoading, ctrl.Store().Status())

		require.NoError(t, ctrl.Refresh(ctx))

		assert.Equal(t, store.StatusReady, ctrl.Store().Status())
		assert.Empty(t, ctrl.Store().Snapshot())
	})

	t.Run("Should publish an announcement", func(t *testing.T) {
		srv := portalapi.New(t)
		ctx := helpers.TestContext(t, srv.Config())
		ctrl := NewAnnouncementController(srv.Client(t))
		require.NoError(t, ctrl.Refresh(ctx))

		ctrl.Add()
		require.NoError(t, ctrl.SetField("title", "Перенос пар"))
		require.NoError(t, ctrl.SetField("content", "Пары 3 курса переносятся на субботу"))
		require.NoError(t, ctrl.SetField("urgent", "yes"))
		saved, err := ctrl.Save(ctx)

		require.NoError(t, err)
		assert.True(t, saved.Urgent)
		assert.NotEmpty(t, saved.Date)
		require.Equal(t, 1, ctrl.Store().Len())
	})

	t.Run("Should not allow editing records without an id", func(t *testing.T) {
		srv := portalapi.New(t, portalapi.WithAnnouncements(api.Announcement{Title: "Старое", Content: "без id"}))
		ctx := helpers.TestContext(t, srv.Config())
		ctrl := NewAnnouncementController(srv.Client(t))
		require.NoError(t, ctrl.Refresh(ctx))

		err := ctrl.Edit("")

		require.ErrorIs(t, err, ErrRecordNotFound)
	})
}
