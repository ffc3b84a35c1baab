package schedule

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techcollege/portal/cli/api"
	"github.com/techcollege/portal/cli/helpers"
	"github.com/techcollege/portal/pkg/config"
	testhelpers "github.com/techcollege/portal/test/helpers"
	"github.com/techcollege/portal/test/helpers/portalapi"
	"github.com/tidwall/gjson"
)

func group(name string, subjects ...string) api.Group {
	lessons := make([]api.Lesson, 0, len(subjects))
	for i, subject := range subjects {
		lessons = append(lessons, api.Lesson{
			Time:    []string{"08:30-10:00", "10:10-11:40", "12:20-13:50"}[i%3],
			Subject: subject,
			Room:    "214",
		})
	}
	return api.Group{
		Name:     name,
		Schedule: []api.DaySchedule{{Day: "Понедельник", Lessons: lessons}},
	}
}

func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	cfg.CLI.DefaultFormat = string(helpers.OutputFormatJSON)
	out := &bytes.Buffer{}
	cmdObj := Cmd()
	cmdObj.SetContext(testhelpers.TestContext(t, cfg))
	cmdObj.SetOut(out)
	cmdObj.SetErr(&bytes.Buffer{})
	cmdObj.SilenceErrors = true
	cmdObj.SilenceUsage = true
	cmdObj.SetArgs(args)
	err := cmdObj.Execute()
	return out.String(), err
}

func TestGroupCommand(t *testing.T) {
	t.Run("Should print the group timetable", func(t *testing.T) {
		srv := portalapi.New(t, portalapi.WithGroup(group("IS-21", "Базы данных", "Сети")))

		out, err := run(t, srv.Config(), "group", "IS-21")

		require.NoError(t, err)
		assert.Equal(t, "IS-21", gjson.Get(out, "data.name").String())
		assert.Equal(t, "Базы данных", gjson.Get(out, "data.schedule.0.lessons.0.subject").String())
		assert.Equal(t, "2 lessons", gjson.Get(out, "message").String())
	})

	t.Run("Should report an unknown group as not found", func(t *testing.T) {
		srv := portalapi.New(t)

		out, err := run(t, srv.Config(), "group", "ZZ-99")

		require.Error(t, err)
		assert.Equal(t, helpers.CodeNotFound, gjson.Get(out, "code").String())
		assert.Equal(t, "Group not found", gjson.Get(out, "error").String())
	})
}

func TestGroupsCommand(t *testing.T) {
	t.Run("Should list the configured groups without calling the API", func(t *testing.T) {
		srv := portalapi.New(t)
		cfg := srv.Config()
		cfg.Schedule.Groups = []string{"IS-21", "PO-22"}

		out, err := run(t, cfg, "groups")

		require.NoError(t, err)
		assert.Equal(t, []any{"IS-21", "PO-22"}, gjson.Get(out, "data").Value())
		assert.Equal(t, 0, srv.TotalHits())
	})
}

func TestExportCommand(t *testing.T) {
	t.Run("Should write one recurring event per lesson", func(t *testing.T) {
		srv := portalapi.New(t,
			portalapi.WithGroup(group("IS-21", "Базы данных", "Сети")),
			portalapi.WithGroup(group("PO-22", "Алгоритмы")),
		)
		cfg := srv.Config()
		cfg.Schedule.TermStart = "2026-09-07"
		cfg.Schedule.TermWeeks = 16
		path := filepath.Join(t.TempDir(), "out", "schedule.ics")

		out, err := run(t, cfg, "export", "--group", "IS-21", "--group", "PO-22", "--group", "IS-21", "--out", path)

		require.NoError(t, err)
		assert.Equal(t, int64(3), gjson.Get(out, "data.lessons").Int())
		assert.Equal(t, []any{"IS-21", "PO-22"}, gjson.Get(out, "data.groups").Value())
		assert.Equal(t, 2, srv.Hits(http.MethodGet, "/api/schedule/groups/:code"))
		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		ics := string(raw)
		assert.Equal(t, 3, strings.Count(ics, "BEGIN:VEVENT"))
		assert.Contains(t, ics, "RRULE:FREQ=WEEKLY;COUNT=16")
		assert.Contains(t, ics, "DTSTART;TZID=Europe/Moscow:20260907T083000")
	})

	t.Run("Should fall back to the configured groups", func(t *testing.T) {
		srv := portalapi.New(t, portalapi.WithGroup(group("IS-21", "Базы данных")))
		cfg := srv.Config()
		cfg.Schedule.Groups = []string{"IS-21"}
		path := filepath.Join(t.TempDir(), "schedule.ics")

		out, err := run(t, cfg, "export", "--out", path)

		require.NoError(t, err)
		assert.Equal(t, int64(1), gjson.Get(out, "data.lessons").Int())
		assert.FileExists(t, path)
	})

	t.Run("Should fail without writing when a group is unknown", func(t *testing.T) {
		srv := portalapi.New(t, portalapi.WithGroup(group("IS-21", "Базы данных")))
		path := filepath.Join(t.TempDir(), "schedule.ics")

		out, err := run(t, srv.Config(), "export", "--group", "IS-21", "--group", "ZZ-99", "--out", path)

		require.Error(t, err)
		assert.Equal(t, helpers.CodeNotFound, gjson.Get(out, "code").String())
		assert.NoFileExists(t, path)
	})

	t.Run("Should name the file after the groups when no path is given", func(t *testing.T) {
		srv := portalapi.New(t, portalapi.WithGroup(group("IS-21", "Базы данных")))
		dir := t.TempDir()
		t.Chdir(dir)

		out, err := run(t, srv.Config(), "export", "--group", "IS-21")

		require.NoError(t, err)
		assert.Equal(t, "schedule-is-21.ics", gjson.Get(out, "data.path").String())
		assert.FileExists(t, filepath.Join(dir, "schedule-is-21.ics"))
	})

	t.Run("Should reject an empty output path", func(t *testing.T) {
		srv := portalapi.New(t)

		out, err := run(t, srv.Config(), "export", "--group", "IS-21", "--out", " ")

		require.Error(t, err)
		assert.Equal(t, helpers.CodeEmptyFlag, gjson.Get(out, "code").String())
		assert.Equal(t, 0, srv.TotalHits())
	})

	t.Run("Should fail when no groups are given or configured", func(t *testing.T) {
		srv := portalapi.New(t)

		out, err := run(t, srv.Config(), "export", "--out", filepath.Join(t.TempDir(), "x.ics"))

		require.Error(t, err)
		assert.Equal(t, helpers.CodeMissingFlag, gjson.Get(out, "code").String())
	})
}

func TestTermFromConfig(t *testing.T) {
	t.Run("Should start at the current week without a configured start", func(t *testing.T) {
		sc := config.Default().Schedule
		now := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

		term, err := TermFromConfig(sc, now)

		require.NoError(t, err)
		assert.Equal(t, time.Monday, term.Start.Weekday())
		assert.Equal(t, "2026-10-12", term.Start.Format(time.DateOnly))
		assert.Equal(t, sc.TermWeeks, term.Weeks)
	})

	t.Run("Should reject a start that is not a Monday", func(t *testing.T) {
		sc := config.Default().Schedule
		sc.TermStart = "2026-09-08"

		_, err := TermFromConfig(sc, time.Now())

		assert.Error(t, err)
	})
}

func TestDefaultFileName(t *testing.T) {
	t.Run("Should slugify the group codes", func(t *testing.T) {
		assert.Equal(t, "schedule-is-21-po-22.ics", DefaultFileName([]string{"IS-21", "PO-22"}))
	})
}

func TestEntries(t *testing.T) {
	t.Run("Should flatten every lesson with its group and day", func(t *testing.T) {
		g := group("IS-21", "Базы данных", "Сети")

		entries := Entries([]*api.Group{&g})

		require.Len(t, entries, 2)
		assert.Equal(t, "IS-21", entries[1].Group)
		assert.Equal(t, "Понедельник", entries[1].Day)
		assert.Equal(t, "Сети", entries[1].Subject)
	})
}
