// Package schedule shows group timetables and exports them as calendars.
package schedule

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/spf13/cobra"
	"github.com/techcollege/portal/cli/api"
	"github.com/techcollege/portal/cli/cmd"
	"github.com/techcollege/portal/cli/helpers"
	"github.com/techcollege/portal/cli/tui/models"
	"github.com/techcollege/portal/cli/tui/styles"
	"github.com/techcollege/portal/cli/tui/views"
	"github.com/techcollege/portal/pkg/calendar"
	"github.com/techcollege/portal/pkg/config"
	"github.com/techcollege/portal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentFetches bounds parallel group requests during export.
const maxConcurrentFetches = 4

// Cmd returns the schedule command group.
func Cmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "schedule",
		Short: "Group timetables",
		Long: `Show the weekly timetable of a study group, list the configured groups, or
export timetables as an iCalendar file.`,
	}
	c.AddCommand(groupCmd(), groupsCmd(), exportCmd())
	return c
}

func groupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "group CODE",
		Short: "Show the timetable of one group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{RequireAPI: true}, cmd.ModeHandlers{
				JSON: func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
					group, err := api.NewScheduleService(executor.GetClient()).Group(ctx, args[0])
					if err != nil {
						return err
					}
					message := fmt.Sprintf("%d %s", group.LessonCount(), helpers.Pluralize(group.LessonCount(), "lesson", "lessons"))
					return helpers.NewOutputWriter(cobraCmd.OutOrStdout()).WriteData(group, message)
				},
				TUI: func(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
					cfg := config.FromContext(ctx)
					view := views.NewScheduleView(ctx, api.NewScheduleService(executor.GetClient()), cfg.Schedule.Groups, args[0])
					_, err := views.Run(ctx, view)
					return err
				},
			}, args)
		},
	}
}

func groupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List the configured groups",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{RequireAPI: true}, cmd.ModeHandlers{
				JSON: func(ctx context.Context, cobraCmd *cobra.Command, _ *cmd.CommandExecutor, _ []string) error {
					groups := config.FromContext(ctx).Schedule.Groups
					if groups == nil {
						groups = []string{}
					}
					return helpers.NewOutputWriter(cobraCmd.OutOrStdout()).WriteData(groups, "")
				},
				TUI: func(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
					cfg := config.FromContext(ctx)
					view := views.NewScheduleView(ctx, api.NewScheduleService(executor.GetClient()), cfg.Schedule.Groups, "")
					_, err := views.Run(ctx, view)
					return err
				},
			}, args)
		},
	}
}

// ExportResult summarizes a written calendar.
type ExportResult struct {
	Path    string   `json:"path"`
	Groups  []string `json:"groups"`
	Lessons int      `json:"lessons"`
	Skipped int      `json:"skipped"`
}

func exportCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "export",
		Short: "Export group timetables as an iCalendar file",
		Long: `Export writes one weekly recurring event per lesson for every requested group.
The recurrence starts at schedule.term_start (or the current week) and runs for
schedule.term_weeks weeks. Without --group the configured groups are exported.`,
		Args: cobra.NoArgs,
	}
	c.Flags().StringSlice("group", nil, "Group code to export (repeatable)")
	c.Flags().String("out", "", "Output .ics file (default: named after the groups)")
	c.RunE = func(cobraCmd *cobra.Command, args []string) error {
		handler := func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
			result, err := runExport(ctx, cobraCmd, executor.GetClient())
			if err != nil {
				return err
			}
			if executor.GetMode() == models.ModeJSON {
				return helpers.NewOutputWriter(cobraCmd.OutOrStdout()).WriteData(result, "calendar written")
			}
			fmt.Fprintln(cobraCmd.OutOrStdout(), styles.SuccessStyle.Render(
				fmt.Sprintf("✓ %s: %d %s", result.Path, result.Lessons, helpers.Pluralize(result.Lessons, "занятие", "занятий"))))
			return nil
		}
		return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{RequireAPI: true}, cmd.ModeHandlers{
			JSON: handler,
			TUI:  handler,
		}, args)
	}
	return c
}

func runExport(ctx context.Context, cobraCmd *cobra.Command, client *api.Client) (*ExportResult, error) {
	if cobraCmd.Flags().Changed("out") {
		if err := cmd.ValidateRequiredFlags(cobraCmd, []string{"out"}); err != nil {
			return nil, err
		}
	}
	out, err := cobraCmd.Flags().GetString("out")
	if err != nil {
		return nil, fmt.Errorf("failed to get out flag: %w", err)
	}
	codes, err := cobraCmd.Flags().GetStringSlice("group")
	if err != nil {
		return nil, fmt.Errorf("failed to get group flag: %w", err)
	}
	cfg := config.FromContext(ctx)
	if len(codes) == 0 {
		codes = cfg.Schedule.Groups
	}
	codes = normalizeCodes(codes)
	if len(codes) == 0 {
		return nil, helpers.NewCliError(helpers.CodeMissingFlag, "no groups to export",
			"pass --group or set schedule.groups")
	}
	if out == "" {
		out = DefaultFileName(codes)
	}

	term, err := TermFromConfig(cfg.Schedule, time.Now())
	if err != nil {
		return nil, helpers.NewCliError(helpers.CodeValidation, "invalid term settings", err.Error()).WithCause(err)
	}
	groups, err := FetchGroups(ctx, api.NewScheduleService(client), codes)
	if err != nil {
		return nil, err
	}
	entries := Entries(groups)

	exporter, err := calendar.NewExporter(term, calendar.WithName("Расписание "+strings.Join(codes, ", ")))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	skipped, err := exporter.Write(&buf, entries)
	log := logger.FromContext(ctx)
	for _, s := range skipped {
		log.Warn("lesson skipped", "group", s.Entry.Group, "day", s.Entry.Day, "time", s.Entry.Time, "reason", s.Reason)
	}
	if err != nil {
		return nil, helpers.NewCliError(helpers.CodeValidation, "nothing to export", err.Error()).WithCause(err)
	}
	if err := helpers.WriteFile(out, buf.Bytes()); err != nil {
		return nil, err
	}
	log.Info("calendar written", "path", out, "groups", codes, "lessons", len(entries)-len(skipped))
	return &ExportResult{
		Path:    out,
		Groups:  codes,
		Lessons: len(entries) - len(skipped),
		Skipped: len(skipped),
	}, nil
}

// DefaultFileName names the calendar after its groups, e.g.
// "schedule-is-21-po-22.ics".
func DefaultFileName(codes []string) string {
	return slug.Make("schedule "+strings.Join(codes, " ")) + ".ics"
}

// normalizeCodes trims codes and drops blanks and repeats, keeping order.
func normalizeCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" || slices.Contains(out, code) {
			continue
		}
		out = append(out, code)
	}
	return out
}

// TermFromConfig anchors the recurrence at term_start, or at the Monday of
// the week containing now when no start is configured.
func TermFromConfig(sc config.ScheduleConfig, now time.Time) (calendar.Term, error) {
	loc, err := sc.Location()
	if err != nil {
		return calendar.Term{}, fmt.Errorf("load timezone %q: %w", sc.Timezone, err)
	}
	start := calendar.WeekStart(now, loc)
	if sc.TermStart != "" {
		start, err = time.ParseInLocation(time.DateOnly, sc.TermStart, loc)
		if err != nil {
			return calendar.Term{}, fmt.Errorf("parse term start: %w", err)
		}
	}
	term := calendar.Term{Start: start, Weeks: sc.TermWeeks, Location: loc}
	return term, term.Validate()
}

// FetchGroups loads every group concurrently. The first failure cancels the
// rest; results keep the order of codes.
func FetchGroups(ctx context.Context, fetcher views.GroupFetcher, codes []string) ([]*api.Group, error) {
	groups := make([]*api.Group, len(codes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, code := range codes {
		g.Go(func() error {
			group, err := fetcher.Group(gctx, code)
			if err != nil {
				return fmt.Errorf("group %s: %w", code, err)
			}
			groups[i] = group
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return groups, nil
}

// Entries flattens timetables into calendar entries.
func Entries(groups []*api.Group) []calendar.Entry {
	var entries []calendar.Entry
	for _, group := range groups {
		for _, day := range group.Schedule {
			for _, lesson := range day.Lessons {
				entries = append(entries, calendar.Entry{
					Group:   group.Name,
					Day:     day.Day,
					Time:    lesson.Time,
					Subject: lesson.Subject,
					Teacher: lesson.Teacher,
					Room:    lesson.Room,
				})
			}
		}
	}
	return entries
}
