// Package announcements exposes the schedule announcements.
package announcements

import (
	"github.com/spf13/cobra"
	"github.com/techcollege/portal/cli/admin"
	"github.com/techcollege/portal/cli/api"
	"github.com/techcollege/portal/cli/cmd/resource"
	"github.com/techcollege/portal/cli/form"
	"github.com/techcollege/portal/cli/tui/views"
)

const title = "Объявления"

func Definition() resource.Definition[api.Announcement, api.AnnouncementDraft] {
	return resource.Definition[api.Announcement, api.AnnouncementDraft]{
		Noun:          "announcement",
		Title:         title,
		NewController: admin.NewAnnouncementController,
		Fields:        form.AnnouncementSchema{}.Fields(),
		Admin: views.AdminSpec[api.Announcement]{
			Title:    title,
			Columns:  views.AnnouncementColumns(),
			Row:      views.AnnouncementRow,
			Describe: views.DescribeAnnouncement,
			Empty:    views.EmptyAnnouncements,
		},
		Card:  views.RenderAnnouncement,
		Empty: views.EmptyAnnouncements,
	}
}

// Cmd returns the announcements command group.
func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "announcements",
		Aliases: []string{"news"},
		Short:   "Schedule announcements",
	}
	cmd.AddCommand(resource.Commands(Definition())...)
	return cmd
}
