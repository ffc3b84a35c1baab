// Package cooperation exposes the international cooperation agreements.
package cooperation

import (
	"github.com/spf13/cobra"
	"github.com/techcollege/portal/cli/admin"
	"github.com/techcollege/portal/cli/api"
	"github.com/techcollege/portal/cli/cmd/resource"
	"github.com/techcollege/portal/cli/form"
	"github.com/techcollege/portal/cli/tui/views"
)

const title = "Международное сотрудничество"

// Definition describes the agreements collection to the resource commands.
func Definition() resource.Definition[api.Cooperation, api.CooperationDraft] {
	return resource.Definition[api.Cooperation, api.CooperationDraft]{
		Noun:          "agreement",
		Title:         title,
		NewController: admin.NewCooperationController,
		Fields:        form.CooperationSchema{}.Fields(),
		Admin: views.AdminSpec[api.Cooperation]{
			Title:    title,
			Columns:  views.CooperationColumns(),
			Row:      views.CooperationRow,
			Describe: views.DescribeCooperation,
			Empty:    views.EmptyCooperations,
		},
		Card:  views.RenderCooperation,
		Empty: views.EmptyCooperations,
	}
}

// Cmd returns the cooperation command group.
func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cooperation",
		Aliases: []string{"international", "coop"},
		Short:   "International cooperation agreements",
		Long: `List and administer the international cooperation agreements shown on the
portal. Agreements are listed by their display order.`,
	}
	cmd.AddCommand(resource.Commands(Definition())...)
	return cmd
}
