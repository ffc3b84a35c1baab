// Package resource builds the list, create, update, delete and admin commands
// shared by every administered collection.
package resource

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/techcollege/portal/cli/admin"
	"github.com/techcollege/portal/cli/api"
	"github.com/techcollege/portal/cli/cmd"
	"github.com/techcollege/portal/cli/form"
	"github.com/techcollege/portal/cli/helpers"
	"github.com/techcollege/portal/cli/tui/components"
	"github.com/techcollege/portal/cli/tui/styles"
	"github.com/techcollege/portal/cli/tui/views"
	"github.com/techcollege/portal/pkg/logger"
)

// Definition describes one collection to the command builders.
type Definition[R, D any] struct {
	// Noun names one record in messages, e.g. "agreement".
	Noun string
	// Title heads the TUI screens.
	Title         string
	NewController func(client *api.Client) *admin.Controller[R, D]
	// Fields become the create and update flags.
	Fields []form.Field
	Admin  views.AdminSpec[R]
	Card   func(R) string
	Empty  string
}

// Commands returns list, create, update, delete and admin.
func Commands[R, D any](def Definition[R, D]) []*cobra.Command {
	return []*cobra.Command{
		ListCmd(def),
		CreateCmd(def),
		UpdateCmd(def),
		DeleteCmd(def),
		AdminCmd(def),
	}
}

func controllerFor[R, D any](def Definition[R, D], executor *cmd.CommandExecutor) *admin.Controller[R, D] {
	return def.NewController(executor.GetClient())
}

// ListCmd prints the collection in server order.
func ListCmd[R, D any](def Definition[R, D]) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every " + def.Noun,
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{RequireAPI: true}, cmd.ModeHandlers{
				JSON: func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
					ctrl := controllerFor(def, executor)
					defer ctrl.Close()
					if err := ctrl.Refresh(ctx); err != nil {
						return err
					}
					records := ctrl.Store().Snapshot()
					if records == nil {
						records = []R{}
					}
					message := fmt.Sprintf("%d %s", len(records), helpers.Pluralize(len(records), def.Noun, def.Noun+"s"))
					return helpers.NewOutputWriter(cobraCmd.OutOrStdout()).WriteData(records, message)
				},
				TUI: func(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
					ctrl := controllerFor(def, executor)
					defer ctrl.Close()
					_, err := views.Run(ctx, views.NewListView(ctx, def.Title, ctrl.Store(), def.Card, def.Empty))
					return err
				},
			}, args)
		},
	}
}

// CreateCmd adds a record. Field flags prefill the draft; in TUI mode the
// draft is then edited in a form.
func CreateCmd[R, D any](def Definition[R, D]) *cobra.Command {
	c := &cobra.Command{
		Use:   "create",
		Short: "Create a " + def.Noun,
		Args:  cobra.NoArgs,
	}
	addFieldFlags(c, def.Fields)
	c.RunE = func(cobraCmd *cobra.Command, args []string) error {
		return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{RequireAPI: true}, cmd.ModeHandlers{
			JSON: func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
				ctrl := controllerFor(def, executor)
				defer ctrl.Close()
				ctrl.Add()
				if err := applyFieldFlags(cobraCmd, ctrl); err != nil {
					return err
				}
				saved, err := save(ctx, ctrl)
				if err != nil {
					return err
				}
				return helpers.NewOutputWriter(cobraCmd.OutOrStdout()).WriteData(saved, def.Noun+" created")
			},
			TUI: func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
				ctrl := controllerFor(def, executor)
				defer ctrl.Close()
				ctrl.Add()
				if err := applyFieldFlags(cobraCmd, ctrl); err != nil {
					return err
				}
				saved, err := editAndSave(ctx, ctrl, "Новая запись")
				if err != nil {
					return err
				}
				printSuccess(cobraCmd, "Создано: "+def.Admin.Describe(saved))
				return nil
			},
		}, args)
	}
	return c
}

// UpdateCmd edits the record with the given id. Unset field flags keep the
// stored values.
func UpdateCmd[R, D any](def Definition[R, D]) *cobra.Command {
	c := &cobra.Command{
		Use:   "update ID",
		Short: "Update a " + def.Noun,
		Args:  cobra.ExactArgs(1),
	}
	addFieldFlags(c, def.Fields)
	c.RunE = func(cobraCmd *cobra.Command, args []string) error {
		return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{RequireAPI: true}, cmd.ModeHandlers{
			JSON: func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
				ctrl := controllerFor(def, executor)
				defer ctrl.Close()
				if err := openForEdit(ctx, cobraCmd, ctrl, args[0]); err != nil {
					return err
				}
				saved, err := save(ctx, ctrl)
				if err != nil {
					return err
				}
				return helpers.NewOutputWriter(cobraCmd.OutOrStdout()).WriteData(saved, def.Noun+" updated")
			},
			TUI: func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
				ctrl := controllerFor(def, executor)
				defer ctrl.Close()
				if err := openForEdit(ctx, cobraCmd, ctrl, args[0]); err != nil {
					return err
				}
				saved, err := editAndSave(ctx, ctrl, "Редактирование")
				if err != nil {
					return err
				}
				printSuccess(cobraCmd, "Сохранено: "+def.Admin.Describe(saved))
				return nil
			},
		}, args)
	}
	return c
}

// DeleteCmd removes the record with the given id. JSON mode requires --force;
// TUI mode asks for confirmation unless --force is given.
func DeleteCmd[R, D any](def Definition[R, D]) *cobra.Command {
	c := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a " + def.Noun,
		Args:  cobra.ExactArgs(1),
	}
	c.Flags().Bool("force", false, "Delete without asking for confirmation")
	c.RunE = func(cobraCmd *cobra.Command, args []string) error {
		return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{RequireAPI: true}, cmd.ModeHandlers{
			JSON: func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
				force, err := cobraCmd.Flags().GetBool("force")
				if err != nil {
					return fmt.Errorf("failed to get force flag: %w", err)
				}
				ctrl := controllerFor(def, executor)
				defer ctrl.Close()
				if err := ctrl.Delete(ctx, args[0], force); err != nil {
					if errors.Is(err, admin.ErrNotConfirmed) {
						return fmt.Errorf("%w: %w", helpers.ErrForceRequired, err)
					}
					return err
				}
				result := map[string]any{"id": args[0], "deleted": true, "remaining": ctrl.Store().Len()}
				return helpers.NewOutputWriter(cobraCmd.OutOrStdout()).WriteData(result, def.Noun+" deleted")
			},
			TUI: func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
				force, err := cobraCmd.Flags().GetBool("force")
				if err != nil {
					return fmt.Errorf("failed to get force flag: %w", err)
				}
				ctrl := controllerFor(def, executor)
				defer ctrl.Close()
				id := args[0]
				confirmed := force
				if !confirmed {
					if confirmed, err = confirmDelete(ctx, def, ctrl, id); err != nil {
						return err
					}
				}
				if err := ctrl.Delete(ctx, id, confirmed); err != nil {
					if errors.Is(err, admin.ErrNotConfirmed) {
						fmt.Fprintln(cobraCmd.OutOrStdout(), styles.HelpStyle.Render("Удаление отменено"))
						return nil
					}
					return err
				}
				printSuccess(cobraCmd, "Удалено: "+id)
				return nil
			},
		}, args)
	}
	return c
}

// AdminCmd opens the admin table. It needs a terminal.
func AdminCmd[R, D any](def Definition[R, D]) *cobra.Command {
	return &cobra.Command{
		Use:   "admin",
		Short: "Manage " + def.Noun + "s in an interactive table",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{RequireAPI: true}, cmd.ModeHandlers{
				JSON: func(context.Context, *cobra.Command, *cmd.CommandExecutor, []string) error {
					return helpers.NewCliError(helpers.CodeTUIRequired,
						"The admin table needs an interactive terminal",
						"use list, create, update and delete for scripting")
				},
				TUI: func(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
					ctrl := controllerFor(def, executor)
					defer ctrl.Close()
					_, err := views.Run(ctx, views.NewAdminView(ctx, ctrl, def.Admin))
					return err
				},
			}, args)
		},
	}
}

func openForEdit[R, D any](ctx context.Context, cobraCmd *cobra.Command, ctrl *admin.Controller[R, D], id string) error {
	if err := ctrl.Refresh(ctx); err != nil {
		return err
	}
	if err := ctrl.Edit(id); err != nil {
		return err
	}
	return applyFieldFlags(cobraCmd, ctrl)
}

// save submits the draft. A failed reload after a successful save is logged,
// since the record itself was stored.
func save[R, D any](ctx context.Context, ctrl *admin.Controller[R, D]) (R, error) {
	saved, err := ctrl.Save(ctx)
	if err != nil && !ctrl.Form().IsOpen() {
		logger.FromContext(ctx).Warn("saved, but the list could not be reloaded", "collection", ctrl.Name(), "error", err)
		return saved, nil
	}
	return saved, err
}

// editAndSave shows the draft in a form and saves the result.
func editAndSave[R, D any](ctx context.Context, ctrl *admin.Controller[R, D], title string) (R, error) {
	var zero R
	wrapper := components.NewFormWrapper(ctx, components.NewDraftForm(title, ctrl.Form().Fields(), ctrl.Form().Values()))
	if _, err := views.RunInline(ctx, wrapper); err != nil {
		return zero, err
	}
	if wrapper.IsCanceled() || !wrapper.IsCompleted() {
		return zero, huh.ErrUserAborted
	}
	for _, field := range wrapper.Values() {
		if err := ctrl.SetField(field.Name, field.Value); err != nil {
			return zero, err
		}
	}
	return save(ctx, ctrl)
}

func confirmDelete[R, D any](ctx context.Context, def Definition[R, D], ctrl *admin.Controller[R, D], id string) (bool, error) {
	description := id
	if err := ctrl.Refresh(ctx); err == nil {
		if record, ok := ctrl.Lookup(id); ok {
			description = def.Admin.Describe(record)
		}
	}
	var confirmed bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Удалить запись?").
			Description(description + "\nДействие нельзя отменить.").
			Affirmative("Удалить").
			Negative("Отмена").
			Value(&confirmed),
	)).WithTheme(huh.ThemeCharm()).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return confirmed, err
}

func printSuccess(cobraCmd *cobra.Command, message string) {
	fmt.Fprintln(cobraCmd.OutOrStdout(), styles.SuccessStyle.Render("✓ "+message))
}

// FlagName turns a field name such as "stateName" into "state-name".
func FlagName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func addFieldFlags(c *cobra.Command, fields []form.Field) {
	for _, field := range fields {
		name := FlagName(field.Name)
		if field.Kind == form.KindBool {
			c.Flags().Bool(name, false, field.Label)
			continue
		}
		c.Flags().String(name, "", field.Label)
	}
}

// applyFieldFlags copies explicitly set field flags into the open draft.
func applyFieldFlags[R, D any](cobraCmd *cobra.Command, ctrl *admin.Controller[R, D]) error {
	for _, field := range ctrl.Form().Fields() {
		name := FlagName(field.Name)
		if !cobraCmd.Flags().Changed(name) {
			continue
		}
		var value string
		if field.Kind == form.KindBool {
			b, err := cobraCmd.Flags().GetBool(name)
			if err != nil {
				return fmt.Errorf("failed to get %s flag: %w", name, err)
			}
			value = strconv.FormatBool(b)
		} else {
			s, err := cobraCmd.Flags().GetString(name)
			if err != nil {
				return fmt.Errorf("failed to get %s flag: %w", name, err)
			}
			value = s
		}
		if err := ctrl.SetField(field.Name, value); err != nil {
			return err
		}
	}
	return nil
}
