package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/techcollege/portal/cli/admin"
	"github.com/techcollege/portal/cli/api"
	"github.com/techcollege/portal/cli/form"
	"github.com/techcollege/portal/cli/helpers"
	"github.com/techcollege/portal/cli/tui/models"
	"github.com/techcollege/portal/pkg/config"
	"github.com/techcollege/portal/pkg/logger"
)

// CommandExecutor handles common setup and execution patterns for CLI commands:
// mode detection, API client creation, and error reporting.
type CommandExecutor struct {
	mode models.Mode

	// only populated when RequireAPI is set
	client *api.Client
}

// HandlerFunc defines the signature for command handlers.
type HandlerFunc func(ctx context.Context, cmd *cobra.Command, executor *CommandExecutor, args []string) error

// ModeHandlers contains handlers for different execution modes.
type ModeHandlers struct {
	JSON HandlerFunc
	TUI  HandlerFunc
}

// ExecutorOptions allows customization of the command executor
type ExecutorOptions struct {
	RequireAPI bool
}

// NewCommandExecutor creates a new command executor with all necessary setup.
func NewCommandExecutor(cmd *cobra.Command, opts ExecutorOptions) (*CommandExecutor, error) {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	mode := helpers.DetectMode(cmd)
	log.Debug("detected execution mode", "mode", mode)
	executor := &CommandExecutor{
		mode: mode,
	}
	if opts.RequireAPI {
		client, err := api.NewClient(config.FromContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to create portal client: %w", err)
		}
		executor.client = client
	}
	return executor, nil
}

// Execute runs the appropriate handler based on the detected mode.
func (e *CommandExecutor) Execute(ctx context.Context, cmd *cobra.Command, handlers ModeHandlers, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	switch e.mode {
	case models.ModeJSON:
		if handlers.JSON == nil {
			return fmt.Errorf("JSON mode handler not implemented")
		}
		return handlers.JSON(ctx, cmd, e, args)
	case models.ModeTUI:
		if handlers.TUI == nil {
			return fmt.Errorf("TUI mode handler not implemented")
		}
		return handlers.TUI(ctx, cmd, e, args)
	default:
		return fmt.Errorf("unsupported mode: %s", e.mode)
	}
}

// GetClient returns the configured portal client.
func (e *CommandExecutor) GetClient() *api.Client {
	return e.client
}

// GetMode returns the detected execution mode.
func (e *CommandExecutor) GetMode() models.Mode {
	return e.mode
}

// ExecuteCommand is a convenience function that combines executor creation and execution.
func ExecuteCommand(cmd *cobra.Command, opts ExecutorOptions, handlers ModeHandlers, args []string) error {
	executor, err := NewCommandExecutor(cmd, opts)
	if err != nil {
		return HandleCommonErrors(cmd, err, helpers.DetectMode(cmd))
	}
	return HandleCommonErrors(cmd, executor.Execute(cmd.Context(), cmd, handlers, args), executor.GetMode())
}

// ValidateRequiredFlags checks that all required flags are present and valid.
func ValidateRequiredFlags(cmd *cobra.Command, required []string) error {
	for _, flag := range required {
		if !cmd.Flags().Changed(flag) {
			return helpers.NewCliError(helpers.CodeMissingFlag, fmt.Sprintf("required flag '%s' not specified", flag))
		}

		if value, err := cmd.Flags().GetString(flag); err == nil && strings.TrimSpace(value) == "" {
			return helpers.NewCliError(helpers.CodeEmptyFlag, fmt.Sprintf("required flag '%s' cannot be empty", flag))
		}
	}
	return nil
}

// HandleCommonErrors reports err once in the command's mode and returns it as
// a CliError. JSON errors are written to the command's stdout so scripts read
// a single envelope; TUI errors go to stderr.
func HandleCommonErrors(cmd *cobra.Command, err error, mode models.Mode) error {
	if err == nil {
		return nil
	}
	cliErr := categorizeError(err)
	if cliErr == nil {
		cliErr = helpers.NewCliError(helpers.CodeCommand, err.Error()).WithCause(err)
	}
	if mode == models.ModeJSON {
		helpers.FprintError(cmd.OutOrStdout(), cliErr, mode)
	} else {
		helpers.FprintError(cmd.ErrOrStderr(), cliErr, mode)
	}
	return cliErr
}

// categorizeError converts errors to structured CLI errors
func categorizeError(err error) *helpers.CliError {
	var cliErr *helpers.CliError
	var validation *form.ValidationError
	var fieldErr *form.FieldError
	var netErr *api.NetworkError
	var httpErr *api.HTTPError
	switch {
	case errors.As(err, &cliErr):
		return cliErr
	case errors.Is(err, context.Canceled), errors.Is(err, huh.ErrUserAborted):
		return helpers.NewCliError(helpers.CodeCanceled, "Operation was canceled by user").WithCause(err)
	case errors.Is(err, admin.ErrNotConfirmed), errors.Is(err, helpers.ErrForceRequired):
		return helpers.NewCliError(helpers.CodeConfirmation, "Deletion was not confirmed", err.Error()).WithCause(err)
	case errors.As(err, &validation):
		return helpers.NewCliError(helpers.CodeValidation, "Required fields are missing", strings.Join(validation.Fields, ", ")).
			WithContext("fields", validation.Fields).
			WithCause(err)
	case errors.As(err, &fieldErr):
		return helpers.NewCliError(helpers.CodeValidation, "Invalid field value", fieldErr.Error()).
			WithContext("field", fieldErr.Field).
			WithCause(err)
	case errors.Is(err, api.ErrGroupNotFound):
		return helpers.NewCliError(helpers.CodeNotFound, "Group not found", err.Error()).WithCause(err)
	case errors.Is(err, admin.ErrRecordNotFound), errors.Is(err, api.ErrNotFound):
		return helpers.NewCliError(helpers.CodeNotFound, "Record not found", err.Error()).WithCause(err)
	case errors.As(err, &netErr) && netErr.Timeout, helpers.IsTimeoutError(err):
		return helpers.NewCliError(helpers.CodeTimeout, "Operation timed out", err.Error()).WithCause(err)
	case errors.Is(err, api.ErrNetwork):
		return helpers.NewCliError(helpers.CodeNetwork, "Network connection failed", err.Error()).WithCause(err)
	case errors.As(err, &httpErr):
		return helpers.NewCliError(helpers.CodeHTTP, "Portal API returned status "+strconv.Itoa(httpErr.Status), httpErr.Message).
			WithContext("status", httpErr.Status).
			WithCause(err)
	case errors.Is(err, api.ErrParse):
		return helpers.NewCliError(helpers.CodeParse, "Portal API returned an unexpected response", err.Error()).WithCause(err)
	default:
		return nil
	}
}
