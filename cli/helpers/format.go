package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/techcollege/portal/cli/tui/models"
	"github.com/techcollege/portal/cli/tui/styles"
)

// errorEnvelope is printed instead of an Envelope when a command fails.
type errorEnvelope struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

var errorIcons = map[string]string{
	CodeNetwork:    "⚡",
	CodeNotFound:   "?",
	CodeTimeout:    "⏱",
	CodeValidation: "!",
}

// FormatError renders err for the given output mode.
func FormatError(err error, mode models.Mode) string {
	if err == nil {
		return ""
	}
	var cliErr *CliError
	isCli := errors.As(err, &cliErr)
	switch mode {
	case models.ModeJSON:
		env := errorEnvelope{Error: err.Error()}
		if isCli {
			env = errorEnvelope{Error: cliErr.Message, Code: cliErr.Code, Details: cliErr.Details}
		}
		raw, mErr := json.MarshalIndent(env, "", "  ")
		if mErr != nil {
			return `{"error": "JSON marshaling failed"}`
		}
		return string(raw)
	case models.ModeTUI:
		if !isCli {
			return "✖ " + styles.ErrorStyle.Render(err.Error())
		}
		icon, ok := errorIcons[cliErr.Code]
		if !ok {
			icon = "✖"
		}
		out := icon + " " + styles.ErrorStyle.Render(cliErr.Message)
		if cliErr.Details != "" {
			out += "\n" + styles.HelpStyle.Italic(true).Render("Details: "+cliErr.Details)
		}
		return out
	default:
		return err.Error()
	}
}

// FprintError writes the formatted error and a newline to w.
func FprintError(w io.Writer, err error, mode models.Mode) {
	if err != nil {
		fmt.Fprintln(w, FormatError(err, mode))
	}
}

// Truncate shortens s to at most n runes, ending with "…" when cut.
func Truncate(s string, n int) string {
	switch {
	case n <= 0:
		return ""
	case utf8.RuneCountInString(s) <= n:
		return s
	case n == 1:
		return string([]rune(s)[:1])
	}
	return string([]rune(s)[:n-1]) + "…"
}

func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
