package views

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows model full-screen until it quits or ctx is canceled.
func Run(ctx context.Context, model tea.Model) (tea.Model, error) {
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return final, fmt.Errorf("failed to run TUI: %w", err)
	}
	return final, nil
}

// RunInline runs a short-lived model, such as a form, without the alternate
// screen.
func RunInline(ctx context.Context, model tea.Model) (tea.Model, error) {
	p := tea.NewProgram(model, tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return final, fmt.Errorf("failed to run TUI: %w", err)
	}
	return final, nil
}
