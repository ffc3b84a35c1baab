package models

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Mode is how a command presents its result.
type Mode string

const (
	// ModeTUI renders interactive bubbletea views
	ModeTUI Mode = "tui"
	// ModeJSON writes machine-readable envelopes to stdout
	ModeJSON Mode = "json"
)

// BaseModel carries what every view needs: the command context and the quit
// state.
type BaseModel struct {
	ctx      context.Context
	quitting bool
}

func NewBaseModel(ctx context.Context) BaseModel {
	return BaseModel{ctx: ctx}
}

// Context returns the context requests should be issued with.
func (m BaseModel) Context() context.Context {
	return m.ctx
}

func (m BaseModel) IsQuitting() bool {
	return m.quitting
}

func (m *BaseModel) Quit() {
	m.quitting = true
}

// Update quits on ctrl+c. Other keys are left to the view, since letters may
// be typed into inputs.
func (m *BaseModel) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		m.Quit()
		return tea.Quit
	}
	return nil
}
