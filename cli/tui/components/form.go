package components

import (
	"context"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/techcollege/portal/cli/form"
	"github.com/techcollege/portal/cli/tui/models"
)

// FieldValue is one edited field as text.
type FieldValue struct {
	Name  string
	Value string
}

// DraftForm renders a record draft as a huh form: text fields become inputs,
// long text a textarea, booleans a yes/no confirm. Inline validation uses the
// same rules as the draft itself.
type DraftForm struct {
	fields  []form.Field
	text    map[string]*string
	flags   map[string]*bool
	huhForm *huh.Form
}

// NewDraftForm builds a form for fields prefilled from initial.
func NewDraftForm(title string, fields []form.Field, initial map[string]string) *DraftForm {
	d := &DraftForm{
		fields: fields,
		text:   make(map[string]*string, len(fields)),
		flags:  make(map[string]*bool),
	}
	inputs := make([]huh.Field, 0, len(fields))
	for _, field := range fields {
		label := field.Label
		if field.Required {
			label += " *"
		}
		switch field.Kind {
		case form.KindBool:
			value, _ := strconv.ParseBool(initial[field.Name])
			d.flags[field.Name] = &value
			inputs = append(inputs, huh.NewConfirm().
				Title(label).
				Affirmative("Да").
				Negative("Нет").
				Value(d.flags[field.Name]))
		case form.KindLongText:
			value := initial[field.Name]
			d.text[field.Name] = &value
			inputs = append(inputs, huh.NewText().
				Title(label).
				Lines(4).
				Value(d.text[field.Name]).
				Validate(field.Check))
		default:
			value := initial[field.Name]
			d.text[field.Name] = &value
			inputs = append(inputs, huh.NewInput().
				Title(label).
				Value(d.text[field.Name]).
				Validate(field.Check))
		}
	}
	d.huhForm = huh.NewForm(huh.NewGroup(inputs...).Title(title)).
		WithShowHelp(true).
		WithTheme(huh.ThemeCharm())
	return d
}

// Values returns the edited fields in declaration order.
func (d *DraftForm) Values() []FieldValue {
	out := make([]FieldValue, 0, len(d.fields))
	for _, field := range d.fields {
		if flag, ok := d.flags[field.Name]; ok {
			out = append(out, FieldValue{Name: field.Name, Value: strconv.FormatBool(*flag)})
			continue
		}
		out = append(out, FieldValue{Name: field.Name, Value: *d.text[field.Name]})
	}
	return out
}

func (d *DraftForm) Init() tea.Cmd {
	return d.huhForm.Init()
}

// Update forwards msg to the huh form.
func (d *DraftForm) Update(msg tea.Msg) tea.Cmd {
	model, cmd := d.huhForm.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		d.huhForm = f
	}
	return cmd
}

func (d *DraftForm) View() string {
	return d.huhForm.View()
}

func (d *DraftForm) State() huh.FormState {
	return d.huhForm.State
}

// FormWrapper runs a DraftForm as a standalone program.
type FormWrapper struct {
	models.BaseModel
	draft     *DraftForm
	canceled  bool
	completed bool
}

func NewFormWrapper(ctx context.Context, draft *DraftForm) *FormWrapper {
	return &FormWrapper{
		BaseModel: models.NewBaseModel(ctx),
		draft:     draft,
	}
}

func (f *FormWrapper) Init() tea.Cmd {
	return f.draft.Init()
}

func (f *FormWrapper) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+c", "esc":
			f.canceled = true
			f.Quit()
			return f, tea.Quit
		}
	}
	f.BaseModel.Update(msg)
	cmd := f.draft.Update(msg)
	switch f.draft.State() {
	case huh.StateCompleted:
		f.completed = true
		return f, tea.Quit
	case huh.StateAborted:
		f.canceled = true
		return f, tea.Quit
	}
	return f, cmd
}

func (f *FormWrapper) View() string {
	if f.IsQuitting() {
		return ""
	}
	return f.draft.View()
}

func (f *FormWrapper) IsCanceled() bool {
	return f.canceled
}

func (f *FormWrapper) IsCompleted() bool {
	return f.completed
}

// Values returns the submitted fields.
func (f *FormWrapper) Values() []FieldValue {
	return f.draft.Values()
}
