// Package form holds a draft record while it is created or edited and
// guards its submission.
package form

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/techcollege/portal/cli/api"
	"github.com/techcollege/portal/pkg/logger"
)

// Mode is the form state: closed, or open for create or edit.
type Mode string

const (
	ModeClosed Mode = "closed"
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Form collects and validates a draft D for a record R.
type Form[R, D any] struct {
	schema   Schema[R, D]
	validate *validator.Validate

	mu         sync.Mutex
	mode       Mode
	draft      D
	editID     string
	session    uint64
	submitting bool
	lastErr    error
}

// New creates a closed form.
func New[R, D any](schema Schema[R, D]) *Form[R, D] {
	if schema == nil {
		panic("form: schema is required")
	}
	return &Form[R, D]{
		schema:   schema,
		validate: newValidator(),
		mode:     ModeClosed,
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Open starts editing existing, or creating a new record when existing is nil.
// Any previous draft is discarded.
func (f *Form[R, D]) Open(existing *R) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session++
	f.lastErr = nil
	if existing == nil {
		f.mode = ModeCreate
		f.draft = f.schema.Empty()
		f.editID = ""
		return
	}
	f.mode = ModeEdit
	f.draft = f.schema.FromRecord(*existing)
	f.editID = f.schema.ID(*existing)
}

// SetField applies one edit to the draft. A rejected value leaves the field
// unchanged.
func (f *Form[R, D]) SetField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode == ModeClosed {
		return ErrClosed
	}
	return f.schema.Set(&f.draft, name, value)
}

// Validate reports the fields that would block submission.
func (f *Form[R, D]) Validate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode == ModeClosed {
		return ErrClosed
	}
	return f.check(f.draft)
}

func (f *Form[R, D]) check(draft D) error {
	err := f.validate.Struct(draft)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Fields: fields}
}

// Submit validates the draft and sends it through m. An invalid draft never
// reaches m. On success the form closes; on failure it stays open with the
// draft intact so the user can resubmit.
func (f *Form[R, D]) Submit(ctx context.Context, m api.Mutator[R, D]) (R, error) {
	var zero R
	f.mu.Lock()
	if f.mode == ModeClosed {
		f.mu.Unlock()
		return zero, ErrClosed
	}
	if f.submitting {
		f.mu.Unlock()
		return zero, ErrSubmitInFlight
	}
	if err := f.check(f.draft); err != nil {
		f.lastErr = err
		f.mu.Unlock()
		return zero, err
	}
	f.submitting = true
	mode, draft, id, session := f.mode, f.draft, f.editID, f.session
	f.mu.Unlock()

	log := logger.FromContext(ctx).With("form_mode", mode)
	var (
		record R
		err    error
	)
	if mode == ModeEdit {
		record, err = m.Update(ctx, id, draft)
	} else {
		record, err = m.Create(ctx, draft)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		if f.session == session {
			f.lastErr = err
		}
		log.Warn("submission failed, keeping draft", "error", err)
		return zero, err
	}
	if f.session == session {
		f.closeLocked()
	}
	log.Debug("submission accepted")
	return record, nil
}

// Close discards the draft.
func (f *Form[R, D]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session++
	f.closeLocked()
}

func (f *Form[R, D]) closeLocked() {
	var zero D
	f.mode = ModeClosed
	f.draft = zero
	f.editID = ""
	f.lastErr = nil
}

func (f *Form[R, D]) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

func (f *Form[R, D]) IsOpen() bool {
	return f.Mode() != ModeClosed
}

// Draft returns a copy of the current draft.
func (f *Form[R, D]) Draft() D {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Values returns the draft as field name to text, in the form SetField accepts.
func (f *Form[R, D]) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.schema.Values(f.draft)
}

// EditID returns the identifier of the record being edited.
func (f *Form[R, D]) EditID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editID
}

func (f *Form[R, D]) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Err returns the last validation or submission failure of the open draft.
func (f *Form[R, D]) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Fields exposes the schema's field list to presenters.
func (f *Form[R, D]) Fields() []Field {
	return f.schema.Fields()
}
