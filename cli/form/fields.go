package form

import (
	"strconv"
	"strings"
)

// Kind tells presenters which input widget a field needs.
type Kind string

const (
	KindText     Kind = "text"
	KindLongText Kind = "long_text"
	KindBool     Kind = "bool"
	KindOrder    Kind = "order"
)

// Field describes one editable draft attribute. Name matches the JSON name.
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
}

// Check reports whether value would be accepted for the field and pass
// required-field validation. Presenters use it for inline feedback.
func (f Field) Check(value string) error {
	switch f.Kind {
	case KindOrder:
		_, err := parseOrder(f.Name, value)
		return err
	case KindBool:
		_, err := parseBool(f.Name, value)
		return err
	}
	if f.Required && strings.TrimSpace(value) == "" {
		return &FieldError{Field: f.Name, Value: value, Reason: "is required"}
	}
	return nil
}

// MinOrder is the smallest display order a record may carry.
const MinOrder = 1

func parseOrder(field, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, &FieldError{Field: field, Value: value, Reason: "is not an integer"}
	}
	if n < MinOrder {
		return 0, &FieldError{Field: field, Value: value, Reason: "must be at least 1"}
	}
	return n, nil
}

func parseBool(field, value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "y", "on", "да":
		return true, nil
	case "false", "0", "no", "n", "off", "нет", "":
		return false, nil
	default:
		return false, &FieldError{Field: field, Value: value, Reason: "is not a boolean"}
	}
}
