// Package validate carries per-field input errors from handlers to the
// error writer.
package validate

import "strings"

// ErrField names a single rejected input field.
type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string {
	parts := make([]string, len(e))
	for i, ef := range e {
		parts[i] = ef.Field + ": " + ef.Msg
	}
	return strings.Join(parts, "; ")
}

// Required reports a missing or blank value, nil when present.
func Required(field, value string) *ErrField {
	if strings.TrimSpace(value) == "" {
		return &ErrField{Field: field, Msg: "required"}
	}
	return nil
}
