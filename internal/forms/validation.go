package forms

import (
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var rules = validator.New(validator.WithRequiredStructEnabled())

// Errors is a form rejection: per-field messages plus an optional banner.
type Errors struct {
	Fields  map[string]string `json:"fields,omitempty"`
	Message string            `json:"message,omitempty"`
}

func (e *Errors) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	names := e.FieldNames()
	if len(names) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(names, ", ")
}

func (e *Errors) FieldNames() []string {
	if e == nil {
		return nil
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Validator struct {
	fields map[string]string
}

func NewValidator() *Validator {
	return &Validator{fields: make(map[string]string, 4)}
}

// Add records reason for field. The first reason recorded for a field is kept.
func (v *Validator) Add(field, reason string) {
	if v == nil {
		return
	}
	field = strings.TrimSpace(field)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return
	}
	if _, exists := v.fields[field]; exists {
		return
	}
	v.fields[field] = reason
}

func (v *Validator) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "is required")
	}
}

func (v *Validator) Email(field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		v.Add(field, "is required")
		return
	}
	if rules.Var(value, "email") != nil {
		v.Add(field, "must be a valid email address")
	}
}

func (v *Validator) Enum(field, value string, allowed []string) {
	value = strings.TrimSpace(value)
	if value == "" {
		v.Add(field, "is required")
		return
	}
	if slices.Contains(allowed, value) {
		return
	}
	v.Add(field, "must be one of "+strings.Join(allowed, ", "))
}

// FutureDate requires value to be set and strictly after now.
func (v *Validator) FutureDate(field string, value, now time.Time) {
	if value.IsZero() {
		v.Add(field, "is required")
		return
	}
	if !value.After(now) {
		v.Add(field, "must be in the future")
	}
}

func (v *Validator) Range(field string, value, min, max int) {
	if value < min || value > max {
		v.Add(field, "must be between "+strconv.Itoa(min)+" and "+strconv.Itoa(max))
	}
}

func (v *Validator) Check(ok bool, field, reason string) {
	if !ok {
		v.Add(field, reason)
	}
}

func (v *Validator) HasIssues() bool {
	return v != nil && len(v.fields) > 0
}

// Err returns nil when nothing was recorded.
func (v *Validator) Err() error {
	if !v.HasIssues() {
		return nil
	}
	fields := make(map[string]string, len(v.fields))
	for k, msg := range v.fields {
		fields[k] = msg
	}
	return &Errors{Fields: fields}
}

// FromServer maps a backend field-error map onto the form. Entries whose key is not one of
// known are folded into the banner message; fallback is used when nothing else is available.
func FromServer(fieldErrors map[string]string, known []string, message, fallback string) *Errors {
	out := &Errors{Fields: map[string]string{}}
	var unknown []string
	for field, msg := range fieldErrors {
		if slices.Contains(known, field) {
			out.Fields[field] = msg
			continue
		}
		unknown = append(unknown, msg)
	}
	sort.Strings(unknown)
	switch {
	case len(unknown) > 0:
		out.Message = strings.Join(unknown, "; ")
	case message != "":
		out.Message = message
	case len(out.Fields) == 0:
		out.Message = fallback
	}
	if len(out.Fields) == 0 {
		out.Fields = nil
	}
	return out
}
