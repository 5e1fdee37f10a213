// Package validation reports input problems found before any backend call is made.
package validation

import (
	"errors"
	"strings"
)

// Problem is one invalid or missing field.
type Problem struct {
	Field   string
	Message string
}

// Error lists every problem found in one form.
type Error struct {
	Problems []Problem
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		if p.Field == "" {
			parts = append(parts, p.Message)
			continue
		}
		parts = append(parts, p.Field+": "+p.Message)
	}
	return strings.Join(parts, "; ")
}

// Has reports whether field has a problem.
func (e *Error) Has(field string) bool {
	for _, p := range e.Problems {
		if p.Field == field {
			return true
		}
	}
	return false
}

// New returns an Error with a single problem.
func New(field, message string) *Error {
	return &Error{Problems: []Problem{{Field: field, Message: message}}}
}

// As returns the *Error inside err, if any.
func As(err error) (*Error, bool) {
	var v *Error
	ok := errors.As(err, &v)
	return v, ok
}

// Builder accumulates problems. The zero value is ready to use.
type Builder struct {
	problems []Problem
}

// Require records a problem when value is blank.
func (b *Builder) Require(field, value string) {
	if strings.TrimSpace(value) == "" {
		b.Add(field, "is required")
	}
}

// Check records message for field when ok is false.
func (b *Builder) Check(ok bool, field, message string) {
	if !ok {
		b.Add(field, message)
	}
}

// Add records a problem unconditionally.
func (b *Builder) Add(field, message string) {
	b.problems = append(b.problems, Problem{Field: field, Message: message})
}

// Err returns nil when no problems were recorded.
func (b *Builder) Err() error {
	if len(b.problems) == 0 {
		return nil
	}
	return &Error{Problems: append([]Problem(nil), b.problems...)}
}
