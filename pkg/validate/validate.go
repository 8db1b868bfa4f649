// Package validate holds the input checks applied before anything is stored:
// required text must be present and numbers must be finite.
package validate

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

var ErrInvalid = errors.New("invalid input")

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Errors collects field errors. The zero value is ready to use.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i := range e {
		parts[i] = e[i].Error()
	}
	return strings.Join(parts, "; ")
}

func (e Errors) Is(target error) bool {
	return target == ErrInvalid
}

// Err returns nil when no errors were collected.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e *Errors) Add(field, reason string) {
	*e = append(*e, FieldError{Field: field, Reason: reason})
}

func (e *Errors) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.Add(field, "is required")
	}
}

// Number rejects NaN and infinite values. nil is accepted.
func (e *Errors) Number(field string, value *float64) {
	if value == nil {
		return
	}
	if math.IsNaN(*value) || math.IsInf(*value, 0) {
		e.Add(field, "is not a number")
	}
}

// Numbers checks the values in name order.
func (e *Errors) Numbers(prefix string, values map[string]*float64) {
	names := lo.Keys(values)
	slices.Sort(names)
	for _, name := range names {
		e.Number(prefix+"."+name, values[name])
	}
}

func (e *Errors) OneOf(field, value string, allowed ...string) {
	for _, a := range allowed {
		if a == value {
			return
		}
	}
	e.Add(field, fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")))
}

// ParseNumber parses an optional numeric string. An empty string yields nil.
func ParseNumber(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: %q is not a number", ErrInvalid, s)
	}
	return &v, nil
}
