package project

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	MinAbbrLen = 2
	MinNameLen = 3
)

// Field names a project input field.
type Field string

const (
	FieldAbbr Field = "abbr"
	FieldFull Field = "full"
)

// FieldError ties a validation failure to the input field it belongs to.
type FieldError struct {
	Field Field
	Err   error
}

func (e FieldError) Error() string {
	return string(e.Field) + ": " + e.Err.Error()
}

func (e FieldError) Unwrap() error { return e.Err }

// ValidationErrors collects every failed check of a project registration.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Error())
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes the field errors so errors.Is matches any of the sentinels.
func (v ValidationErrors) Unwrap() []error {
	out := make([]error, 0, len(v))
	for _, fe := range v {
		out = append(out, fe)
	}
	return out
}

// For returns the errors reported for a single field.
func (v ValidationErrors) For(field Field) []error {
	var out []error
	for _, fe := range v {
		if fe.Field == field {
			out = append(out, fe.Err)
		}
	}
	return out
}

// NormalizeAbbr trims and upper-cases an abbreviation.
func NormalizeAbbr(abbr string) string {
	return strings.ToUpper(strings.TrimSpace(abbr))
}

// ValidateNew checks a new project against the existing catalog. All checks
// run, so every applicable error is reported at once. Collisions are reported
// for the first colliding entry only, and an abbreviation match on that entry
// wins over a name match.
func ValidateNew(abbr, full string, existing Catalog) error {
	abbr = strings.TrimSpace(abbr)
	full = strings.TrimSpace(full)

	var errs ValidationErrors
	if utf8.RuneCountInString(abbr) < MinAbbrLen {
		errs = append(errs, FieldError{Field: FieldAbbr, Err: ErrAbbrTooShort})
	}
	if utf8.RuneCountInString(full) < MinNameLen {
		errs = append(errs, FieldError{Field: FieldFull, Err: ErrNameTooShort})
	}
	if dup, ok := existing.FindDuplicate(abbr, full); ok {
		if strings.EqualFold(dup.Abbr, abbr) {
			errs = append(errs, FieldError{Field: FieldAbbr, Err: ErrDuplicateAbbr})
		} else {
			errs = append(errs, FieldError{Field: FieldFull, Err: ErrDuplicateName})
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// AsValidationErrors extracts ValidationErrors from err, if present.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
