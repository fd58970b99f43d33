package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrAbbrTooShort indicates the abbreviation is empty or shorter than MinAbbrLen.
	ErrAbbrTooShort = errors.New("abbreviation too short")
	// ErrNameTooShort indicates the full name is empty or shorter than MinNameLen.
	ErrNameTooShort = errors.New("full name too short")
	// ErrDuplicateAbbr indicates another project already uses the abbreviation.
	ErrDuplicateAbbr = errors.New("abbreviation already exists")
	// ErrDuplicateName indicates another project already uses the full name.
	ErrDuplicateName = errors.New("full name already exists")
)
