package miniapp

import "errors"

var (
	// ErrNoProjectSelected is returned when a report is submitted without a project.
	ErrNoProjectSelected = errors.New("no project selected")
	// ErrUnknownProject is returned when a selection points outside the catalog.
	ErrUnknownProject = errors.New("unknown project")
	// ErrSessionClosed is returned once a payload was sent and the view closed.
	ErrSessionClosed = errors.New("session closed")
)
