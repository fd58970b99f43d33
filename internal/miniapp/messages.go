package miniapp

import (
	"errors"

	"github.com/rpggio/timesheet/internal/domain/project"
)

// Message returns the user-facing text for a validation error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrNoProjectSelected):
		return "Выберите проект"
	case errors.Is(err, project.ErrAbbrTooShort):
		return "Минимум 2 символа"
	case errors.Is(err, project.ErrNameTooShort):
		return "Минимум 3 символа"
	case errors.Is(err, project.ErrDuplicateAbbr):
		return "Такая аббревиатура уже существует"
	case errors.Is(err, project.ErrDuplicateName):
		return "Такое название уже существует"
	default:
		return "Ошибка"
	}
}
