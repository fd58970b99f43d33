package telegram

import (
	"github.com/go-telegram/bot/models"
	"github.com/rpggio/timesheet/internal/domain/user"
)

// identity converts a Bot API user to the domain identity.
func identity(u *models.User) user.Identity {
	return user.Identity{ID: u.ID, Username: u.Username, FirstName: u.FirstName, LastName: u.LastName}
}

// WebAppKeyboard returns a single-button keyboard that opens url.
func WebAppKeyboard(text, url string) models.ReplyMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard:       [][]models.KeyboardButton{{{Text: text, WebApp: &models.WebAppInfo{URL: url}}}},
		ResizeKeyboard: true,
	}
}
