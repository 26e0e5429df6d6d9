package telegram

import (
	"github.com/go-telegram/bot/models"

	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/domain"
)

// MainMenu is the one-time reply keyboard shown while the dialogue is in the
// choosing state.
func MainMenu() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{{
			{Text: domain.ChoiceFastBook},
			{Text: domain.ChoiceConsult},
		}},
		OneTimeKeyboard: true,
		ResizeKeyboard:  true,
	}
}

// RemoveKeyboard hides the reply keyboard once a flow has been entered.
func RemoveKeyboard() *models.ReplyKeyboardRemove {
	return &models.ReplyKeyboardRemove{RemoveKeyboard: true}
}
