package handler

import (
	"context"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/domain"
	tg "github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/telegram"
)

const welcomeText = "Здравствуйте! Добро пожаловать в салон красоты ArtBeauty. " +
	"Чем могу помочь вам сегодня? Рассказать о наших услугах, ценах или хотите записаться на процедуру?"

// handleStart resets the dialogue to the main menu. Re-entry mid-flow
// discards any partially filled draft; the assistant thread survives so a
// consultation can be picked up later.
func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID
	h.sessions.WithSession(strconv.FormatInt(chatID, 10), func(sess *domain.ConversationSession) {
		sess.State = domain.StateChoosing
		sess.Draft = domain.BookingDraft{}
	})

	tg.SendText(ctx, b, chatID, welcomeText, tg.MainMenu())
}
