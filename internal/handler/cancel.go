package handler

import (
	"context"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/domain"
	tg "github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/telegram"
)

// handleCancel aborts the dialogue from any state, discarding the draft.
func (h *Handler) handleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID
	h.sessions.WithSession(strconv.FormatInt(chatID, 10), func(sess *domain.ConversationSession) {
		sess.State = domain.StateIdle
		sess.Draft = domain.BookingDraft{}
	})

	tg.SendText(ctx, b, chatID, "Диалог прерван. Вы можете начать сначала с /start", tg.RemoveKeyboard())
}
