package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/domain"
	tg "github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/telegram"
)

// HandleText feeds one private text message into the user's conversation
// state machine. The session lock is held for the whole turn, so two
// concurrent messages from the same user cannot race; other users proceed
// independently on their own sessions.
func (h *Handler) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.Chat.Type != "private" || strings.HasPrefix(msg.Text, "/") {
		return
	}

	chatID := msg.Chat.ID
	var (
		reply string
		state domain.ConversationState
	)
	h.sessions.WithSession(strconv.FormatInt(chatID, 10), func(sess *domain.ConversationSession) {
		if sess.State == domain.StateConsult {
			stop := tg.StartTyping(ctx, b, chatID)
			defer stop()
		}
		reply = h.conversation.Advance(ctx, sess, msg.Text)
		state = sess.State
	})

	var markup models.ReplyMarkup
	switch state {
	case domain.StateChoosing:
		markup = tg.MainMenu()
	case domain.StateName, domain.StateConsult:
		markup = tg.RemoveKeyboard()
	}

	tg.SendText(ctx, b, chatID, reply, markup)
}
