package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
)

// AdminNotifier sends booking announcements to the admin service chat.
// Disabled when no admin chat id is configured.
type AdminNotifier struct {
	bot    *bot.Bot
	chatID int64
}

func NewAdminNotifier(b *bot.Bot, chatID int64) *AdminNotifier {
	return &AdminNotifier{bot: b, chatID: chatID}
}

func (n *AdminNotifier) Notify(ctx context.Context, text string) error {
	if n.chatID == 0 {
		return nil
	}

	if len([]rune(text)) > MaxMessageLen {
		text = string([]rune(text)[:MaxMessageLen-20]) + "\n\n... (обрезано)"
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   text,
	}); err != nil {
		return fmt.Errorf("send admin notification: %w", err)
	}
	return nil
}
