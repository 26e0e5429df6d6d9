package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// RateLimit returns middleware enforcing a per-chat message budget over a
// sliding one-minute window, tracked in memory.
func RateLimit(limit int) bot.Middleware {
	var (
		mu       sync.Mutex
		requests = make(map[int64][]time.Time)
	)
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message == nil {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID
			now := time.Now()

			mu.Lock()
			recent := requests[chatID][:0]
			for _, t := range requests[chatID] {
				if now.Sub(t) < time.Minute {
					recent = append(recent, t)
				}
			}
			limited := len(recent) >= limit
			if !limited {
				recent = append(recent, now)
			}
			if len(recent) == 0 {
				delete(requests, chatID)
			} else {
				requests[chatID] = recent
			}
			mu.Unlock()

			if limited {
				slog.Debug("rate limited", "chat_id", chatID)
				b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chatID,
					Text:   "⏳ Слишком много запросов. Подождите немного.",
				})
				return
			}

			next(ctx, b, update)
		}
	}
}
