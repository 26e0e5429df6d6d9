package handler

import (
	"github.com/go-telegram/bot"
)

// Register registers the command handlers on the bot instance. Plain text
// messages are routed through HandleText by the default handler in main.
func (h *Handler) Register() {
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypePrefix, h.handleCancel)
}
