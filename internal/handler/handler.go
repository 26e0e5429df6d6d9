package handler

import (
	"github.com/go-telegram/bot"

	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/config"
	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/service"
)

// Handler holds all dependencies needed by the bot command and text handlers.
type Handler struct {
	bot          *bot.Bot
	cfg          *config.Config
	sessions     *service.SessionStore
	conversation *service.ConversationService
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot          *bot.Bot
	Cfg          *config.Config
	Sessions     *service.SessionStore
	Conversation *service.ConversationService
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:          deps.Bot,
		cfg:          deps.Cfg,
		sessions:     deps.Sessions,
		conversation: deps.Conversation,
	}
}
