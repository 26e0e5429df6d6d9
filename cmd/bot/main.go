package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/config"
	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/handler"
	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/middleware"
	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/repository"
	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/server"
	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/service"
	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/telegram"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("failed to resolve timezone", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Google Sheets persistence
	sheetsRepo, err := repository.NewSheetsRepo(ctx, cfg.GoogleCredentialsFile, cfg.GoogleSheetID)
	if err != nil {
		slog.Error("failed to init sheets repository", "error", err)
		os.Exit(1)
	}

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.RateLimit(config.RateLimitPerChat),
		),
	}
	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Initialize services
	notifier := telegram.NewAdminNotifier(b, cfg.AdminChatID)
	bookingService := service.NewBookingService(sheetsRepo, notifier, loc)
	assistantClient := service.NewAssistantClient(cfg.OpenAIKey, cfg.OpenAIBaseURL)
	coordinator := service.NewCoordinator(assistantClient, cfg.OpenAIAssistantID)
	dispatcher := service.NewToolDispatcher(bookingService)
	consultService := service.NewConsultService(coordinator, dispatcher)
	conversationService := service.NewConversationService(bookingService, consultService, loc)
	sessions := service.NewSessionStore()

	// Initialize handler
	h := handler.New(handler.Deps{
		Bot:          b,
		Cfg:          cfg,
		Sessions:     sessions,
		Conversation: conversationService,
	})
	h.Register()

	// Route all remaining private text messages into the state machine
	b.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		if len(update.Message.Text) > 0 && update.Message.Text[0] == '/' {
			return
		}
		h.HandleText(ctx, b, update)
	})

	// Start web API
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: server.New(bookingService, consultService),
	}
	go func() {
		slog.Info("starting web api", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("web api stopped", "error", err)
			stop()
		}
	}()

	// Start bot
	slog.Info("starting bot")
	b.Start(ctx)

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("web api shutdown failed", "error", err)
	}
	slog.Info("stopped gracefully")
}
