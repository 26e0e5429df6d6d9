package config

import "time"

const (
	// Assistant run polling
	RunPollInterval = 2 * time.Second
	MaxPollAttempts = 60

	// Tool-call round-trips allowed within one user turn
	MaxToolRounds = 5

	// Per-call timeout for assistant API requests
	AssistantRequestTimeout = 20 * time.Second

	// Thread history window when extracting the assistant reply
	HistoryLimit = 30

	// Timestamp written into each sheet row
	SheetTimestampLayout = "2006-01-02 15:04"

	// Notification timestamp shown to the admin
	NotifyTimestampLayout = "2006-01-02 15:04:05"

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Rate limit (messages per minute per chat)
	RateLimitPerChat = 20

	// HTTP server shutdown grace period
	ShutdownTimeout = 10 * time.Second
)
