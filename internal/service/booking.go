package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/config"
	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/domain"
)

// Appender persists one completed booking. Append-only: rows are never
// updated or deleted.
type Appender interface {
	Append(ctx context.Context, draft domain.BookingDraft, createdAt time.Time) error
}

// Notifier announces a new booking to the admin channel.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// BookingService is the single funnel a completed draft goes through:
// validation, sheet append, admin notification.
type BookingService struct {
	appender Appender
	notifier Notifier
	loc      *time.Location
	now      func() time.Time
}

func NewBookingService(appender Appender, notifier Notifier, loc *time.Location) *BookingService {
	return &BookingService{
		appender: appender,
		notifier: notifier,
		loc:      loc,
		now:      time.Now,
	}
}

// Submit validates the draft, appends it to storage and fires the admin
// notification. No notification is sent when persistence failed; a failed
// notification is logged, never retried and never reported to the user.
func (s *BookingService) Submit(ctx context.Context, draft domain.BookingDraft) error {
	now := s.now().In(s.loc)

	validated, err := domain.Validate(draft, s.loc, now)
	if err != nil {
		return err
	}

	if err := s.appender.Append(ctx, validated, now); err != nil {
		return fmt.Errorf("append booking: %w", err)
	}

	if err := s.notifier.Notify(ctx, notificationText(validated, now)); err != nil {
		slog.Error("booking notification failed", "error", err, "source", validated.Source)
	}
	return nil
}

func notificationText(d domain.BookingDraft, now time.Time) string {
	return fmt.Sprintf(
		"🤖 НОВАЯ ЗАЯВКА через %s!\n"+
			"Имя: %s\n"+
			"Телефон: %s\n"+
			"Услуга: %s\n"+
			"Дата: %s\n"+
			"Мастер: %s\n"+
			"Комментарий: %s\n"+
			"Время: %s",
		sourceLabel(d.Source),
		orDash(d.Name),
		orDash(d.Phone),
		orDash(d.Service),
		orDash(d.DateTime),
		orDash(d.Master),
		orDash(d.Comment),
		now.Format(config.NotifyTimestampLayout),
	)
}

func sourceLabel(source string) string {
	switch source {
	case domain.SourceTelegram:
		return "Telegram бота"
	case domain.SourceWeb:
		return "сайта"
	case domain.SourceAssistant:
		return "OpenAI Assistant"
	default:
		return orDash(source)
	}
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
