package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/domain"
)

// fakeAppender records appended bookings and optionally fails.
type fakeAppender struct {
	mu    sync.Mutex
	rows  []domain.BookingDraft
	fail  bool
}

func (a *fakeAppender) Append(_ context.Context, draft domain.BookingDraft, _ time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fail {
		return errors.New("sheet unavailable")
	}
	a.rows = append(a.rows, draft)
	return nil
}

func (a *fakeAppender) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.rows)
}

// fakeNotifier records notification texts and optionally fails.
type fakeNotifier struct {
	mu    sync.Mutex
	texts []string
	fail  bool
}

func (n *fakeNotifier) Notify(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("notification channel down")
	}
	n.texts = append(n.texts, text)
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.texts)
}

func newTestBooking(appender *fakeAppender, notifier *fakeNotifier) *BookingService {
	svc := NewBookingService(appender, notifier, time.UTC)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}
