package service

import (
	"context"
	"fmt"

	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/config"
	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/domain"
)

// FallbackReply is shown when a run completes without an assistant message,
// which happens when the turn consisted purely of a tool call.
const FallbackReply = "Готово! Ваша заявка сформирована. Если остались вопросы — задайте их, пожалуйста."

// ConsultService runs the full agent loop for one user turn: a coordinator
// exchange plus tool-call round-trips, bounded by maxRounds so a misbehaving
// assistant cannot spin the loop forever.
type ConsultService struct {
	coordinator *Coordinator
	dispatcher  *ToolDispatcher
	maxRounds   int
}

func NewConsultService(coordinator *Coordinator, dispatcher *ToolDispatcher) *ConsultService {
	return &ConsultService{
		coordinator: coordinator,
		dispatcher:  dispatcher,
		maxRounds:   config.MaxToolRounds,
	}
}

// Ask sends one user message and drives the run to a final reply. The
// returned thread id must be persisted by the caller for the next turn; it is
// valid even when err is non-nil, so an already-created thread survives a
// failed turn.
func (s *ConsultService) Ask(ctx context.Context, threadID, text string) (reply, newThreadID string, err error) {
	ex, err := s.coordinator.RunTurn(ctx, threadID, text)
	if err != nil {
		return "", ex.ThreadID, err
	}

	for round := 0; ex.Status == domain.StatusRequiresAction; round++ {
		if round >= s.maxRounds {
			return "", ex.ThreadID, domain.ErrToolRoundsExceeded
		}
		results := s.dispatcher.Dispatch(ctx, ex.ToolCalls)
		ex, err = s.coordinator.ResumeWithToolResults(ctx, ex.ThreadID, ex.RunID, results)
		if err != nil {
			return "", ex.ThreadID, err
		}
	}

	if ex.Status != domain.StatusCompleted {
		return "", ex.ThreadID, fmt.Errorf("assistant run ended with status %s", ex.Status)
	}
	if ex.Reply == "" {
		return FallbackReply, ex.ThreadID, nil
	}
	return ex.Reply, ex.ThreadID, nil
}
