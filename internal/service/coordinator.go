package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/config"
	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/domain"
)

// Coordinator manages one assistant exchange: thread acquisition, message
// post, run start, polling to a terminal status and tool-call suspension.
type Coordinator struct {
	client       *AssistantClient
	assistantID  string
	pollInterval time.Duration
	maxAttempts  int
	historyLimit int
}

func NewCoordinator(client *AssistantClient, assistantID string) *Coordinator {
	return &Coordinator{
		client:       client,
		assistantID:  assistantID,
		pollInterval: config.RunPollInterval,
		maxAttempts:  config.MaxPollAttempts,
		historyLimit: config.HistoryLimit,
	}
}

// RunTurn posts userText to the thread (creating the thread when threadID is
// empty), starts a run and polls it to a terminal status. A requires_action
// exchange carries the pending tool calls; the caller must eventually feed
// their results to ResumeWithToolResults.
func (c *Coordinator) RunTurn(ctx context.Context, threadID, userText string) (domain.Exchange, error) {
	if threadID == "" {
		id, err := c.client.CreateThread(ctx)
		if err != nil {
			return domain.Exchange{}, fmt.Errorf("%w: %v", domain.ErrThreadCreate, err)
		}
		threadID = id
	}

	if err := c.client.AddMessage(ctx, threadID, userText); err != nil {
		return domain.Exchange{ThreadID: threadID}, fmt.Errorf("%w: %v", domain.ErrMessagePost, err)
	}

	runID, err := c.client.StartRun(ctx, threadID, c.assistantID)
	if err != nil {
		return domain.Exchange{ThreadID: threadID}, fmt.Errorf("%w: %v", domain.ErrRunStart, err)
	}

	return c.awaitRun(ctx, threadID, runID)
}

// ResumeWithToolResults submits the collected tool outputs and re-enters the
// poll loop. The resumed run may suspend on requires_action again; callers
// must treat resume as re-entrant, not as a one-shot call.
func (c *Coordinator) ResumeWithToolResults(ctx context.Context, threadID, runID string, results []domain.ToolCallResult) (domain.Exchange, error) {
	if err := c.client.SubmitToolOutputs(ctx, threadID, runID, results); err != nil {
		return domain.Exchange{ThreadID: threadID, RunID: runID}, fmt.Errorf("%w: %v", domain.ErrToolSubmit, err)
	}
	return c.awaitRun(ctx, threadID, runID)
}

// awaitRun polls the run at a fixed interval up to the attempt budget. A poll
// transport error aborts the turn immediately; exhausting the budget yields
// ErrPollingExhausted, which the caller may answer by retrying the whole turn.
func (c *Coordinator) awaitRun(ctx context.Context, threadID, runID string) (domain.Exchange, error) {
	ex := domain.Exchange{ThreadID: threadID, RunID: runID, Status: domain.StatusInProgress}

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		state, err := c.client.GetRun(ctx, threadID, runID)
		if err != nil {
			return ex, fmt.Errorf("%w: %v", domain.ErrPollFailed, err)
		}

		if state.Status.Terminal() {
			ex.Status = state.Status
			switch state.Status {
			case domain.StatusRequiresAction:
				ex.ToolCalls = state.ToolCalls
				return ex, nil
			case domain.StatusCompleted:
				return c.fetchReply(ctx, ex)
			default: // failed, cancelled
				return ex, nil
			}
		}

		select {
		case <-ctx.Done():
			return ex, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}

	return ex, domain.ErrPollingExhausted
}

// fetchReply loads the recent thread history and extracts the newest
// assistant-authored message. The run itself has already succeeded, so a
// history failure is surfaced as ErrHistoryFetch next to the completed
// exchange rather than being conflated with run failure.
func (c *Coordinator) fetchReply(ctx context.Context, ex domain.Exchange) (domain.Exchange, error) {
	history, err := c.client.ListMessages(ctx, ex.ThreadID, c.historyLimit)
	if err != nil {
		return ex, fmt.Errorf("%w: %v", domain.ErrHistoryFetch, err)
	}
	ex.History = history
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "assistant" && history[i].Content != "" {
			ex.Reply = history[i].Content
			break
		}
	}
	return ex, nil
}
