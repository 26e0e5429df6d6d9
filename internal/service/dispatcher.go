package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/domain"
)

// SaveBookingFunction is the assistant tool the dispatcher understands. Its
// argument schema matches domain.BookingPayload (datetime, master_category,
// comments optional).
const SaveBookingFunction = "save_booking_data"

type toolOutput struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ToolDispatcher maps assistant-issued tool calls onto local operations and
// packages their results for run resumption.
type ToolDispatcher struct {
	booking *BookingService
}

func NewToolDispatcher(booking *BookingService) *ToolDispatcher {
	return &ToolDispatcher{booking: booking}
}

// Dispatch executes every pending call in order. Unknown function names get
// an explicit unsupported payload instead of being dropped, so the assistant
// can react.
func (d *ToolDispatcher) Dispatch(ctx context.Context, calls []domain.ToolCall) []domain.ToolCallResult {
	results := make([]domain.ToolCallResult, 0, len(calls))
	for _, call := range calls {
		results = append(results, domain.ToolCallResult{
			ToolCallID: call.ID,
			Output:     d.execute(ctx, call),
		})
	}
	return results
}

func (d *ToolDispatcher) execute(ctx context.Context, call domain.ToolCall) string {
	if call.Function != SaveBookingFunction {
		slog.Warn("unsupported tool call", "function", call.Function, "tool_call_id", call.ID)
		return marshalToolOutput(toolOutput{Success: false, Error: "unsupported function: " + call.Function})
	}

	var payload domain.BookingPayload
	if err := json.Unmarshal([]byte(call.Arguments), &payload); err != nil {
		slog.Error("parse tool call arguments", "tool_call_id", call.ID, "error", err)
		return marshalToolOutput(toolOutput{Success: false, Error: "Некорректные данные заявки."})
	}

	draft := payload.ToDraft()
	draft.Source = domain.SourceAssistant

	if err := d.booking.Submit(ctx, draft); err != nil {
		slog.Error("tool call booking failed", "tool_call_id", call.ID, "error", err)
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			return marshalToolOutput(toolOutput{Success: false, Error: vErr.UserMessage()})
		}
		return marshalToolOutput(toolOutput{Success: false, Error: "Не удалось сохранить заявку. Попробуйте позже."})
	}
	return marshalToolOutput(toolOutput{Success: true})
}

func marshalToolOutput(out toolOutput) string {
	raw, err := json.Marshal(out)
	if err != nil {
		return `{"success":false,"error":"internal error"}`
	}
	return string(raw)
}
