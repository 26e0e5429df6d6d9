package domain

import (
	"errors"
	"fmt"
)

// Transport errors of the assistant run lifecycle. All are recoverable at the
// turn level: no partial state is persisted and the user may retry.
var (
	ErrThreadCreate       = errors.New("assistant thread creation failed")
	ErrMessagePost        = errors.New("assistant message post failed")
	ErrRunStart           = errors.New("assistant run start failed")
	ErrPollFailed         = errors.New("assistant run poll failed")
	ErrPollingExhausted   = errors.New("assistant run polling attempts exhausted")
	ErrHistoryFetch       = errors.New("assistant history fetch failed")
	ErrToolSubmit         = errors.New("assistant tool output submission failed")
	ErrToolRoundsExceeded = errors.New("assistant tool call round-trip limit exceeded")
)

type ValidationKind string

const (
	MissingField  ValidationKind = "missing_field"
	InvalidFormat ValidationKind = "invalid_format"
	PastDateTime  ValidationKind = "past_datetime"
)

// ValidationError reports why a booking draft was rejected. Error is the
// internal description; UserMessage is what the user sees.
type ValidationError struct {
	Kind  ValidationKind
	Field string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("missing required field: %s", e.Field)
	case InvalidFormat:
		return fmt.Sprintf("invalid date/time format in field: %s", e.Field)
	case PastDateTime:
		return fmt.Sprintf("date/time is not in the future in field: %s", e.Field)
	default:
		return fmt.Sprintf("invalid booking field: %s", e.Field)
	}
}

// UserMessage returns the plain-language text shown in chat and API responses.
func (e *ValidationError) UserMessage() string {
	switch e.Kind {
	case MissingField:
		return "Не заполнено обязательное поле: " + e.Field
	case InvalidFormat:
		return "Дата должна быть в формате ДД.ММ.ГГГГ ЧЧ:ММ (например, 05.05.2025 14:30)"
	case PastDateTime:
		return "Укажите дату и время в будущем."
	default:
		return "Некорректные данные заявки."
	}
}
