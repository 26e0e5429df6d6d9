package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/domain"
)

// Consulter handles free-form consultation turns against the assistant.
type Consulter interface {
	Ask(ctx context.Context, threadID, text string) (reply, newThreadID string, err error)
}

// Replies of the structured booking dialogue.
const (
	replyChooseOption   = "Пожалуйста, выберите одну из опций."
	replyAskName        = "Давайте быстро вас запишем! Как вас зовут?"
	replyAskPhone       = "Ваш телефон?"
	replyAskService     = "Какая услуга интересует?"
	replyAskDate        = "На какую дату и время вас записать? Формат: ДД.ММ.ГГГГ ЧЧ:ММ (например, 05.05.2025 14:30)"
	replyAskMaster      = "К какому мастеру вы хотите записаться? (или пропустите)"
	replyAskComment     = "Комментарий к заявке? (или пропустите)"
	replyConsultIntro   = "Чем могу помочь? Опишите ваш вопрос."
	replyAccepted       = "Спасибо! Ваша заявка принята и передана админу.\n\nХотите сделать ещё что-то?"
	replyPersistFailed  = "Ошибка при записи заявки. Попробуйте позже.\n\nХотите сделать ещё что-то?"
	replyIdle           = "Нажмите /start, чтобы начать."
	replyAssistantDown  = "Ассистент временно недоступен. Попробуйте позже."
	replyConsultFooter  = "\n\nХотите записаться на услугу? Просто нажмите /start и выберите 'Быстрая запись'."
	replyDateRetrySuffix = "\nВведите дату ещё раз в формате ДД.ММ.ГГГГ ЧЧ:ММ."
)

// ConversationService drives the step-by-step booking dialogue for one user.
type ConversationService struct {
	booking *BookingService
	consult Consulter
	loc     *time.Location
	now     func() time.Time
}

func NewConversationService(booking *BookingService, consult Consulter, loc *time.Location) *ConversationService {
	return &ConversationService{
		booking: booking,
		consult: consult,
		loc:     loc,
		now:     time.Now,
	}
}

// Advance feeds one text input into the session's state machine and returns
// the reply to show. The caller must hold the session's lock for the whole
// turn; the session is mutated in place.
func (s *ConversationService) Advance(ctx context.Context, sess *domain.ConversationSession, text string) string {
	switch sess.State {
	case domain.StateChoosing:
		return s.choose(sess, text)

	case domain.StateName:
		sess.Draft.Name = text
		sess.State = domain.StatePhone
		return replyAskPhone

	case domain.StatePhone:
		sess.Draft.Phone = text
		sess.State = domain.StateService
		return replyAskService

	case domain.StateService:
		sess.Draft.Service = text
		sess.State = domain.StateDate
		return replyAskDate

	case domain.StateDate:
		normalized, err := domain.NormalizeDateTime(text, s.loc, s.now().In(s.loc))
		if err != nil {
			var vErr *domain.ValidationError
			if errors.As(err, &vErr) {
				return "Ошибка: " + vErr.UserMessage() + replyDateRetrySuffix
			}
			return "Ошибка: " + err.Error() + replyDateRetrySuffix
		}
		sess.Draft.DateTime = normalized
		sess.State = domain.StateMaster
		return replyAskMaster

	case domain.StateMaster:
		sess.Draft.Master = text
		sess.State = domain.StateComment
		return replyAskComment

	case domain.StateComment:
		sess.Draft.Comment = text
		return s.finalize(ctx, sess)

	case domain.StateConsult:
		return s.consultTurn(ctx, sess, text)

	default: // StateIdle
		return replyIdle
	}
}

func (s *ConversationService) choose(sess *domain.ConversationSession, text string) string {
	switch text {
	case domain.ChoiceFastBook:
		sess.Draft = domain.BookingDraft{}
		sess.State = domain.StateName
		return replyAskName
	case domain.ChoiceConsult:
		sess.State = domain.StateConsult
		return replyConsultIntro
	default:
		return replyChooseOption
	}
}

// finalize runs the collected draft through the booking funnel. A validation
// failure discards the draft and parks the dialogue in Idle; a persistence
// failure keeps the user in the menu so they can retry.
func (s *ConversationService) finalize(ctx context.Context, sess *domain.ConversationSession) string {
	draft := sess.Draft
	draft.Source = domain.SourceTelegram
	sess.Draft = domain.BookingDraft{}

	err := s.booking.Submit(ctx, draft)
	if err == nil {
		sess.State = domain.StateChoosing
		return replyAccepted
	}

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		sess.State = domain.StateIdle
		return "Ошибка: " + vErr.UserMessage()
	}

	slog.Error("booking submit failed", "user_id", sess.UserID, "error", err)
	sess.State = domain.StateChoosing
	return replyPersistFailed
}

func (s *ConversationService) consultTurn(ctx context.Context, sess *domain.ConversationSession, text string) string {
	reply, threadID, err := s.consult.Ask(ctx, sess.ThreadID, text)
	if threadID != "" {
		sess.ThreadID = threadID
	}
	if err != nil {
		slog.Error("consultation turn failed", "user_id", sess.UserID, "error", err)
		return replyAssistantDown
	}
	return reply + replyConsultFooter
}
