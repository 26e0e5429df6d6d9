package domain

// Main menu choices shown after /start. The state machine matches message
// text against these, and the keyboard is built from them.
const (
	ChoiceFastBook = "Быстрая запись"
	ChoiceConsult  = "Консультация"
)

// ConversationState is the bot dialogue position for one user.
type ConversationState int

const (
	StateIdle ConversationState = iota
	StateChoosing
	StateName
	StatePhone
	StateService
	StateDate
	StateMaster
	StateComment
	StateConsult
)

// ConversationSession is the per-user dialogue state: current state machine
// position, the draft being collected and the assistant thread bound to the
// user. The session store is the single owner; handlers must not keep a
// reference past the current turn.
type ConversationSession struct {
	UserID   string
	State    ConversationState
	Draft    BookingDraft
	ThreadID string
}
