package domain

// RunStatus mirrors the assistant backend's run lifecycle states. Anything
// not listed here (queued, incomplete, ...) is treated as still in progress.
type RunStatus string

const (
	StatusInProgress     RunStatus = "in_progress"
	StatusRequiresAction RunStatus = "requires_action"
	StatusCompleted      RunStatus = "completed"
	StatusFailed         RunStatus = "failed"
	StatusCancelled      RunStatus = "cancelled"
)

// Terminal reports whether polling should stop on this status.
func (s RunStatus) Terminal() bool {
	switch s {
	case StatusRequiresAction, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// ToolCall is one pending function invocation issued by the assistant.
// Arguments is the raw JSON object text as produced by the backend.
type ToolCall struct {
	ID        string
	Function  string
	Arguments string
}

// ToolCallResult pairs a tool call id with the output payload submitted back
// to the assistant before its run can resume.
type ToolCallResult struct {
	ToolCallID string `json:"tool_call_id"`
	Output     string `json:"output"`
}

// ChatMessage is one entry of a thread's message history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Exchange is the outcome of one coordinator invocation. ThreadID is reused
// across turns within a session; RunID is new per turn. History and Reply are
// only populated on a completed run.
type Exchange struct {
	ThreadID  string
	RunID     string
	Status    RunStatus
	Reply     string
	History   []ChatMessage
	ToolCalls []ToolCall
}
