package hooks

import "encoding/json"

// Reason codes for agent-correctable policy denials. The agent reads the
// reason and takes the prescribed corrective step.
const (
	ReasonMissingIntentID = "missing_intent_id"
	ReasonIntentIgnored   = "intent_ignored"
	ReasonScopeViolation  = "scope_violation"
	ReasonUserRejected    = "user_rejected"
	ReasonIntentNotFound  = "intent_not_found"
	ReasonStaleFile       = "stale_file"
)

// ToolError is the structured payload delivered to the agent through the
// tool's own result channel. It is data, not a fault: policy denials are the
// agent's to self-correct against.
type ToolError struct {
	Type     string `json:"type"`
	Tool     string `json:"tool"`
	Reason   string `json:"reason"`
	IntentID string `json:"intent_id,omitempty"`
	File     string `json:"file,omitempty"`
	Message  string `json:"message"`
}

// NewToolError builds a payload with the fixed envelope type.
func NewToolError(tool, reason, message string) *ToolError {
	return &ToolError{
		Type:    "tool_error",
		Tool:    tool,
		Reason:  reason,
		Message: message,
	}
}

// WithIntent attaches the intent id and returns the error.
func (e *ToolError) WithIntent(intentID string) *ToolError {
	e.IntentID = intentID
	return e
}

// WithFile attaches the offending file and returns the error.
func (e *ToolError) WithFile(file string) *ToolError {
	e.File = file
	return e
}

// JSON serializes the payload for the result channel.
func (e *ToolError) JSON() string {
	data, err := json.Marshal(e)
	if err != nil {
		return `{"type":"tool_error","reason":"` + e.Reason + `"}`
	}
	return string(data)
}

// Error satisfies the error interface so a ToolError can travel through
// tool-body return values (the stale_file case).
func (e *ToolError) Error() string {
	return e.Reason + ": " + e.Message
}
