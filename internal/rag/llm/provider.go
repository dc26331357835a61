package llm

import "context"

// Message is one provider-neutral chat turn.
type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ToolSpec declares one callable tool to the model. Parameters is a JSON schema
// object in map form.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolCall is the model asking for one tool invocation. Arguments is the raw
// JSON string as emitted by the model.
type ToolCall struct {
	Id        string
	Name      string
	Arguments string
}

// ToolExecutor runs one tool call and returns the result text fed back to the
// model. An error becomes an error-shaped tool result, not a stream abort.
type ToolExecutor func(ctx context.Context, call ToolCall) (string, error)

type Request struct {
	Messages    []Message
	Tools       []ToolSpec
	Temperature float64
}

// Provider streams one chat completion. Tokens are delivered through onToken in
// emission order; tool calls are dispatched to execTool and their results fed
// back until the model produces a final answer. The full assistant text is also
// returned so callers can persist it without re-assembling tokens.
type Provider interface {
	StreamChat(ctx context.Context, req Request, onToken func(token string), execTool ToolExecutor) (string, error)
	Name() string
}
