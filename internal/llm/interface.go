package llm

import "context"

// ChatModel is the contract every model provider implements. A ChatModel
// is resolved once at startup and may be shared by concurrent callers;
// implementations must not mutate shared state inside Complete.
type ChatModel interface {
	// Complete sends the full message sequence and returns one assistant
	// message. When tools is non-empty they are advertised to the model,
	// which may answer with tool calls instead of plain text.
	Complete(ctx context.Context, messages []Message, tools []ToolDefinition) (Message, error)
}
