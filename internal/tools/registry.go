// README: Tool registry mapping a tool name to its argument schema and handler.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Zburns31/AtlasTravelAssistant/internal/llm"
)

// Handler executes one tool invocation. Ordinary failure modes (missing
// configuration, upstream errors) are folded into the returned payload,
// not returned as a Go error; a non-nil error means the handler itself is
// broken and Dispatch converts it to an error payload so the loop never
// aborts on a tool.
type Handler func(ctx context.Context, args json.RawMessage) (json.RawMessage, error)

// Tool pairs the argument schema advertised to the model with the handler
// the loop dispatches to.
type Tool struct {
	Definition llm.ToolDefinition
	Handler    Handler
}

// Registry is a threadsafe name -> Tool mapping. Definitions are reported
// in registration order so the advertised tool list is deterministic.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds or replaces a tool under its declared name.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := t.Definition.Name
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Definitions returns the advertised tool set in registration order.
func (r *Registry) Definitions() []llm.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]llm.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition)
	}
	return defs
}

// Dispatch executes the named tool and always produces a tool-result
// message correlated to the call. Unknown tools and handler errors become
// error payloads the model can reason about.
func (r *Registry) Dispatch(ctx context.Context, call llm.ToolCall) llm.Message {
	tool, ok := r.Get(call.Name)
	if !ok {
		return llm.ToolResultMessage(call, errorPayload(fmt.Sprintf("unknown tool %q", call.Name)))
	}
	payload, err := tool.Handler(ctx, call.Arguments)
	if err != nil {
		return llm.ToolResultMessage(call, errorPayload(err.Error()))
	}
	return llm.ToolResultMessage(call, payload)
}

func errorPayload(msg string) json.RawMessage {
	raw, _ := json.Marshal(map[string]string{"error": msg})
	return raw
}
