// README: Conversation loop; alternates model turns and tool turns until the model answers in plain text.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Zburns31/AtlasTravelAssistant/internal/llm"
	"github.com/Zburns31/AtlasTravelAssistant/internal/tools"
)

// DefaultMaxRounds bounds model/tool round-trips per Run so a model that
// keeps requesting tools cannot spin forever.
const DefaultMaxRounds = 8

// ErrTooManyRounds reports that the round cap was hit before the model
// produced a plain answer. Run still returns the last assistant message
// alongside it as the best available partial answer.
var ErrTooManyRounds = errors.New("agent: too many model/tool rounds")

// Agent drives one model and one tool set. It holds no per-conversation
// state, so a single Agent serves concurrent Run calls.
type Agent struct {
	model     llm.ChatModel
	registry  *tools.Registry
	maxRounds int
	logger    *zap.Logger
}

// New wires an Agent. maxRounds <= 0 selects DefaultMaxRounds; a nil
// logger is replaced with a no-op one.
func New(model llm.ChatModel, registry *tools.Registry, maxRounds int, logger *zap.Logger) *Agent {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{model: model, registry: registry, maxRounds: maxRounds, logger: logger}
}

// Seed builds the initial conversation state: exactly one system message
// carrying the fixed instruction prompt, then prior history in original
// order, then the new user message.
func Seed(userMessage string, history []llm.Message) []llm.Message {
	state := make([]llm.Message, 0, len(history)+2)
	state = append(state, llm.SystemMessage(SystemPrompt))
	state = append(state, history...)
	state = append(state, llm.UserMessage(userMessage))
	return state
}

// Advance performs one model turn and, if the reply requests tools, one
// tool turn. It returns the extended state and whether the conversation
// is finished (the reply carried no tool calls).
func (a *Agent) Advance(ctx context.Context, state []llm.Message) ([]llm.Message, bool, error) {
	reply, err := a.model.Complete(ctx, state, a.registry.Definitions())
	if err != nil {
		return state, false, fmt.Errorf("agent: model call: %w", err)
	}
	state = append(state, reply)

	if len(reply.ToolCalls) == 0 {
		return state, true, nil
	}

	a.logger.Debug("executing tool calls", zap.Int("count", len(reply.ToolCalls)))
	results, err := a.executeCalls(ctx, reply.ToolCalls)
	if err != nil {
		return state, false, err
	}
	return append(state, results...), false, nil
}

// Run seeds state from the user message and history, then repeatedly
// advances until the model answers without tool calls or the round cap is
// reached. On cap exhaustion the last assistant message is returned with
// ErrTooManyRounds.
func (a *Agent) Run(ctx context.Context, userMessage string, history []llm.Message) (llm.Message, error) {
	state := Seed(userMessage, history)

	var last llm.Message
	for round := 0; round < a.maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return llm.Message{}, fmt.Errorf("agent: run cancelled: %w", err)
		}

		next, done, err := a.Advance(ctx, state)
		if err != nil {
			return llm.Message{}, err
		}
		state = next
		last = lastAssistant(state)
		if done {
			return last, nil
		}
	}

	a.logger.Warn("round cap reached", zap.Int("max_rounds", a.maxRounds))
	if strings.TrimSpace(last.Content) == "" {
		last = llm.Message{
			Role:    llm.RoleAssistant,
			Content: fmt.Sprintf("I stopped after %d tool rounds without reaching a final answer. Please narrow the request and try again.", a.maxRounds),
		}
	}
	return last, ErrTooManyRounds
}

// executeCalls runs every requested tool. Calls share no mutable state so
// they are dispatched concurrently, but results are placed by request
// index so the appended order is deterministic. A cancelled context
// discards all results for the round.
func (a *Agent) executeCalls(ctx context.Context, calls []llm.ToolCall) ([]llm.Message, error) {
	results := make([]llm.Message, len(calls))

	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call llm.ToolCall) {
			defer wg.Done()
			results[i] = a.registry.Dispatch(ctx, call)
		}(i, call)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("agent: run cancelled: %w", err)
	}
	return results, nil
}

// lastAssistant returns the most recent assistant message carrying
// text. Tool-call messages usually have empty Content and make a
// useless partial answer.
func lastAssistant(state []llm.Message) llm.Message {
	for i := len(state) - 1; i >= 0; i-- {
		if state[i].Role == llm.RoleAssistant && strings.TrimSpace(state[i].Content) != "" {
			return state[i]
		}
	}
	return llm.Message{}
}
