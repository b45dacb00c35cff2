package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Zburns31/AtlasTravelAssistant/internal/llm"
	"github.com/Zburns31/AtlasTravelAssistant/internal/tools"
)

// scriptedModel replays a fixed sequence of assistant messages and
// records every message sequence it was invoked with.
type scriptedModel struct {
	mu      sync.Mutex
	replies []llm.Message
	seen    [][]llm.Message
}

func (m *scriptedModel) Complete(ctx context.Context, messages []llm.Message, defs []llm.ToolDefinition) (llm.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := make([]llm.Message, len(messages))
	copy(snapshot, messages)
	m.seen = append(m.seen, snapshot)

	if len(m.replies) == 0 {
		return llm.Message{}, errors.New("scripted model exhausted")
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	return reply, nil
}

func (m *scriptedModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.seen)
}

func assistant(content string) llm.Message {
	return llm.Message{Role: llm.RoleAssistant, Content: content}
}

func toolCallReply(calls ...llm.ToolCall) llm.Message {
	return llm.Message{Role: llm.RoleAssistant, ToolCalls: calls}
}

func countingRegistry(t *testing.T, counts map[string]*int) *tools.Registry {
	t.Helper()
	r := tools.NewRegistry()
	for name := range counts {
		n := counts[name]
		r.Register(tools.Tool{
			Definition: llm.ToolDefinition{Name: name, Parameters: llm.Schema{Type: "object"}},
			Handler: func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
				*n++
				return json.RawMessage(`{"ok":true}`), nil
			},
		})
	}
	return r
}

func TestRun_PlainAnswerNoTools(t *testing.T) {
	model := &scriptedModel{replies: []llm.Message{assistant("Kyoto in five days: here we go.")}}
	weatherCalls := 0
	a := New(model, countingRegistry(t, map[string]*int{"get_weather": &weatherCalls}), 0, nil)

	final, err := a.Run(context.Background(), "Plan 5 days in Kyoto", nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if final.Content != "Kyoto in five days: here we go." {
		t.Errorf("final = %q", final.Content)
	}
	if weatherCalls != 0 {
		t.Errorf("tool executed %d times, want 0", weatherCalls)
	}
	if model.callCount() != 1 {
		t.Errorf("model called %d times, want 1", model.callCount())
	}
}

func TestRun_SeedsSystemHistoryUser(t *testing.T) {
	model := &scriptedModel{replies: []llm.Message{assistant("hi")}}
	a := New(model, tools.NewRegistry(), 0, nil)

	history := []llm.Message{
		llm.UserMessage("Hello"),
		assistant("Hi there!"),
	}
	if _, err := a.Run(context.Background(), "Plan a trip", history); err != nil {
		t.Fatal(err)
	}

	seen := model.seen[0]
	if len(seen) != 4 {
		t.Fatalf("seeded sequence length = %d, want 4", len(seen))
	}
	if seen[0].Role != llm.RoleSystem || !strings.Contains(seen[0].Content, "Atlas") {
		t.Errorf("first message not the system prompt: %+v", seen[0])
	}
	if seen[1].Content != "Hello" || seen[2].Content != "Hi there!" {
		t.Errorf("history order lost: %+v", seen[1:3])
	}
	if seen[3].Role != llm.RoleUser || seen[3].Content != "Plan a trip" {
		t.Errorf("final seeded message should be the new user message: %+v", seen[3])
	}
}

func TestRun_SingleToolRoundTrip(t *testing.T) {
	call := llm.ToolCall{ID: "call_1", Name: "get_weather", Arguments: json.RawMessage(`{"city":"Kyoto","date":"2025-04-01"}`)}
	model := &scriptedModel{replies: []llm.Message{
		toolCallReply(call),
		assistant("Expect mild spring weather."),
	}}

	r := tools.NewRegistry()
	weatherCalls := 0
	r.Register(tools.Tool{
		Definition: llm.ToolDefinition{Name: "get_weather", Parameters: llm.Schema{Type: "object"}},
		Handler: func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
			weatherCalls++
			var in struct{ City, Date string }
			if err := json.Unmarshal(args, &in); err != nil {
				t.Fatalf("args: %v", err)
			}
			return json.Marshal(map[string]string{"city": in.City, "date": in.Date, "conditions": "sunny"})
		},
	})

	a := New(model, r, 0, nil)
	final, err := a.Run(context.Background(), "Weather in Kyoto on April 1?", nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if weatherCalls != 1 {
		t.Errorf("weather tool executed %d times, want 1", weatherCalls)
	}
	if final.Content != "Expect mild spring weather." {
		t.Errorf("final = %q", final.Content)
	}
	if model.callCount() != 2 {
		t.Fatalf("model called %d times, want 2", model.callCount())
	}

	// Second model call sees: system, user, assistant(tool call), tool result.
	second := model.seen[1]
	wantRoles := []llm.Role{llm.RoleSystem, llm.RoleUser, llm.RoleAssistant, llm.RoleTool}
	if len(second) != len(wantRoles) {
		t.Fatalf("sequence length = %d, want %d", len(second), len(wantRoles))
	}
	for i, want := range wantRoles {
		if second[i].Role != want {
			t.Errorf("position %d role = %q, want %q", i, second[i].Role, want)
		}
	}
	result := second[3]
	if result.ToolCallID != "call_1" || result.Name != "get_weather" {
		t.Errorf("tool result not correlated: %+v", result)
	}
	if !strings.Contains(result.Content, "Kyoto") || !strings.Contains(result.Content, "2025-04-01") {
		t.Errorf("tool result content = %q", result.Content)
	}
}

func TestRun_ToolResultsKeepRequestOrder(t *testing.T) {
	calls := []llm.ToolCall{
		{ID: "call_slow", Name: "slow", Arguments: json.RawMessage(`{}`)},
		{ID: "call_fast", Name: "fast", Arguments: json.RawMessage(`{}`)},
	}
	model := &scriptedModel{replies: []llm.Message{
		toolCallReply(calls...),
		assistant("done"),
	}}

	r := tools.NewRegistry()
	r.Register(tools.Tool{
		Definition: llm.ToolDefinition{Name: "slow"},
		Handler: func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
			time.Sleep(30 * time.Millisecond)
			return json.RawMessage(`{"which":"slow"}`), nil
		},
	})
	r.Register(tools.Tool{
		Definition: llm.ToolDefinition{Name: "fast"},
		Handler: func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
			return json.RawMessage(`{"which":"fast"}`), nil
		},
	})

	a := New(model, r, 0, nil)
	if _, err := a.Run(context.Background(), "go", nil); err != nil {
		t.Fatal(err)
	}

	second := model.seen[1]
	// Last two messages are the tool results, in request order even
	// though the slow tool finished later.
	if second[len(second)-2].ToolCallID != "call_slow" || second[len(second)-1].ToolCallID != "call_fast" {
		t.Errorf("tool results out of request order: %+v", second[len(second)-2:])
	}
}

func TestRun_RoundCap(t *testing.T) {
	call := llm.ToolCall{ID: "c", Name: "get_weather", Arguments: json.RawMessage(`{}`)}
	model := &scriptedModel{replies: []llm.Message{
		toolCallReply(call), toolCallReply(call), toolCallReply(call), toolCallReply(call),
	}}
	n := 0
	a := New(model, countingRegistry(t, map[string]*int{"get_weather": &n}), 3, nil)

	final, err := a.Run(context.Background(), "loop forever", nil)
	if !errors.Is(err, ErrTooManyRounds) {
		t.Fatalf("err = %v, want ErrTooManyRounds", err)
	}
	if model.callCount() != 3 {
		t.Errorf("model called %d times, want cap of 3", model.callCount())
	}
	// Tool-call messages carry no text, so the caller gets a readable
	// stopped-early explanation instead of an empty reply.
	if final.Role != llm.RoleAssistant || !strings.Contains(final.Content, "3 tool rounds") {
		t.Errorf("expected stopped-early text, got %+v", final)
	}
}

func TestRun_RoundCapKeepsLastSpokenText(t *testing.T) {
	call := llm.ToolCall{ID: "c", Name: "get_weather", Arguments: json.RawMessage(`{}`)}
	withText := llm.Message{Role: llm.RoleAssistant, Content: "Day one is drafted so far.", ToolCalls: []llm.ToolCall{call}}
	model := &scriptedModel{replies: []llm.Message{
		toolCallReply(call), withText, toolCallReply(call),
	}}
	n := 0
	a := New(model, countingRegistry(t, map[string]*int{"get_weather": &n}), 2, nil)

	final, err := a.Run(context.Background(), "loop forever", nil)
	if !errors.Is(err, ErrTooManyRounds) {
		t.Fatalf("err = %v, want ErrTooManyRounds", err)
	}
	if final.Content != "Day one is drafted so far." {
		t.Errorf("partial answer should keep the last spoken text, got %q", final.Content)
	}
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	model := &scriptedModel{replies: []llm.Message{assistant("never")}}
	a := New(model, tools.NewRegistry(), 0, nil)

	if _, err := a.Run(ctx, "hello", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if model.callCount() != 0 {
		t.Errorf("model should not be called after cancellation")
	}
}

func TestRun_CancelDuringToolsDiscardsResults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	call := llm.ToolCall{ID: "c", Name: "cancelling", Arguments: json.RawMessage(`{}`)}
	model := &scriptedModel{replies: []llm.Message{
		toolCallReply(call),
		assistant("should never be reached"),
	}}

	r := tools.NewRegistry()
	r.Register(tools.Tool{
		Definition: llm.ToolDefinition{Name: "cancelling"},
		Handler: func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
			cancel() // caller gives up while the tool is in flight
			return json.RawMessage(`{"ok":true}`), nil
		},
	})

	a := New(model, r, 0, nil)
	if _, err := a.Run(ctx, "go", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if model.callCount() != 1 {
		t.Errorf("model called %d times; cancelled tool results must not feed another round", model.callCount())
	}
}

func TestAdvance_TerminalMessageEndsLoop(t *testing.T) {
	model := &scriptedModel{replies: []llm.Message{assistant("final")}}
	a := New(model, tools.NewRegistry(), 0, nil)

	state, done, err := a.Advance(context.Background(), Seed("hi", nil))
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Error("plain assistant reply should finish the loop")
	}
	if state[len(state)-1].Content != "final" {
		t.Errorf("state tail = %+v", state[len(state)-1])
	}
}
