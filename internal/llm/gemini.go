package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// Gemini is a ChatModel backed by Google's Gemini models through the
// official SDK, using native function calling. The client is created once;
// Complete derives a fresh GenerativeModel per call so concurrent
// invocations never share mutable model state.
type Gemini struct {
	client *genai.Client
	name   string
}

// NewGemini initializes a Gemini-backed ChatModel.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini: missing api key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Gemini{client: client, name: modelName}, nil
}

// Close releases the underlying SDK client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// Complete implements ChatModel. The trailing run of tool-result messages
// (if any) is sent as the current turn, everything before it as history.
func (g *Gemini) Complete(ctx context.Context, messages []Message, tools []ToolDefinition) (Message, error) {
	if len(messages) == 0 {
		return Message{}, fmt.Errorf("gemini: empty message sequence")
	}

	model := g.client.GenerativeModel(g.name)
	model.SetTemperature(0.4)
	if len(tools) > 0 {
		model.Tools = []*genai.Tool{{FunctionDeclarations: toDeclarations(tools)}}
	}

	// Split off the parts to send this turn: the trailing tool results,
	// or the final user message.
	split := len(messages)
	for split > 0 && messages[split-1].Role == RoleTool {
		split--
	}
	if split == len(messages) {
		split-- // final user/assistant message becomes the sent turn
	}

	var history []*genai.Content
	for _, m := range messages[:split] {
		switch m.Role {
		case RoleSystem:
			model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(m.Content)}}
		case RoleUser:
			history = append(history, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(m.Content)}})
		case RoleAssistant:
			history = append(history, &genai.Content{Role: "model", Parts: assistantParts(m)})
		case RoleTool:
			history = append(history, &genai.Content{Role: "function", Parts: []genai.Part{toFunctionResponse(m)}})
		}
	}

	var sendParts []genai.Part
	for _, m := range messages[split:] {
		switch m.Role {
		case RoleTool:
			sendParts = append(sendParts, toFunctionResponse(m))
		case RoleUser, RoleAssistant:
			sendParts = append(sendParts, genai.Text(m.Content))
		case RoleSystem:
			model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(m.Content)}}
		}
	}
	if len(sendParts) == 0 {
		return Message{}, fmt.Errorf("gemini: nothing to send")
	}

	cs := model.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, sendParts...)
	if err != nil {
		return Message{}, fmt.Errorf("gemini: generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Message{}, fmt.Errorf("gemini: API returned empty candidates")
	}

	out := Message{Role: RoleAssistant}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			text.WriteString(string(p))
		case genai.FunctionCall:
			args, err := json.Marshal(p.Args)
			if err != nil {
				return Message{}, fmt.Errorf("gemini: marshal tool args: %w", err)
			}
			// Gemini does not assign call ids; synthesize one so tool
			// results can still be correlated downstream.
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				ID:        uuid.NewString(),
				Name:      p.Name,
				Arguments: args,
			})
		}
	}
	out.Content = text.String()
	return out, nil
}

func assistantParts(m Message) []genai.Part {
	var parts []genai.Part
	if m.Content != "" {
		parts = append(parts, genai.Text(m.Content))
	}
	for _, tc := range m.ToolCalls {
		var args map[string]any
		_ = json.Unmarshal(tc.Arguments, &args)
		parts = append(parts, genai.FunctionCall{Name: tc.Name, Args: args})
	}
	return parts
}

func toFunctionResponse(m Message) genai.Part {
	var payload map[string]any
	if err := json.Unmarshal([]byte(m.Content), &payload); err != nil {
		// Tool payloads that are not JSON objects are wrapped so the
		// model still sees them.
		payload = map[string]any{"result": m.Content}
	}
	return genai.FunctionResponse{Name: m.Name, Response: payload}
}

func toDeclarations(tools []ToolDefinition) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  toGenaiSchema(t.Parameters),
		})
	}
	return decls
}

func toGenaiSchema(s Schema) *genai.Schema {
	out := &genai.Schema{Type: genaiType(s.Type), Required: s.Required}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, p := range s.Properties {
			out.Properties[name] = &genai.Schema{
				Type:        genaiType(p.Type),
				Description: p.Description,
				Enum:        p.Enum,
			}
		}
	}
	return out
}

func genaiType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	default:
		return genai.TypeObject
	}
}
