package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// httpClient is shared by all OpenRouter requests; the 60s timeout guards
// against stalled connections while context cancellation is still honoured
// via NewRequestWithContext.
var httpClient = &http.Client{Timeout: 60 * time.Second}

// OpenRouter is a ChatModel backed by an OpenAI-compatible chat
// completions endpoint. The model identifier, credential, and base URL
// come from configuration; nothing is mutated after construction, so one
// instance is safe for concurrent use.
type OpenRouter struct {
	model   string
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewOpenRouter creates an OpenRouter-backed ChatModel.
func NewOpenRouter(model, apiKey, baseURL string) (*OpenRouter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("openrouter: missing api key")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("openrouter: missing model identifier")
	}
	return &OpenRouter{
		model:   model,
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}, nil
}

type wireToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type wireMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	Name       string         `json:"name,omitempty"`
}

type wireTool struct {
	Type     string         `json:"type"`
	Function ToolDefinition `json:"function"`
}

type completionRequest struct {
	Model    string        `json:"model"`
	Messages []wireMessage `json:"messages"`
	Tools    []wireTool    `json:"tools,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message wireMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete implements ChatModel against the chat completions endpoint.
func (o *OpenRouter) Complete(ctx context.Context, messages []Message, tools []ToolDefinition) (Message, error) {
	payload := completionRequest{Model: o.model}
	for _, m := range messages {
		payload.Messages = append(payload.Messages, toWire(m))
	}
	for _, t := range tools {
		payload.Tools = append(payload.Tools, wireTool{Type: "function", Function: t})
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("openrouter: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return Message{}, fmt.Errorf("openrouter: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("HTTP-Referer", "https://github.com/Zburns31/AtlasTravelAssistant")
	req.Header.Set("X-Title", "Atlas Travel Assistant")

	resp, err := o.client.Do(req)
	if err != nil {
		return Message{}, fmt.Errorf("openrouter: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Message{}, fmt.Errorf("openrouter: read response: %w", err)
	}

	var cr completionResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return Message{}, fmt.Errorf("openrouter: unmarshal response: %w", err)
	}
	if cr.Error != nil {
		return Message{}, fmt.Errorf("openrouter: api error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return Message{}, fmt.Errorf("openrouter: API returned empty choices array (status %d)", resp.StatusCode)
	}

	return fromWire(cr.Choices[0].Message), nil
}

func toWire(m Message) wireMessage {
	w := wireMessage{
		Role:       string(m.Role),
		Content:    m.Content,
		ToolCallID: m.ToolCallID,
		Name:       m.Name,
	}
	for _, tc := range m.ToolCalls {
		var wtc wireToolCall
		wtc.ID = tc.ID
		wtc.Type = "function"
		wtc.Function.Name = tc.Name
		wtc.Function.Arguments = string(tc.Arguments)
		w.ToolCalls = append(w.ToolCalls, wtc)
	}
	return w
}

func fromWire(w wireMessage) Message {
	m := Message{
		Role:       Role(w.Role),
		Content:    w.Content,
		ToolCallID: w.ToolCallID,
		Name:       w.Name,
	}
	for _, wtc := range w.ToolCalls {
		m.ToolCalls = append(m.ToolCalls, ToolCall{
			ID:        wtc.ID,
			Name:      wtc.Function.Name,
			Arguments: json.RawMessage(wtc.Function.Arguments),
		})
	}
	return m
}
