// README: History service bridges stored transcripts and the chat loop.
package history

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Zburns31/AtlasTravelAssistant/internal/llm"
)

// Recorder is what the HTTP layer needs from history. A nil-safe
// no-op implementation covers deployments without a database.
type Recorder interface {
	Context(ctx context.Context, sessionID string) ([]llm.Message, error)
	Record(ctx context.Context, sessionID, userText, assistantText string) error
}

const defaultContextWindow = 40

type Service struct {
	store  *Store
	logger *zap.Logger
	window int
	now    func() time.Time
}

func NewService(store *Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, window: defaultContextWindow, now: time.Now}
}

// Context loads the recent transcript as seeding history for the agent.
func (s *Service) Context(ctx context.Context, sessionID string) ([]llm.Message, error) {
	entries, err := s.store.Recent(ctx, sessionID, s.window)
	if err != nil {
		return nil, fmt.Errorf("load session context: %w", err)
	}
	msgs := make([]llm.Message, 0, len(entries))
	for _, e := range entries {
		msgs = append(msgs, llm.Message{Role: e.Role, Content: e.Content})
	}
	return msgs, nil
}

// Record persists one completed exchange. The user turn is written
// before the assistant turn so replay order matches the conversation.
func (s *Service) Record(ctx context.Context, sessionID, userText, assistantText string) error {
	at := s.now()
	if err := s.store.Append(ctx, sessionID, llm.RoleUser, userText, at); err != nil {
		return err
	}
	if err := s.store.Append(ctx, sessionID, llm.RoleAssistant, assistantText, at); err != nil {
		return err
	}
	s.logger.Debug("exchange recorded", zap.String("session_id", sessionID))
	return nil
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.DeleteSession(ctx, sessionID)
}

// NopRecorder satisfies Recorder without persistence.
type NopRecorder struct{}

func (NopRecorder) Context(context.Context, string) ([]llm.Message, error) { return nil, nil }
func (NopRecorder) Record(context.Context, string, string, string) error   { return nil }
