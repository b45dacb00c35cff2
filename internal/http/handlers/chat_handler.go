// README: Chat handler; runs the assistant loop for one user message.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zburns31/AtlasTravelAssistant/internal/agent"
	"github.com/Zburns31/AtlasTravelAssistant/internal/llm"
	"github.com/Zburns31/AtlasTravelAssistant/internal/modules/history"
)

const chatTimeout = 120 * time.Second

// ChatRunner is the slice of the agent the handler needs.
type ChatRunner interface {
	Run(ctx context.Context, userMessage string, history []llm.Message) (llm.Message, error)
}

type ChatHandler struct {
	runner  ChatRunner
	history history.Recorder
	logger  *zap.Logger
}

func NewChatHandler(runner ChatRunner, recorder history.Recorder, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = history.NopRecorder{}
	}
	return &ChatHandler{runner: runner, history: recorder, logger: logger}
}

type chatReq struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResp struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Partial   bool   `json:"partial,omitempty"`
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.SessionID = strings.TrimSpace(req.SessionID)
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(c, http.StatusBadRequest, "missing message")
		return
	}
	if !isValidSessionID(req.SessionID) {
		writeError(c, http.StatusBadRequest, "invalid session_id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), chatTimeout)
	defer cancel()

	past, err := h.history.Context(ctx, req.SessionID)
	if err != nil {
		h.logger.Warn("history unavailable, continuing without context",
			zap.String("session_id", req.SessionID), zap.Error(err))
	}

	reply, err := h.runner.Run(ctx, req.Message, past)
	partial := false
	switch {
	case err == nil:
	case errors.Is(err, agent.ErrTooManyRounds):
		// Surface what the model produced before hitting the cap.
		partial = true
		h.logger.Warn("round cap reached", zap.String("session_id", req.SessionID))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(c, http.StatusGatewayTimeout, "assistant timed out")
		return
	default:
		h.logger.Error("chat failed", zap.String("session_id", req.SessionID), zap.Error(err))
		writeError(c, http.StatusBadGateway, "assistant unavailable")
		return
	}

	if recErr := h.history.Record(ctx, req.SessionID, req.Message, reply.Content); recErr != nil {
		h.logger.Warn("failed to record exchange",
			zap.String("session_id", req.SessionID), zap.Error(recErr))
	}

	writeJSON(c, http.StatusOK, chatResp{
		SessionID: req.SessionID,
		Reply:     reply.Content,
		Partial:   partial,
	})
}
