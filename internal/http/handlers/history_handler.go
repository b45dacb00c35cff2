// README: History handlers for reading and clearing session transcripts.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zburns31/AtlasTravelAssistant/internal/llm"
	"github.com/Zburns31/AtlasTravelAssistant/internal/modules/history"
)

type HistoryHandler struct {
	history *history.Service
}

func NewHistoryHandler(svc *history.Service) *HistoryHandler {
	return &HistoryHandler{history: svc}
}

// Get handles GET /api/chat/:session_id/history.
func (h *HistoryHandler) Get(c *gin.Context) {
	sessionID := c.Param("session_id")
	if !isValidSessionID(sessionID) {
		writeError(c, http.StatusBadRequest, "invalid session_id")
		return
	}
	msgs, err := h.history.Context(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if msgs == nil {
		msgs = []llm.Message{} // empty sessions render as [] not null
	}
	writeJSON(c, http.StatusOK, gin.H{"session_id": sessionID, "messages": msgs})
}

// Clear handles DELETE /api/chat/:session_id.
func (h *HistoryHandler) Clear(c *gin.Context) {
	sessionID := c.Param("session_id")
	if !isValidSessionID(sessionID) {
		writeError(c, http.StatusBadRequest, "invalid session_id")
		return
	}
	if err := h.history.Clear(c.Request.Context(), sessionID); err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.Status(http.StatusNoContent)
}
