// README: Chat history model for persisted conversation transcripts.
package history

import (
	"time"

	"github.com/Zburns31/AtlasTravelAssistant/internal/llm"
)

// Entry is one persisted turn of a conversation. Only user and
// assistant text is stored; tool traffic is transient.
type Entry struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Role      llm.Role  `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
