// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zburns31/AtlasTravelAssistant/internal/http/handlers"
	"github.com/Zburns31/AtlasTravelAssistant/internal/http/middleware"
	"github.com/Zburns31/AtlasTravelAssistant/internal/modules/history"
	"github.com/Zburns31/AtlasTravelAssistant/internal/modules/profile"
)

type ServerDeps struct {
	Runner  handlers.ChatRunner
	History *history.Service // optional; nil disables persistence
	Profile *profile.Service
	Logger  *zap.Logger
}

func NewRouter(deps ServerDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.Logging(logger))

	var recorder history.Recorder = history.NopRecorder{}
	if deps.History != nil {
		recorder = deps.History
	}

	chat := handlers.NewChatHandler(deps.Runner, recorder, logger)
	r.POST("/api/chat", chat.Chat)

	if deps.History != nil {
		hist := handlers.NewHistoryHandler(deps.History)
		r.GET("/api/chat/:session_id/history", hist.Get)
		r.DELETE("/api/chat/:session_id", hist.Clear)
	}

	if deps.Profile != nil {
		prof := handlers.NewProfileHandler(deps.Profile)
		r.GET("/api/profile", prof.Get)
		r.POST("/api/profile/trips", prof.RecordTrip)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
