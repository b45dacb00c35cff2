// README: Profile handlers for reading preferences and recording trips.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zburns31/AtlasTravelAssistant/internal/domain"
	"github.com/Zburns31/AtlasTravelAssistant/internal/modules/profile"
)

type ProfileHandler struct {
	profile *profile.Service
}

func NewProfileHandler(svc *profile.Service) *ProfileHandler {
	return &ProfileHandler{profile: svc}
}

// Get handles GET /api/profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.profile.Load()
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, p)
}

// RecordTrip handles POST /api/profile/trips. The body is a full
// itinerary; it is validated before it touches the profile.
func (h *ProfileHandler) RecordTrip(c *gin.Context) {
	var it domain.Itinerary
	if err := c.ShouldBindJSON(&it); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := it.Validate(); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeError(c, http.StatusUnprocessableEntity, verr.Error())
			return
		}
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.profile.RecordTrip(it)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, p)
}
