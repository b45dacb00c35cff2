// README: User profile model persisted between chat sessions.
package profile

import (
	"time"

	"github.com/Zburns31/AtlasTravelAssistant/internal/domain"
)

// UserProfile accumulates travel preferences learned from saved trips.
// It is a plain value; Store writes it out wholesale on every save.
type UserProfile struct {
	FavouriteDestinationTypes []string                  `json:"favourite_destination_types"`
	FavouriteCategories       []domain.ActivityCategory `json:"favourite_categories"`
	PreferredPace             domain.TripPace           `json:"preferred_pace"`
	TypicalBudgetUSD          *float64                  `json:"typical_budget_usd,omitempty"`
	PastDestinations          []string                  `json:"past_destinations"`
	TripCount                 int                       `json:"trip_count"`
	UpdatedAt                 time.Time                 `json:"updated_at"`
}

func DefaultProfile() UserProfile {
	return UserProfile{
		FavouriteDestinationTypes: []string{},
		FavouriteCategories:       []domain.ActivityCategory{},
		PreferredPace:             domain.PaceModerate,
		PastDestinations:          []string{},
	}
}
