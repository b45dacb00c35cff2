// README: Travel domain value types. Leaves are plain value structs; the
// Itinerary aggregate owns its days, flights, and accommodations.
package domain

import (
	"fmt"
	"time"
)

// Coordinates is a (lat, lon) pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// TripPreferences captures user-stated preferences for a trip request.
type TripPreferences struct {
	TravelerCount      int      `json:"traveler_count"`
	BudgetUSD          *float64 `json:"budget_usd,omitempty"`
	Interests          []string `json:"interests,omitempty"`
	AccessibilityNeeds []string `json:"accessibility_needs,omitempty"`
	Pace               TripPace `json:"pace"`
}

// DefaultPreferences returns preferences for a single traveller at a
// moderate pace.
func DefaultPreferences() TripPreferences {
	return TripPreferences{TravelerCount: 1, Pace: PaceModerate}
}

// Destination is a place a trip is anchored to, as returned by a lookup.
type Destination struct {
	Name        string       `json:"name"`
	Country     string       `json:"country"`
	IATACode    string       `json:"iata_code,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// ActivityNote is a tip attached to an activity, written by the agent or
// the user.
type ActivityNote struct {
	Author  NoteAuthor `json:"author"`
	Content string     `json:"content"`
	Links   []string   `json:"links,omitempty"`
	Tags    []string   `json:"tags,omitempty"`
}

// Activity is one time-blocked item on a day. Start and end times are
// "HH:MM" 24-hour strings; when both are set the start must precede the
// end, and activities within a day are expected not to overlap. Those
// expectations bind the author of the content (the model or the user) and
// are checked by Validate, not by construction.
type Activity struct {
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	DurationHours    float64          `json:"duration_hours"`
	Category         ActivityCategory `json:"category"`
	StartTime        string           `json:"start_time,omitempty"`
	EndTime          string           `json:"end_time,omitempty"`
	EstimatedCostUSD *float64         `json:"estimated_cost_usd,omitempty"`
	Location         string           `json:"location,omitempty"`
	Coordinates      *Coordinates     `json:"coordinates,omitempty"`
	Notes            []ActivityNote   `json:"notes,omitempty"`
}

// Validate applies the stricter optional checks on an authored activity.
func (a Activity) Validate() error {
	if a.DurationHours <= 0 {
		return &ValidationError{Field: "duration_hours", Reason: "must be greater than zero"}
	}
	if !a.Category.Valid() {
		return &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", a.Category)}
	}
	for _, f := range []struct{ name, v string }{{"start_time", a.StartTime}, {"end_time", a.EndTime}} {
		if f.v == "" {
			continue
		}
		if _, err := parseClock(f.v); err != nil {
			return &ValidationError{Field: f.name, Reason: err.Error()}
		}
	}
	if a.StartTime != "" && a.EndTime != "" {
		start, _ := parseClock(a.StartTime)
		end, _ := parseClock(a.EndTime)
		if !start.Before(end) {
			return &ValidationError{Field: "end_time", Reason: "must be after start_time"}
		}
	}
	return nil
}

func parseClock(v string) (time.Time, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not an HH:MM time", v)
	}
	return t, nil
}

// TravelSegment is the transit gap between two consecutive activities
// within a day.
type TravelSegment struct {
	Mode             TransitMode `json:"mode"`
	DurationMinutes  int         `json:"duration_minutes"`
	Description      string      `json:"description"`
	EstimatedCostUSD *float64    `json:"estimated_cost_usd,omitempty"`
}

// ItineraryDay is one calendar day of a trip: ordered activities with the
// travel segments conceptually interleaved between them.
type ItineraryDay struct {
	Date           time.Time       `json:"date"`
	Activities     []Activity      `json:"activities,omitempty"`
	TravelSegments []TravelSegment `json:"travel_segments,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	Source         DaySource       `json:"source"`
}

// Flight is a suggested flight. Informational only, nothing is booked.
type Flight struct {
	Airline          string    `json:"airline"`
	FlightNumber     string    `json:"flight_number"`
	DepartureAirport string    `json:"departure_airport"`
	ArrivalAirport   string    `json:"arrival_airport"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	DurationHours    float64   `json:"duration_hours"`
	CabinClass       string    `json:"cabin_class"`
	EstimatedCostUSD *float64  `json:"estimated_cost_usd,omitempty"`
}

// Accommodation is a suggested lodging. Informational only.
type Accommodation struct {
	Name           string       `json:"name"`
	StarRating     *float64     `json:"star_rating,omitempty"`
	NightlyRateUSD *float64     `json:"nightly_rate_usd,omitempty"`
	TotalCostUSD   *float64     `json:"total_cost_usd,omitempty"`
	CheckIn        time.Time    `json:"check_in"`
	CheckOut       time.Time    `json:"check_out"`
	Description    string       `json:"description,omitempty"`
	Location       string       `json:"location,omitempty"`
	Coordinates    *Coordinates `json:"coordinates,omitempty"`
}

// ChatMessage is one entry of externally persisted chat history. This is
// distinct from the in-memory message list the conversation loop carries.
type ChatMessage struct {
	Role      string    `json:"role"` // "user" | "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
