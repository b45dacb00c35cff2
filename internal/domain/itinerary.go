package domain

import (
	"fmt"
	"time"
)

// ValidationError reports which field of a domain construction was
// rejected and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Reason)
}

// Itinerary is the aggregate root for one planned trip. It exclusively
// owns its days, flights, and accommodations: a day's content is never
// edited in place, it is replaced wholesale via WithDay.
type Itinerary struct {
	Destination    Destination     `json:"destination"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	Preferences    TripPreferences `json:"preferences"`
	Days           []ItineraryDay  `json:"days,omitempty"`
	Flights        []Flight        `json:"flights,omitempty"`
	Accommodations []Accommodation `json:"accommodations,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewItinerary constructs an itinerary, enforcing that the end date is
// strictly after the start date. No Itinerary violating that rule exists.
func NewItinerary(dest Destination, start, end time.Time, prefs TripPreferences) (Itinerary, error) {
	it := Itinerary{
		Destination: dest,
		StartDate:   start,
		EndDate:     end,
		Preferences: prefs,
		CreatedAt:   time.Now().UTC(),
	}
	if err := it.Validate(); err != nil {
		return Itinerary{}, err
	}
	return it, nil
}

// Validate re-checks the date invariant; used after deserialization.
func (it Itinerary) Validate() error {
	if !it.EndDate.After(it.StartDate) {
		return &ValidationError{Field: "end_date", Reason: "must be strictly after start_date"}
	}
	return nil
}

// WithDay returns a copy of the itinerary with day appended, or with the
// existing day of the same calendar date replaced wholesale. The receiver
// is left untouched.
func (it Itinerary) WithDay(day ItineraryDay) Itinerary {
	days := make([]ItineraryDay, len(it.Days))
	copy(days, it.Days)

	replaced := false
	for i, d := range days {
		if sameDate(d.Date, day.Date) {
			days[i] = day
			replaced = true
			break
		}
	}
	if !replaced {
		days = append(days, day)
	}
	it.Days = days
	return it
}

// WithFlight returns a copy of the itinerary with a flight suggestion
// appended.
func (it Itinerary) WithFlight(f Flight) Itinerary {
	flights := make([]Flight, len(it.Flights), len(it.Flights)+1)
	copy(flights, it.Flights)
	it.Flights = append(flights, f)
	return it
}

// WithAccommodation returns a copy with a lodging suggestion appended.
func (it Itinerary) WithAccommodation(a Accommodation) Itinerary {
	acc := make([]Accommodation, len(it.Accommodations), len(it.Accommodations)+1)
	copy(acc, it.Accommodations)
	it.Accommodations = append(acc, a)
	return it
}

// Nights is the number of nights between the start and end dates.
func (it Itinerary) Nights() int {
	return int(it.EndDate.Sub(it.StartDate).Hours() / 24)
}

// EstimatedTotalUSD sums flight, lodging, activity, and transit costs
// across the whole trip. Entries without a cost contribute zero.
func (it Itinerary) EstimatedTotalUSD() float64 {
	var total float64
	for _, f := range it.Flights {
		total += deref(f.EstimatedCostUSD)
	}
	for _, a := range it.Accommodations {
		total += deref(a.TotalCostUSD)
	}
	for _, d := range it.Days {
		for _, act := range d.Activities {
			total += deref(act.EstimatedCostUSD)
		}
		for _, seg := range d.TravelSegments {
			total += deref(seg.EstimatedCostUSD)
		}
	}
	return total
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
