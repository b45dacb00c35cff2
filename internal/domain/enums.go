package domain

// ActivityCategory classifies an activity on the itinerary timeline.
type ActivityCategory string

const (
	CategorySightseeing ActivityCategory = "sightseeing"
	CategoryFood        ActivityCategory = "food"
	CategoryCulture     ActivityCategory = "culture"
	CategoryAdventure   ActivityCategory = "adventure"
	CategoryLeisure     ActivityCategory = "leisure"
)

func (c ActivityCategory) Valid() bool {
	switch c {
	case CategorySightseeing, CategoryFood, CategoryCulture, CategoryAdventure, CategoryLeisure:
		return true
	}
	return false
}

// TripPace describes how densely packed a trip should be.
type TripPace string

const (
	PaceRelaxed  TripPace = "relaxed"
	PaceModerate TripPace = "moderate"
	PacePacked   TripPace = "packed"
)

func (p TripPace) Valid() bool {
	switch p {
	case PaceRelaxed, PaceModerate, PacePacked:
		return true
	}
	return false
}

// TransitMode is how a traveller moves between two consecutive activities.
type TransitMode string

const (
	TransitWalk  TransitMode = "walk"
	TransitBus   TransitMode = "bus"
	TransitTrain TransitMode = "train"
	TransitTaxi  TransitMode = "taxi"
	TransitOther TransitMode = "other"
)

// DaySource records how an itinerary day was produced.
type DaySource string

const (
	DaySourceUser      DaySource = "user"
	DaySourceGenerated DaySource = "generated"
	DaySourceRefined   DaySource = "refined"
)

// NoteAuthor identifies who wrote an activity note.
type NoteAuthor string

const (
	NoteAuthorAgent NoteAuthor = "agent"
	NoteAuthorUser  NoteAuthor = "user"
)
