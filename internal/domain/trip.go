package domain

import "time"

type TripStatus string

const (
	TripStatusDraft     TripStatus = "draft"
	TripStatusPlanned   TripStatus = "planned"
	TripStatusOngoing   TripStatus = "ongoing"
	TripStatusCompleted TripStatus = "completed"
)

// Trip is the client-side representation of a trip resource.
//
// Values are replaced, never mutated in place: stores hand out deep copies (Clone) and
// swap whole values when the server returns a new representation.
type Trip struct {
	ID     TripID
	UserID UserID

	Title       string
	Destination string
	StartDate   time.Time // date-only semantics at the edges
	EndDate     time.Time // date-only semantics at the edges

	Budget        *float64
	TravelerCount int
	Preferences   map[string]any
	Description   *string

	Status      TripStatus
	AIGenerated map[string]any

	CreatedAt time.Time
	UpdatedAt time.Time

	// Days is populated by the detail endpoint and by generation; list responses may omit it.
	Days []TripDay
}

// ResourceID implements resource.Identifiable.
func (t Trip) ResourceID() TripID { return t.ID }

// Nights returns the number of nights between StartDate and EndDate (0 when unknown or inverted).
func (t Trip) Nights() int {
	if t.StartDate.IsZero() || t.EndDate.IsZero() || t.EndDate.Before(t.StartDate) {
		return 0
	}
	return int(t.EndDate.Sub(t.StartDate).Hours() / 24)
}

type TripDay struct {
	ID          int64
	DayNumber   int
	Date        time.Time
	Title       *string
	Description *string
	Activities  []TripActivity
}

type TripActivity struct {
	ID           int64
	ActivityType string
	Name         string
	Location     *string
	StartTime    *string
	EndTime      *string
	Duration     *int // minutes
	Cost         *float64
	Description  *string
	Notes        *string
	OrderIndex   int
}
