package plannerapi

import (
	"context"
	"strings"
	"time"

	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
)

// ListParams pages list endpoints. Nil fields are omitted from the query.
type ListParams struct {
	Skip  *int
	Limit *int
}

// TripGenerateRequest asks the service to draft a full itinerary.
type TripGenerateRequest struct {
	Destination   string
	StartDate     time.Time
	EndDate       time.Time
	Budget        *float64
	TravelerCount int
	Preferences   map[string]any
}

// Validate checks the request shape. Business rules (date ranges, budgets) are left to
// the generator, which reports them as ErrGeneration.
func (r TripGenerateRequest) Validate() error {
	details := map[string]any{}
	if strings.TrimSpace(r.Destination) == "" {
		details["destination"] = "must be non-empty"
	}
	if r.StartDate.IsZero() {
		details["start_date"] = "is required"
	}
	if r.EndDate.IsZero() {
		details["end_date"] = "is required"
	}
	if r.TravelerCount < 1 {
		details["traveler_count"] = "must be at least 1"
	}
	if len(details) > 0 {
		return Validation("invalid generate request", details)
	}
	return nil
}

type TripCreate struct {
	Title         string
	Destination   string
	StartDate     time.Time
	EndDate       time.Time
	Budget        *float64
	TravelerCount int
	Preferences   map[string]any
	Description   *string
}

func (c TripCreate) Validate() error {
	details := map[string]any{}
	if strings.TrimSpace(c.Title) == "" {
		details["title"] = "must be non-empty"
	}
	if strings.TrimSpace(c.Destination) == "" {
		details["destination"] = "must be non-empty"
	}
	if c.StartDate.IsZero() {
		details["start_date"] = "is required"
	}
	if c.EndDate.IsZero() {
		details["end_date"] = "is required"
	}
	if c.TravelerCount < 1 {
		details["traveler_count"] = "must be at least 1"
	}
	if len(details) > 0 {
		return Validation("invalid trip", details)
	}
	return nil
}

// TripUpdate is a partial TripCreate. Only specified fields are sent.
type TripUpdate struct {
	// Title, Destination, dates and TravelerCount are optional but cannot be null.
	Title         Optional[string]
	Destination   Optional[string]
	StartDate     Optional[time.Time]
	EndDate       Optional[time.Time]
	TravelerCount Optional[int]

	Budget      Optional[float64]
	Preferences Optional[map[string]any]
	Description Optional[string]
	Status      Optional[domain.TripStatus]
}

func (u TripUpdate) Validate() error {
	details := map[string]any{}
	for name, null := range map[string]bool{
		"title":          u.Title.IsNull(),
		"destination":    u.Destination.IsNull(),
		"start_date":     u.StartDate.IsNull(),
		"end_date":       u.EndDate.IsNull(),
		"traveler_count": u.TravelerCount.IsNull(),
		"status":         u.Status.IsNull(),
	} {
		if null {
			details[name] = "cannot be null"
		}
	}
	if u.TravelerCount.IsSpecified() && !u.TravelerCount.IsNull() && u.TravelerCount.Value() < 1 {
		details["traveler_count"] = "must be at least 1"
	}
	if len(details) > 0 {
		return Validation("invalid trip update", details)
	}
	return nil
}

// TripsAPI is the trip surface of the planner service.
type TripsAPI interface {
	GenerateTrip(ctx context.Context, req TripGenerateRequest) (domain.Trip, error)
	CreateTrip(ctx context.Context, req TripCreate) (domain.Trip, error)
	ListTrips(ctx context.Context, params ListParams) ([]domain.Trip, error)
	GetTrip(ctx context.Context, id domain.TripID) (domain.Trip, error)
	UpdateTrip(ctx context.Context, id domain.TripID, req TripUpdate) (domain.Trip, error)
	DeleteTrip(ctx context.Context, id domain.TripID) error
}
