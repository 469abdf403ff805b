package planner

import (
	"fmt"
	"maps"

	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/plannerapi"
)

// MaxGeneratedDays bounds the itinerary length the generator accepts.
const MaxGeneratedDays = 30

// GenerateTrip drafts a deterministic itinerary: one day per date, a sightseeing slot
// and a meal each day, with the budget split evenly across activities.
func (b *Backend) GenerateTrip(owner domain.UserID, req plannerapi.TripGenerateRequest) (domain.Trip, error) {
	if err := req.Validate(); err != nil {
		return domain.Trip{}, err
	}
	if req.EndDate.Before(req.StartDate) {
		return domain.Trip{}, &RejectedError{Reason: "end date is before start date"}
	}
	days := int(req.EndDate.Sub(req.StartDate).Hours()/24) + 1
	if days > MaxGeneratedDays {
		return domain.Trip{}, &RejectedError{Reason: fmt.Sprintf("trips longer than %d days are not supported", MaxGeneratedDays)}
	}

	var perActivity *float64
	if req.Budget != nil {
		v := *req.Budget / float64(days*2)
		perActivity = &v
	}
	now := b.clock.Now()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextTrip++
	t := domain.Trip{
		ID:            b.nextTrip,
		UserID:        owner,
		Title:         fmt.Sprintf("%s %d-day trip", req.Destination, days),
		Destination:   req.Destination,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Budget:        req.Budget,
		TravelerCount: req.TravelerCount,
		Preferences:   maps.Clone(req.Preferences),
		Status:        domain.TripStatusPlanned,
		AIGenerated:   map[string]any{"generator": "devapi", "days": days},
		CreatedAt:     now,
		UpdatedAt:     now,
		Days:          make([]domain.TripDay, 0, days),
	}
	for i := 0; i < days; i++ {
		title := fmt.Sprintf("Day %d in %s", i+1, req.Destination)
		b.nextDetail++
		day := domain.TripDay{
			ID:        b.nextDetail,
			DayNumber: i + 1,
			Date:      req.StartDate.AddDate(0, 0, i),
			Title:     &title,
		}
		for j, slot := range []struct{ kind, name, start, end string }{
			{"sightseeing", "Explore " + req.Destination, "09:00", "12:00"},
			{"dining", "Local dinner", "18:30", "20:00"},
		} {
			b.nextDetail++
			start, end := slot.start, slot.end
			duration := 180
			if slot.kind == "dining" {
				duration = 90
			}
			day.Activities = append(day.Activities, domain.TripActivity{
				ID:           b.nextDetail,
				ActivityType: slot.kind,
				Name:         slot.name,
				StartTime:    &start,
				EndTime:      &end,
				Duration:     &duration,
				Cost:         perActivity,
				OrderIndex:   j,
			})
		}
		t.Days = append(t.Days, day)
	}
	b.trips[t.ID] = t
	return cloneTrip(t), nil
}
