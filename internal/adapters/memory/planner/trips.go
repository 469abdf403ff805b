package planner

import (
	"maps"
	"sort"

	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/plannerapi"
)

func (b *Backend) CreateTrip(owner domain.UserID, req plannerapi.TripCreate) (domain.Trip, error) {
	if err := req.Validate(); err != nil {
		return domain.Trip{}, err
	}
	now := b.clock.Now()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextTrip++
	t := domain.Trip{
		ID:            b.nextTrip,
		UserID:        owner,
		Title:         req.Title,
		Destination:   req.Destination,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Budget:        req.Budget,
		TravelerCount: req.TravelerCount,
		Preferences:   maps.Clone(req.Preferences),
		Description:   req.Description,
		Status:        domain.TripStatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	b.trips[t.ID] = t
	return cloneTrip(t), nil
}

// ListTrips returns the owner's trips, newest first.
func (b *Backend) ListTrips(owner domain.UserID, params plannerapi.ListParams) ([]domain.Trip, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.Trip, 0)
	for _, t := range b.trips {
		if t.UserID == owner {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	lo, hi, err := window(len(out), params.Skip, params.Limit)
	if err != nil {
		return nil, err
	}
	out = out[lo:hi]
	for i := range out {
		// List responses carry no itinerary.
		out[i] = cloneTrip(out[i])
		out[i].Days = nil
	}
	return out, nil
}

func (b *Backend) GetTrip(owner domain.UserID, id domain.TripID) (domain.Trip, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	t, ok := b.trips[id]
	if !ok || t.UserID != owner {
		return domain.Trip{}, ErrNotFound
	}
	return cloneTrip(t), nil
}

func (b *Backend) UpdateTrip(owner domain.UserID, id domain.TripID, req plannerapi.TripUpdate) (domain.Trip, error) {
	if err := req.Validate(); err != nil {
		return domain.Trip{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.trips[id]
	if !ok || t.UserID != owner {
		return domain.Trip{}, ErrNotFound
	}
	if req.Title.IsSpecified() {
		t.Title = req.Title.Value()
	}
	if req.Destination.IsSpecified() {
		t.Destination = req.Destination.Value()
	}
	if req.StartDate.IsSpecified() {
		t.StartDate = req.StartDate.Value()
	}
	if req.EndDate.IsSpecified() {
		t.EndDate = req.EndDate.Value()
	}
	if req.TravelerCount.IsSpecified() {
		t.TravelerCount = req.TravelerCount.Value()
	}
	if req.Status.IsSpecified() {
		t.Status = req.Status.Value()
	}
	if req.Budget.IsSpecified() {
		t.Budget = optionalPtr(req.Budget)
	}
	if req.Description.IsSpecified() {
		t.Description = optionalPtr(req.Description)
	}
	if req.Preferences.IsSpecified() {
		t.Preferences = maps.Clone(req.Preferences.Value())
	}
	t.UpdatedAt = b.clock.Now()
	b.trips[id] = t
	return cloneTrip(t), nil
}

// DeleteTrip removes a trip and the expenses attached to it.
func (b *Backend) DeleteTrip(owner domain.UserID, id domain.TripID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.trips[id]
	if !ok || t.UserID != owner {
		return ErrNotFound
	}
	delete(b.trips, id)
	for eid, e := range b.expenses {
		if e.TripID != nil && *e.TripID == id {
			delete(b.expenses, eid)
		}
	}
	return nil
}

func optionalPtr[T any](o plannerapi.Optional[T]) *T {
	if o.IsNull() {
		return nil
	}
	v := o.Value()
	return &v
}

func cloneTrip(t domain.Trip) domain.Trip {
	out := t
	out.Preferences = maps.Clone(t.Preferences)
	out.AIGenerated = maps.Clone(t.AIGenerated)
	if t.Days != nil {
		out.Days = make([]domain.TripDay, len(t.Days))
		for i, d := range t.Days {
			d.Activities = append([]domain.TripActivity(nil), d.Activities...)
			out.Days[i] = d
		}
	}
	return out
}
