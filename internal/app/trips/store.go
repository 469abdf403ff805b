// Package trips keeps the client's trip collection consistent with the planner service.
package trips

import (
	"context"
	"io"
	"log"

	"github.com/Overland-East-Bay/trip-planner-client/internal/app/resource"
	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/plannerapi"
)

type Options struct {
	Logger *log.Logger
}

// Snapshot is a point-in-time copy of the store state.
type Snapshot = resource.Snapshot[domain.TripID, domain.Trip]

// Store owns the ordered trip list and the focused ("current") trip.
//
// Every mutation is applied only after the service confirms it. Calls are not
// serialized against each other: when two responses race, the last one applied wins.
type Store struct {
	api  plannerapi.TripsAPI
	coll *resource.Collection[domain.TripID, domain.Trip]
	log  *log.Logger
}

func NewStore(api plannerapi.TripsAPI, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{
		api:  api,
		coll: resource.NewCollection[domain.TripID, domain.Trip](),
		log:  logger,
	}
}

// FetchAll replaces the collection with the service's list, in the order returned.
func (s *Store) FetchAll(ctx context.Context, params plannerapi.ListParams) ([]domain.Trip, error) {
	var out []domain.Trip
	err := s.coll.Track(ctx, func(ctx context.Context) error {
		ts, err := s.api.ListTrips(ctx, params)
		if err != nil {
			return err
		}
		s.coll.ReplaceAll(ts)
		out = s.coll.Items()
		return nil
	})
	return out, err
}

// FetchOne replaces the focused trip with the service's representation of id.
// The list keeps its membership and order. Unlike a pure focus change, a list element
// with the same id is also overwritten with the fetched value, so the list and the
// focused trip never disagree about one id.
func (s *Store) FetchOne(ctx context.Context, id domain.TripID) (domain.Trip, error) {
	var out domain.Trip
	err := s.coll.Track(ctx, func(ctx context.Context) error {
		t, err := s.api.GetTrip(ctx, id)
		if err != nil {
			return err
		}
		s.coll.Focus(t)
		out = t
		return nil
	})
	return out, err
}

// Generate asks the AI generator for a new trip. On success the trip is prepended and
// focused; on failure (plannerapi.ErrGeneration among others) nothing changes.
func (s *Store) Generate(ctx context.Context, req plannerapi.TripGenerateRequest) (domain.Trip, error) {
	if err := req.Validate(); err != nil {
		return domain.Trip{}, err
	}
	req.Destination = domain.NormalizeHumanName(req.Destination)

	var out domain.Trip
	err := s.coll.Track(ctx, func(ctx context.Context) error {
		t, err := s.api.GenerateTrip(ctx, req)
		if err != nil {
			return err
		}
		s.coll.Prepend(t, true)
		s.log.Printf("trips: generated trip %s (%s, %d days)", t.ID, t.Destination, len(t.Days))
		out = t
		return nil
	})
	return out, err
}

// Create submits a new trip and prepends it. The focused trip is left untouched.
func (s *Store) Create(ctx context.Context, req plannerapi.TripCreate) (domain.Trip, error) {
	if err := req.Validate(); err != nil {
		return domain.Trip{}, err
	}
	req.Title = domain.NormalizeHumanName(req.Title)
	req.Destination = domain.NormalizeHumanName(req.Destination)

	var out domain.Trip
	err := s.coll.Track(ctx, func(ctx context.Context) error {
		t, err := s.api.CreateTrip(ctx, req)
		if err != nil {
			return err
		}
		s.coll.Prepend(t, false)
		out = t
		return nil
	})
	return out, err
}

// Update submits a partial update. The returned trip replaces the list element with the
// same id and, iff it has that id, the focused trip, from the same response.
func (s *Store) Update(ctx context.Context, id domain.TripID, req plannerapi.TripUpdate) (domain.Trip, error) {
	if err := req.Validate(); err != nil {
		return domain.Trip{}, err
	}

	var out domain.Trip
	err := s.coll.Track(ctx, func(ctx context.Context) error {
		t, err := s.api.UpdateTrip(ctx, id, req)
		if err != nil {
			return err
		}
		s.coll.Replace(t)
		out = t
		return nil
	})
	return out, err
}

// Delete removes the trip only after the service confirms the deletion.
func (s *Store) Delete(ctx context.Context, id domain.TripID) error {
	return s.coll.Track(ctx, func(ctx context.Context) error {
		if err := s.api.DeleteTrip(ctx, id); err != nil {
			return err
		}
		s.coll.Remove(id)
		return nil
	})
}

// Trips returns a copy of the ordered list.
func (s *Store) Trips() []domain.Trip { return s.coll.Items() }

// Current returns the focused trip, if any.
func (s *Store) Current() (domain.Trip, bool) { return s.coll.Focused() }

func (s *Store) Loading() bool { return s.coll.Loading() }

func (s *Store) Snapshot() Snapshot { return s.coll.Snapshot() }

// Subscribe registers fn for state change notifications.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) { return s.coll.Subscribe(fn) }

// Reset drops all cached trips, e.g. after logout.
func (s *Store) Reset() { s.coll.Reset() }
