package httpclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/oas"
	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/plannerapi"
)

func (c *Client) GenerateTrip(ctx context.Context, req plannerapi.TripGenerateRequest) (domain.Trip, error) {
	var out oas.Trip
	err := c.do(ctx, call{method: http.MethodPost, path: "/trips/generate", body: oas.GenerateToOAS(req), out: &out, generation: true})
	if err != nil {
		return domain.Trip{}, err
	}
	return oas.TripFromOAS(out), nil
}

func (c *Client) CreateTrip(ctx context.Context, req plannerapi.TripCreate) (domain.Trip, error) {
	var out oas.Trip
	if err := c.do(ctx, call{method: http.MethodPost, path: "/trips/", body: oas.TripCreateToOAS(req), out: &out}); err != nil {
		return domain.Trip{}, err
	}
	return oas.TripFromOAS(out), nil
}

func (c *Client) ListTrips(ctx context.Context, params plannerapi.ListParams) ([]domain.Trip, error) {
	q := url.Values{}
	if err := addQuery(q, "skip", params.Skip); err != nil {
		return nil, err
	}
	if err := addQuery(q, "limit", params.Limit); err != nil {
		return nil, err
	}
	var out []oas.Trip
	if err := c.do(ctx, call{method: http.MethodGet, path: "/trips/", query: q, out: &out}); err != nil {
		return nil, err
	}
	ts := make([]domain.Trip, 0, len(out))
	for _, t := range out {
		ts = append(ts, oas.TripFromOAS(t))
	}
	return ts, nil
}

func (c *Client) GetTrip(ctx context.Context, id domain.TripID) (domain.Trip, error) {
	p, err := pathParam("id", id)
	if err != nil {
		return domain.Trip{}, err
	}
	var out oas.Trip
	if err := c.do(ctx, call{method: http.MethodGet, path: "/trips/" + p, out: &out}); err != nil {
		return domain.Trip{}, err
	}
	return oas.TripFromOAS(out), nil
}

func (c *Client) UpdateTrip(ctx context.Context, id domain.TripID, req plannerapi.TripUpdate) (domain.Trip, error) {
	p, err := pathParam("id", id)
	if err != nil {
		return domain.Trip{}, err
	}
	var out oas.Trip
	if err := c.do(ctx, call{method: http.MethodPut, path: "/trips/" + p, body: oas.TripUpdateToOAS(req), out: &out}); err != nil {
		return domain.Trip{}, err
	}
	return oas.TripFromOAS(out), nil
}

func (c *Client) DeleteTrip(ctx context.Context, id domain.TripID) error {
	p, err := pathParam("id", id)
	if err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodDelete, path: "/trips/" + p})
}
