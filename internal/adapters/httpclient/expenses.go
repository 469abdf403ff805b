package httpclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/oas"
	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/plannerapi"
)

func (c *Client) CreateExpense(ctx context.Context, req plannerapi.ExpenseCreate) (domain.Expense, error) {
	var out oas.Expense
	if err := c.do(ctx, call{method: http.MethodPost, path: "/expenses/", body: oas.ExpenseCreateToOAS(req), out: &out}); err != nil {
		return domain.Expense{}, err
	}
	return oas.ExpenseFromOAS(out), nil
}

func (c *Client) ListExpenses(ctx context.Context, params plannerapi.ExpenseListParams) ([]domain.Expense, error) {
	q := url.Values{}
	if err := addQuery(q, "trip_id", params.TripID); err != nil {
		return nil, err
	}
	if err := addQuery(q, "skip", params.Skip); err != nil {
		return nil, err
	}
	if err := addQuery(q, "limit", params.Limit); err != nil {
		return nil, err
	}
	var out []oas.Expense
	if err := c.do(ctx, call{method: http.MethodGet, path: "/expenses/", query: q, out: &out}); err != nil {
		return nil, err
	}
	es := make([]domain.Expense, 0, len(out))
	for _, e := range out {
		es = append(es, oas.ExpenseFromOAS(e))
	}
	return es, nil
}

func (c *Client) GetExpense(ctx context.Context, id domain.ExpenseID) (domain.Expense, error) {
	p, err := pathParam("id", id)
	if err != nil {
		return domain.Expense{}, err
	}
	var out oas.Expense
	if err := c.do(ctx, call{method: http.MethodGet, path: "/expenses/" + p, out: &out}); err != nil {
		return domain.Expense{}, err
	}
	return oas.ExpenseFromOAS(out), nil
}

func (c *Client) UpdateExpense(ctx context.Context, id domain.ExpenseID, req plannerapi.ExpenseUpdate) (domain.Expense, error) {
	p, err := pathParam("id", id)
	if err != nil {
		return domain.Expense{}, err
	}
	var out oas.Expense
	if err := c.do(ctx, call{method: http.MethodPut, path: "/expenses/" + p, body: oas.ExpenseUpdateToOAS(req), out: &out}); err != nil {
		return domain.Expense{}, err
	}
	return oas.ExpenseFromOAS(out), nil
}

func (c *Client) DeleteExpense(ctx context.Context, id domain.ExpenseID) error {
	p, err := pathParam("id", id)
	if err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodDelete, path: "/expenses/" + p})
}

func (c *Client) AnalyzeBudget(ctx context.Context, tripID domain.TripID) (domain.BudgetAnalysis, error) {
	p, err := pathParam("tripId", tripID)
	if err != nil {
		return domain.BudgetAnalysis{}, err
	}
	var out oas.BudgetAnalysis
	if err := c.do(ctx, call{method: http.MethodGet, path: "/expenses/analysis/" + p, out: &out}); err != nil {
		return domain.BudgetAnalysis{}, err
	}
	return oas.AnalysisFromOAS(out), nil
}
