package plannerapi

import (
	"context"
	"strings"
	"time"

	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
)

type ExpenseCreate struct {
	TripID        *domain.TripID
	Category      string
	Amount        float64
	Currency      *string
	Description   *string
	ExpenseDate   time.Time
	PaymentMethod *string
	Notes         *string
}

func (c ExpenseCreate) Validate() error {
	details := map[string]any{}
	if strings.TrimSpace(c.Category) == "" {
		details["category"] = "must be non-empty"
	}
	if c.Amount < 0 {
		details["amount"] = "must not be negative"
	}
	if c.ExpenseDate.IsZero() {
		details["expense_date"] = "is required"
	}
	if len(details) > 0 {
		return Validation("invalid expense", details)
	}
	return nil
}

// ExpenseUpdate is a partial ExpenseCreate.
type ExpenseUpdate struct {
	TripID        Optional[domain.TripID]
	Category      Optional[string]
	Amount        Optional[float64]
	Currency      Optional[string]
	Description   Optional[string]
	ExpenseDate   Optional[time.Time]
	PaymentMethod Optional[string]
	Notes         Optional[string]
}

func (u ExpenseUpdate) Validate() error {
	details := map[string]any{}
	if u.Category.IsNull() {
		details["category"] = "cannot be null"
	}
	if u.Amount.IsNull() {
		details["amount"] = "cannot be null"
	} else if u.Amount.IsSpecified() && u.Amount.Value() < 0 {
		details["amount"] = "must not be negative"
	}
	if u.ExpenseDate.IsNull() {
		details["expense_date"] = "cannot be null"
	}
	if len(details) > 0 {
		return Validation("invalid expense update", details)
	}
	return nil
}

// ExpenseListParams filters and pages the expense list.
type ExpenseListParams struct {
	TripID *domain.TripID
	Skip   *int
	Limit  *int
}

// ExpensesAPI is the expense surface of the planner service.
type ExpensesAPI interface {
	CreateExpense(ctx context.Context, req ExpenseCreate) (domain.Expense, error)
	ListExpenses(ctx context.Context, params ExpenseListParams) ([]domain.Expense, error)
	GetExpense(ctx context.Context, id domain.ExpenseID) (domain.Expense, error)
	UpdateExpense(ctx context.Context, id domain.ExpenseID, req ExpenseUpdate) (domain.Expense, error)
	DeleteExpense(ctx context.Context, id domain.ExpenseID) error
	AnalyzeBudget(ctx context.Context, tripID domain.TripID) (domain.BudgetAnalysis, error)
}
