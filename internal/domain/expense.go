package domain

import "time"

// Expense is a single spending record, optionally attached to a trip.
type Expense struct {
	ID     ExpenseID
	UserID UserID
	TripID *TripID

	Category      string
	Amount        float64
	Currency      string
	Description   *string
	ExpenseDate   time.Time // date-only
	PaymentMethod *string
	Notes         *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResourceID implements resource.Identifiable.
func (e Expense) ResourceID() ExpenseID { return e.ID }

// BudgetAnalysis is the server-computed spending summary for one trip.
type BudgetAnalysis struct {
	TotalBudget        float64
	TotalSpent         float64
	Remaining          float64
	SpendingPercentage float64
	CategoryBreakdown  map[string]float64
	Status             string
}

// OverBudget reports whether spending exceeded the trip budget.
func (b BudgetAnalysis) OverBudget() bool { return b.TotalBudget > 0 && b.TotalSpent > b.TotalBudget }
