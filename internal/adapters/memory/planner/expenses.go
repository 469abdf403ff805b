package planner

import (
	"sort"

	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/plannerapi"
)

// Budget statuses reported by AnalyzeBudget.
const (
	BudgetNone      = "no_budget"
	BudgetUnder     = "under_budget"
	BudgetNearLimit = "near_limit"
	BudgetOver      = "over_budget"
)

// ownsTripLocked reports whether id is one of owner's trips. Callers hold b.mu.
func (b *Backend) ownsTripLocked(owner domain.UserID, id *domain.TripID) bool {
	if id == nil {
		return true
	}
	t, ok := b.trips[*id]
	return ok && t.UserID == owner
}

func (b *Backend) CreateExpense(owner domain.UserID, req plannerapi.ExpenseCreate) (domain.Expense, error) {
	if err := req.Validate(); err != nil {
		return domain.Expense{}, err
	}
	currency := DefaultCurrency
	if req.Currency != nil && *req.Currency != "" {
		currency = *req.Currency
	}
	now := b.clock.Now()

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.ownsTripLocked(owner, req.TripID) {
		return domain.Expense{}, ErrNotFound
	}
	b.nextExp++
	e := domain.Expense{
		ID:            b.nextExp,
		UserID:        owner,
		TripID:        req.TripID,
		Category:      req.Category,
		Amount:        req.Amount,
		Currency:      currency,
		Description:   req.Description,
		ExpenseDate:   req.ExpenseDate,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	b.expenses[e.ID] = e
	return e, nil
}

// ListExpenses returns the owner's expenses, newest first, optionally for one trip.
func (b *Backend) ListExpenses(owner domain.UserID, params plannerapi.ExpenseListParams) ([]domain.Expense, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.Expense, 0)
	for _, e := range b.expenses {
		if e.UserID != owner {
			continue
		}
		if params.TripID != nil && (e.TripID == nil || *e.TripID != *params.TripID) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	lo, hi, err := window(len(out), params.Skip, params.Limit)
	if err != nil {
		return nil, err
	}
	return out[lo:hi], nil
}

func (b *Backend) GetExpense(owner domain.UserID, id domain.ExpenseID) (domain.Expense, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.expenses[id]
	if !ok || e.UserID != owner {
		return domain.Expense{}, ErrNotFound
	}
	return e, nil
}

func (b *Backend) UpdateExpense(owner domain.UserID, id domain.ExpenseID, req plannerapi.ExpenseUpdate) (domain.Expense, error) {
	if err := req.Validate(); err != nil {
		return domain.Expense{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.expenses[id]
	if !ok || e.UserID != owner {
		return domain.Expense{}, ErrNotFound
	}
	if req.TripID.IsSpecified() {
		tid := optionalPtr(req.TripID)
		if !b.ownsTripLocked(owner, tid) {
			return domain.Expense{}, ErrNotFound
		}
		e.TripID = tid
	}
	if req.Category.IsSpecified() {
		e.Category = req.Category.Value()
	}
	if req.Amount.IsSpecified() {
		e.Amount = req.Amount.Value()
	}
	if req.Currency.IsSpecified() {
		e.Currency = DefaultCurrency
		if v := req.Currency.Value(); !req.Currency.IsNull() && v != "" {
			e.Currency = v
		}
	}
	if req.Description.IsSpecified() {
		e.Description = optionalPtr(req.Description)
	}
	if req.ExpenseDate.IsSpecified() {
		e.ExpenseDate = req.ExpenseDate.Value()
	}
	if req.PaymentMethod.IsSpecified() {
		e.PaymentMethod = optionalPtr(req.PaymentMethod)
	}
	if req.Notes.IsSpecified() {
		e.Notes = optionalPtr(req.Notes)
	}
	e.UpdatedAt = b.clock.Now()
	b.expenses[id] = e
	return e, nil
}

func (b *Backend) DeleteExpense(owner domain.UserID, id domain.ExpenseID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.expenses[id]
	if !ok || e.UserID != owner {
		return ErrNotFound
	}
	delete(b.expenses, id)
	return nil
}

// AnalyzeBudget summarizes spending on one of owner's trips against its budget.
func (b *Backend) AnalyzeBudget(owner domain.UserID, tripID domain.TripID) (domain.BudgetAnalysis, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	t, ok := b.trips[tripID]
	if !ok || t.UserID != owner {
		return domain.BudgetAnalysis{}, ErrNotFound
	}

	a := domain.BudgetAnalysis{CategoryBreakdown: map[string]float64{}}
	if t.Budget != nil {
		a.TotalBudget = *t.Budget
	}
	for _, e := range b.expenses {
		if e.TripID == nil || *e.TripID != tripID {
			continue
		}
		a.TotalSpent += e.Amount
		a.CategoryBreakdown[e.Category] += e.Amount
	}
	a.Remaining = a.TotalBudget - a.TotalSpent
	switch {
	case a.TotalBudget <= 0:
		a.Status = BudgetNone
	default:
		a.SpendingPercentage = a.TotalSpent / a.TotalBudget * 100
		switch {
		case a.TotalSpent > a.TotalBudget:
			a.Status = BudgetOver
		case a.SpendingPercentage >= 80:
			a.Status = BudgetNearLimit
		default:
			a.Status = BudgetUnder
		}
	}
	return a, nil
}
