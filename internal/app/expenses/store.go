// Package expenses keeps the client's expense records consistent with the planner service.
package expenses

import (
	"context"
	"io"
	"log"
	"sync"

	"github.com/Overland-East-Bay/trip-planner-client/internal/app/resource"
	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/plannerapi"
)

type Options struct {
	Logger *log.Logger
}

type Snapshot = resource.Snapshot[domain.ExpenseID, domain.Expense]

// Store follows the same pessimistic rules as trips.Store. It additionally caches the
// most recent budget analysis.
type Store struct {
	api  plannerapi.ExpensesAPI
	coll *resource.Collection[domain.ExpenseID, domain.Expense]
	log  *log.Logger

	mu       sync.Mutex
	analysis *analysisEntry
}

type analysisEntry struct {
	tripID domain.TripID
	value  domain.BudgetAnalysis
}

func NewStore(api plannerapi.ExpensesAPI, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{
		api:  api,
		coll: resource.NewCollection[domain.ExpenseID, domain.Expense](),
		log:  logger,
	}
}

// FetchAll replaces the collection with the service's list. params.TripID narrows it
// to one trip.
func (s *Store) FetchAll(ctx context.Context, params plannerapi.ExpenseListParams) ([]domain.Expense, error) {
	var out []domain.Expense
	err := s.coll.Track(ctx, func(ctx context.Context) error {
		es, err := s.api.ListExpenses(ctx, params)
		if err != nil {
			return err
		}
		s.coll.ReplaceAll(es)
		out = s.coll.Items()
		return nil
	})
	return out, err
}

func (s *Store) FetchOne(ctx context.Context, id domain.ExpenseID) (domain.Expense, error) {
	var out domain.Expense
	err := s.coll.Track(ctx, func(ctx context.Context) error {
		e, err := s.api.GetExpense(ctx, id)
		if err != nil {
			return err
		}
		s.coll.Focus(e)
		out = e
		return nil
	})
	return out, err
}

func (s *Store) Create(ctx context.Context, req plannerapi.ExpenseCreate) (domain.Expense, error) {
	if err := req.Validate(); err != nil {
		return domain.Expense{}, err
	}
	req.Category = domain.NormalizeHumanName(req.Category)

	var out domain.Expense
	err := s.coll.Track(ctx, func(ctx context.Context) error {
		e, err := s.api.CreateExpense(ctx, req)
		if err != nil {
			return err
		}
		s.coll.Prepend(e, false)
		s.invalidateAnalysis(e.TripID)
		out = e
		return nil
	})
	return out, err
}

func (s *Store) Update(ctx context.Context, id domain.ExpenseID, req plannerapi.ExpenseUpdate) (domain.Expense, error) {
	if err := req.Validate(); err != nil {
		return domain.Expense{}, err
	}

	var out domain.Expense
	err := s.coll.Track(ctx, func(ctx context.Context) error {
		prev, had := s.coll.Get(id)
		e, err := s.api.UpdateExpense(ctx, id, req)
		if err != nil {
			return err
		}
		s.coll.Replace(e)
		if had {
			s.invalidateAnalysis(prev.TripID)
		}
		s.invalidateAnalysis(e.TripID)
		out = e
		return nil
	})
	return out, err
}

func (s *Store) Delete(ctx context.Context, id domain.ExpenseID) error {
	return s.coll.Track(ctx, func(ctx context.Context) error {
		prev, had := s.coll.Get(id)
		if err := s.api.DeleteExpense(ctx, id); err != nil {
			return err
		}
		s.coll.Remove(id)
		if had {
			s.invalidateAnalysis(prev.TripID)
		}
		return nil
	})
}

// Analyze fetches the budget analysis of tripID and caches it.
func (s *Store) Analyze(ctx context.Context, tripID domain.TripID) (domain.BudgetAnalysis, error) {
	var out domain.BudgetAnalysis
	err := s.coll.Track(ctx, func(ctx context.Context) error {
		a, err := s.api.AnalyzeBudget(ctx, tripID)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.analysis = &analysisEntry{tripID: tripID, value: a.Clone()}
		s.mu.Unlock()
		if a.OverBudget() {
			s.log.Printf("expenses: trip %s is over budget (%.2f of %.2f)", tripID, a.TotalSpent, a.TotalBudget)
		}
		out = a
		return nil
	})
	return out, err
}

// Analysis returns the cached analysis and the trip it belongs to. The cache is dropped
// when an expense of that trip changes.
func (s *Store) Analysis() (domain.TripID, domain.BudgetAnalysis, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.analysis == nil {
		return 0, domain.BudgetAnalysis{}, false
	}
	return s.analysis.tripID, s.analysis.value.Clone(), true
}

func (s *Store) invalidateAnalysis(tripID *domain.TripID) {
	if tripID == nil {
		return
	}
	s.mu.Lock()
	if s.analysis != nil && s.analysis.tripID == *tripID {
		s.analysis = nil
	}
	s.mu.Unlock()
}

func (s *Store) Expenses() []domain.Expense { return s.coll.Items() }

func (s *Store) Current() (domain.Expense, bool) { return s.coll.Focused() }

func (s *Store) Loading() bool { return s.coll.Loading() }

func (s *Store) Snapshot() Snapshot { return s.coll.Snapshot() }

func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) { return s.coll.Subscribe(fn) }

// Reset drops all cached expenses and the analysis.
func (s *Store) Reset() {
	s.coll.Reset()
	s.mu.Lock()
	s.analysis = nil
	s.mu.Unlock()
}
