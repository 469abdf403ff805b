package oas

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/plannerapi"
)

// Date converts t to a date-only wire value, dropping the clock and zone.
func Date(t time.Time) openapi_types.Date {
	return openapi_types.Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func toNullable[T, W any](o plannerapi.Optional[T], conv func(T) W) nullable.Nullable[W] {
	var out nullable.Nullable[W]
	switch {
	case !o.IsSpecified():
	case o.IsNull():
		out.SetNull()
	default:
		out.Set(conv(o.Value()))
	}
	return out
}

func fromNullable[W, T any](n nullable.Nullable[W], conv func(W) T) plannerapi.Optional[T] {
	if !n.IsSpecified() {
		return plannerapi.Unspecified[T]()
	}
	if n.IsNull() {
		return plannerapi.Null[T]()
	}
	v, err := n.Get()
	if err != nil {
		return plannerapi.Unspecified[T]()
	}
	return plannerapi.Some(conv(v))
}

func same[T any](v T) T { return v }

func fromDate(d openapi_types.Date) time.Time { return d.Time }

// Users.

func RegisterToOAS(r plannerapi.RegisterRequest) UserRegister {
	return UserRegister{
		Email:    openapi_types.Email(r.Email),
		Username: r.Username,
		Password: r.Password,
		FullName: r.FullName,
	}
}

func RegisterFromOAS(r UserRegister) plannerapi.RegisterRequest {
	return plannerapi.RegisterRequest{
		Email:    string(r.Email),
		Username: r.Username,
		Password: r.Password,
		FullName: r.FullName,
	}
}

func UserFromOAS(u User) domain.UserProfile {
	return domain.UserProfile{
		ID:        domain.UserID(u.Id),
		Email:     u.Email,
		Username:  u.Username,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Time,
	}
}

func UserToOAS(u domain.UserProfile) User {
	return User{
		Id:        int64(u.ID),
		Email:     u.Email,
		Username:  u.Username,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		CreatedAt: Timestamp{u.CreatedAt},
	}
}

// Trips.

func GenerateToOAS(r plannerapi.TripGenerateRequest) TripGenerateRequest {
	return TripGenerateRequest{
		Destination:   r.Destination,
		StartDate:     Date(r.StartDate),
		EndDate:       Date(r.EndDate),
		Budget:        r.Budget,
		TravelerCount: r.TravelerCount,
		Preferences:   r.Preferences,
	}
}

func GenerateFromOAS(r TripGenerateRequest) plannerapi.TripGenerateRequest {
	return plannerapi.TripGenerateRequest{
		Destination:   r.Destination,
		StartDate:     r.StartDate.Time,
		EndDate:       r.EndDate.Time,
		Budget:        r.Budget,
		TravelerCount: r.TravelerCount,
		Preferences:   r.Preferences,
	}
}

func TripCreateToOAS(c plannerapi.TripCreate) TripCreate {
	return TripCreate{
		Title:         c.Title,
		Destination:   c.Destination,
		StartDate:     Date(c.StartDate),
		EndDate:       Date(c.EndDate),
		Budget:        c.Budget,
		TravelerCount: c.TravelerCount,
		Preferences:   c.Preferences,
		Description:   c.Description,
	}
}

func TripCreateFromOAS(c TripCreate) plannerapi.TripCreate {
	return plannerapi.TripCreate{
		Title:         c.Title,
		Destination:   c.Destination,
		StartDate:     c.StartDate.Time,
		EndDate:       c.EndDate.Time,
		Budget:        c.Budget,
		TravelerCount: c.TravelerCount,
		Preferences:   c.Preferences,
		Description:   c.Description,
	}
}

func TripUpdateToOAS(u plannerapi.TripUpdate) TripUpdate {
	return TripUpdate{
		Title:         toNullable(u.Title, same[string]),
		Destination:   toNullable(u.Destination, same[string]),
		StartDate:     toNullable(u.StartDate, Date),
		EndDate:       toNullable(u.EndDate, Date),
		Budget:        toNullable(u.Budget, same[float64]),
		TravelerCount: toNullable(u.TravelerCount, same[int]),
		Preferences:   toNullable(u.Preferences, same[map[string]any]),
		Description:   toNullable(u.Description, same[string]),
		Status:        toNullable(u.Status, func(s domain.TripStatus) string { return string(s) }),
	}
}

func TripUpdateFromOAS(u TripUpdate) plannerapi.TripUpdate {
	return plannerapi.TripUpdate{
		Title:         fromNullable(u.Title, same[string]),
		Destination:   fromNullable(u.Destination, same[string]),
		StartDate:     fromNullable(u.StartDate, fromDate),
		EndDate:       fromNullable(u.EndDate, fromDate),
		Budget:        fromNullable(u.Budget, same[float64]),
		TravelerCount: fromNullable(u.TravelerCount, same[int]),
		Preferences:   fromNullable(u.Preferences, same[map[string]any]),
		Description:   fromNullable(u.Description, same[string]),
		Status:        fromNullable(u.Status, func(s string) domain.TripStatus { return domain.TripStatus(s) }),
	}
}

func TripFromOAS(t Trip) domain.Trip {
	out := domain.Trip{
		ID:            domain.TripID(t.Id),
		UserID:        domain.UserID(t.UserId),
		Title:         t.Title,
		Destination:   t.Destination,
		StartDate:     t.StartDate.Time,
		EndDate:       t.EndDate.Time,
		Budget:        t.Budget,
		TravelerCount: t.TravelerCount,
		Preferences:   t.Preferences,
		Description:   t.Description,
		Status:        domain.TripStatus(t.Status),
		AIGenerated:   t.AiGenerated,
		CreatedAt:     t.CreatedAt.Time,
		UpdatedAt:     t.UpdatedAt.Time,
	}
	if len(t.Days) > 0 {
		out.Days = make([]domain.TripDay, 0, len(t.Days))
		for _, d := range t.Days {
			day := domain.TripDay{
				ID:          d.Id,
				DayNumber:   d.DayNumber,
				Date:        d.Date.Time,
				Title:       d.Title,
				Description: d.Description,
			}
			for _, a := range d.Activities {
				day.Activities = append(day.Activities, domain.TripActivity{
					ID:           a.Id,
					ActivityType: a.ActivityType,
					Name:         a.Name,
					Location:     a.Location,
					StartTime:    a.StartTime,
					EndTime:      a.EndTime,
					Duration:     a.Duration,
					Cost:         a.Cost,
					Description:  a.Description,
					Notes:        a.Notes,
					OrderIndex:   a.OrderIndex,
				})
			}
			out.Days = append(out.Days, day)
		}
	}
	return out
}

func TripToOAS(t domain.Trip) Trip {
	out := Trip{
		Id:            int64(t.ID),
		UserId:        int64(t.UserID),
		Title:         t.Title,
		Destination:   t.Destination,
		StartDate:     Date(t.StartDate),
		EndDate:       Date(t.EndDate),
		Budget:        t.Budget,
		TravelerCount: t.TravelerCount,
		Preferences:   t.Preferences,
		Description:   t.Description,
		Status:        string(t.Status),
		AiGenerated:   t.AIGenerated,
		CreatedAt:     Timestamp{t.CreatedAt},
		UpdatedAt:     Timestamp{t.UpdatedAt},
	}
	for _, d := range t.Days {
		day := TripDay{
			Id:          d.ID,
			DayNumber:   d.DayNumber,
			Date:        Date(d.Date),
			Title:       d.Title,
			Description: d.Description,
		}
		for _, a := range d.Activities {
			day.Activities = append(day.Activities, TripActivity{
				Id:           a.ID,
				ActivityType: a.ActivityType,
				Name:         a.Name,
				Location:     a.Location,
				StartTime:    a.StartTime,
				EndTime:      a.EndTime,
				Duration:     a.Duration,
				Cost:         a.Cost,
				Description:  a.Description,
				Notes:        a.Notes,
				OrderIndex:   a.OrderIndex,
			})
		}
		out.Days = append(out.Days, day)
	}
	return out
}

// Expenses.

func tripIDPtr(p *int64) *domain.TripID {
	if p == nil {
		return nil
	}
	id := domain.TripID(*p)
	return &id
}

func int64Ptr(p *domain.TripID) *int64 {
	if p == nil {
		return nil
	}
	v := int64(*p)
	return &v
}

func ExpenseCreateToOAS(c plannerapi.ExpenseCreate) ExpenseCreate {
	return ExpenseCreate{
		TripId:        int64Ptr(c.TripID),
		Category:      c.Category,
		Amount:        c.Amount,
		Currency:      c.Currency,
		Description:   c.Description,
		ExpenseDate:   Date(c.ExpenseDate),
		PaymentMethod: c.PaymentMethod,
		Notes:         c.Notes,
	}
}

func ExpenseCreateFromOAS(c ExpenseCreate) plannerapi.ExpenseCreate {
	return plannerapi.ExpenseCreate{
		TripID:        tripIDPtr(c.TripId),
		Category:      c.Category,
		Amount:        c.Amount,
		Currency:      c.Currency,
		Description:   c.Description,
		ExpenseDate:   c.ExpenseDate.Time,
		PaymentMethod: c.PaymentMethod,
		Notes:         c.Notes,
	}
}

func ExpenseUpdateToOAS(u plannerapi.ExpenseUpdate) ExpenseUpdate {
	return ExpenseUpdate{
		TripId:        toNullable(u.TripID, func(id domain.TripID) int64 { return int64(id) }),
		Category:      toNullable(u.Category, same[string]),
		Amount:        toNullable(u.Amount, same[float64]),
		Currency:      toNullable(u.Currency, same[string]),
		Description:   toNullable(u.Description, same[string]),
		ExpenseDate:   toNullable(u.ExpenseDate, Date),
		PaymentMethod: toNullable(u.PaymentMethod, same[string]),
		Notes:         toNullable(u.Notes, same[string]),
	}
}

func ExpenseUpdateFromOAS(u ExpenseUpdate) plannerapi.ExpenseUpdate {
	return plannerapi.ExpenseUpdate{
		TripID:        fromNullable(u.TripId, func(id int64) domain.TripID { return domain.TripID(id) }),
		Category:      fromNullable(u.Category, same[string]),
		Amount:        fromNullable(u.Amount, same[float64]),
		Currency:      fromNullable(u.Currency, same[string]),
		Description:   fromNullable(u.Description, same[string]),
		ExpenseDate:   fromNullable(u.ExpenseDate, fromDate),
		PaymentMethod: fromNullable(u.PaymentMethod, same[string]),
		Notes:         fromNullable(u.Notes, same[string]),
	}
}

func ExpenseFromOAS(e Expense) domain.Expense {
	return domain.Expense{
		ID:            domain.ExpenseID(e.Id),
		UserID:        domain.UserID(e.UserId),
		TripID:        tripIDPtr(e.TripId),
		Category:      e.Category,
		Amount:        e.Amount,
		Currency:      e.Currency,
		Description:   e.Description,
		ExpenseDate:   e.ExpenseDate.Time,
		PaymentMethod: e.PaymentMethod,
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt.Time,
		UpdatedAt:     e.UpdatedAt.Time,
	}
}

func ExpenseToOAS(e domain.Expense) Expense {
	return Expense{
		Id:            int64(e.ID),
		UserId:        int64(e.UserID),
		TripId:        int64Ptr(e.TripID),
		Category:      e.Category,
		Amount:        e.Amount,
		Currency:      e.Currency,
		Description:   e.Description,
		ExpenseDate:   Date(e.ExpenseDate),
		PaymentMethod: e.PaymentMethod,
		Notes:         e.Notes,
		CreatedAt:     Timestamp{e.CreatedAt},
		UpdatedAt:     Timestamp{e.UpdatedAt},
	}
}

func AnalysisFromOAS(a BudgetAnalysis) domain.BudgetAnalysis {
	return domain.BudgetAnalysis{
		TotalBudget:        a.TotalBudget,
		TotalSpent:         a.TotalSpent,
		Remaining:          a.Remaining,
		SpendingPercentage: a.SpendingPercentage,
		CategoryBreakdown:  a.CategoryBreakdown,
		Status:             a.Status,
	}
}

func AnalysisToOAS(a domain.BudgetAnalysis) BudgetAnalysis {
	breakdown := a.CategoryBreakdown
	if breakdown == nil {
		breakdown = map[string]float64{}
	}
	return BudgetAnalysis{
		TotalBudget:        a.TotalBudget,
		TotalSpent:         a.TotalSpent,
		Remaining:          a.Remaining,
		SpendingPercentage: a.SpendingPercentage,
		CategoryBreakdown:  breakdown,
		Status:             a.Status,
	}
}
