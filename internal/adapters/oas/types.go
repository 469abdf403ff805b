// Package oas holds the JSON wire shapes of the planner REST API, written in the style
// of oapi-codegen output so both the HTTP client and the dev stub server share them.
package oas

import (
	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type UserRegister struct {
	Email    openapi_types.Email `json:"email"`
	Username string              `json:"username"`
	Password string              `json:"password"`
	FullName *string             `json:"full_name,omitempty"`
}

type UserLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type User struct {
	Id        int64     `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FullName  *string   `json:"full_name,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt Timestamp `json:"created_at"`
}

type TripGenerateRequest struct {
	Destination   string             `json:"destination"`
	StartDate     openapi_types.Date `json:"start_date"`
	EndDate       openapi_types.Date `json:"end_date"`
	Budget        *float64           `json:"budget,omitempty"`
	TravelerCount int                `json:"traveler_count"`
	Preferences   map[string]any     `json:"preferences,omitempty"`
}

type TripCreate struct {
	Title         string             `json:"title"`
	Destination   string             `json:"destination"`
	StartDate     openapi_types.Date `json:"start_date"`
	EndDate       openapi_types.Date `json:"end_date"`
	Budget        *float64           `json:"budget,omitempty"`
	TravelerCount int                `json:"traveler_count"`
	Preferences   map[string]any     `json:"preferences,omitempty"`
	Description   *string            `json:"description,omitempty"`
}

// TripUpdate omits unspecified fields and sends explicit nulls for cleared ones.
type TripUpdate struct {
	Title         nullable.Nullable[string]             `json:"title,omitempty"`
	Destination   nullable.Nullable[string]             `json:"destination,omitempty"`
	StartDate     nullable.Nullable[openapi_types.Date] `json:"start_date,omitempty"`
	EndDate       nullable.Nullable[openapi_types.Date] `json:"end_date,omitempty"`
	Budget        nullable.Nullable[float64]            `json:"budget,omitempty"`
	TravelerCount nullable.Nullable[int]                `json:"traveler_count,omitempty"`
	Preferences   nullable.Nullable[map[string]any]     `json:"preferences,omitempty"`
	Description   nullable.Nullable[string]             `json:"description,omitempty"`
	Status        nullable.Nullable[string]             `json:"status,omitempty"`
}

type Trip struct {
	Id            int64              `json:"id"`
	UserId        int64              `json:"user_id"`
	Title         string             `json:"title"`
	Destination   string             `json:"destination"`
	StartDate     openapi_types.Date `json:"start_date"`
	EndDate       openapi_types.Date `json:"end_date"`
	Budget        *float64           `json:"budget,omitempty"`
	TravelerCount int                `json:"traveler_count"`
	Preferences   map[string]any     `json:"preferences,omitempty"`
	Description   *string            `json:"description,omitempty"`
	Status        string             `json:"status"`
	AiGenerated   map[string]any     `json:"ai_generated,omitempty"`
	CreatedAt     Timestamp          `json:"created_at"`
	UpdatedAt     Timestamp          `json:"updated_at"`
	Days          []TripDay          `json:"days,omitempty"`
}

type TripDay struct {
	Id          int64              `json:"id"`
	DayNumber   int                `json:"day_number"`
	Date        openapi_types.Date `json:"date"`
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	Activities  []TripActivity     `json:"activities,omitempty"`
}

type TripActivity struct {
	Id           int64    `json:"id"`
	ActivityType string   `json:"activity_type"`
	Name         string   `json:"name"`
	Location     *string  `json:"location,omitempty"`
	StartTime    *string  `json:"start_time,omitempty"`
	EndTime      *string  `json:"end_time,omitempty"`
	Duration     *int     `json:"duration,omitempty"`
	Cost         *float64 `json:"cost,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
	OrderIndex   int      `json:"order_index"`
}

type ExpenseCreate struct {
	TripId        *int64             `json:"trip_id,omitempty"`
	Category      string             `json:"category"`
	Amount        float64            `json:"amount"`
	Currency      *string            `json:"currency,omitempty"`
	Description   *string            `json:"description,omitempty"`
	ExpenseDate   openapi_types.Date `json:"expense_date"`
	PaymentMethod *string            `json:"payment_method,omitempty"`
	Notes         *string            `json:"notes,omitempty"`
}

type ExpenseUpdate struct {
	TripId        nullable.Nullable[int64]              `json:"trip_id,omitempty"`
	Category      nullable.Nullable[string]             `json:"category,omitempty"`
	Amount        nullable.Nullable[float64]            `json:"amount,omitempty"`
	Currency      nullable.Nullable[string]             `json:"currency,omitempty"`
	Description   nullable.Nullable[string]             `json:"description,omitempty"`
	ExpenseDate   nullable.Nullable[openapi_types.Date] `json:"expense_date,omitempty"`
	PaymentMethod nullable.Nullable[string]             `json:"payment_method,omitempty"`
	Notes         nullable.Nullable[string]             `json:"notes,omitempty"`
}

type Expense struct {
	Id            int64              `json:"id"`
	UserId        int64              `json:"user_id"`
	TripId        *int64             `json:"trip_id,omitempty"`
	Category      string             `json:"category"`
	Amount        float64            `json:"amount"`
	Currency      string             `json:"currency"`
	Description   *string            `json:"description,omitempty"`
	ExpenseDate   openapi_types.Date `json:"expense_date"`
	PaymentMethod *string            `json:"payment_method,omitempty"`
	Notes         *string            `json:"notes,omitempty"`
	CreatedAt     Timestamp          `json:"created_at"`
	UpdatedAt     Timestamp          `json:"updated_at"`
}

type BudgetAnalysis struct {
	TotalBudget        float64            `json:"total_budget"`
	TotalSpent         float64            `json:"total_spent"`
	Remaining          float64            `json:"remaining"`
	SpendingPercentage float64            `json:"spending_percentage"`
	CategoryBreakdown  map[string]float64 `json:"category_breakdown"`
	Status             string             `json:"status"`
}

// ValidationError is one entry of a 422 "detail" list.
type ValidationError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// ErrorResponse is the service's error body. Detail is either a string or a list of
// ValidationError; see Summary.
type ErrorResponse struct {
	Detail any `json:"detail"`
}
