package domain

import "strconv"

// UserID identifies a user account on the planner service.
type UserID int64

// TripID is the server-assigned identifier of a trip.
// Clients treat it as opaque: it is only compared and echoed back in paths.
type TripID int64

func (id TripID) String() string { return strconv.FormatInt(int64(id), 10) }

// ExpenseID is the server-assigned identifier of an expense record.
type ExpenseID int64

func (id ExpenseID) String() string { return strconv.FormatInt(int64(id), 10) }

// ParseTripID parses a decimal trip id as it appears in routes (e.g. /trips/7).
func ParseTripID(s string) (TripID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return TripID(v), nil
}

// ParseExpenseID parses a decimal expense id.
func ParseExpenseID(s string) (ExpenseID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ExpenseID(v), nil
}
