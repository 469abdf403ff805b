package devapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/memory/planner"
	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/oas"
	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/plannerapi"
)

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeInvalid(w, "body", err)
		return false
	}
	return true
}

// pathID binds a simple-style path parameter into an id type.
func pathID[T ~int64](w http.ResponseWriter, r *http.Request, name string) (T, bool) {
	var id T
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		writeInvalid(w, name, err)
		return 0, false
	}
	return id, true
}

func queryInt(w http.ResponseWriter, r *http.Request, name string, dst **int) bool {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dst); err != nil {
		writeInvalid(w, name, err)
		return false
	}
	return true
}

func currentUser(r *http.Request) domain.UserProfile {
	u, _ := UserFromContext(r.Context())
	return u
}

// Auth

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var body oas.UserRegister
	if !decode(w, r, &body) {
		return
	}
	u, err := s.backend.Register(oas.RegisterFromOAS(body))
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, oas.UserToOAS(u))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body oas.UserLogin
	if !decode(w, r, &body) {
		return
	}
	u, err := s.backend.Authenticate(body.Username, body.Password)
	switch {
	case errors.Is(err, planner.ErrInactive):
		writeDetail(w, http.StatusBadRequest, "Inactive user")
		return
	case err != nil:
		writeUnauthorized(w, "Incorrect username or password")
		return
	}
	token, _, err := s.signer.Mint(strconv.FormatInt(int64(u.ID), 10))
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	s.log.Printf("devapi: login user=%d", u.ID)
	writeJSON(w, http.StatusOK, oas.Token{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, oas.UserToOAS(currentUser(r)))
}

// Trips

func (s *Server) generateTrip(w http.ResponseWriter, r *http.Request) {
	var body oas.TripGenerateRequest
	if !decode(w, r, &body) {
		return
	}
	t, err := s.backend.GenerateTrip(currentUser(r).ID, oas.GenerateFromOAS(body))
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, oas.TripToOAS(t))
}

func (s *Server) createTrip(w http.ResponseWriter, r *http.Request) {
	var body oas.TripCreate
	if !decode(w, r, &body) {
		return
	}
	t, err := s.backend.CreateTrip(currentUser(r).ID, oas.TripCreateFromOAS(body))
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, oas.TripToOAS(t))
}

func (s *Server) listTrips(w http.ResponseWriter, r *http.Request) {
	var params plannerapi.ListParams
	if !queryInt(w, r, "skip", &params.Skip) || !queryInt(w, r, "limit", &params.Limit) {
		return
	}
	trips, err := s.backend.ListTrips(currentUser(r).ID, params)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	out := make([]oas.Trip, 0, len(trips))
	for _, t := range trips {
		out = append(out, oas.TripToOAS(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID[domain.TripID](w, r, "id")
	if !ok {
		return
	}
	t, err := s.backend.GetTrip(currentUser(r).ID, id)
	if err != nil {
		s.writeError(w, r, err, "Trip not found")
		return
	}
	writeJSON(w, http.StatusOK, oas.TripToOAS(t))
}

func (s *Server) updateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID[domain.TripID](w, r, "id")
	if !ok {
		return
	}
	var body oas.TripUpdate
	if !decode(w, r, &body) {
		return
	}
	t, err := s.backend.UpdateTrip(currentUser(r).ID, id, oas.TripUpdateFromOAS(body))
	if err != nil {
		s.writeError(w, r, err, "Trip not found")
		return
	}
	writeJSON(w, http.StatusOK, oas.TripToOAS(t))
}

func (s *Server) deleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID[domain.TripID](w, r, "id")
	if !ok {
		return
	}
	if err := s.backend.DeleteTrip(currentUser(r).ID, id); err != nil {
		s.writeError(w, r, err, "Trip not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Trip deleted successfully"})
}

// Expenses

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	var body oas.ExpenseCreate
	if !decode(w, r, &body) {
		return
	}
	e, err := s.backend.CreateExpense(currentUser(r).ID, oas.ExpenseCreateFromOAS(body))
	if err != nil {
		s.writeError(w, r, err, "Trip not found")
		return
	}
	writeJSON(w, http.StatusOK, oas.ExpenseToOAS(e))
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	var params plannerapi.ExpenseListParams
	if !queryInt(w, r, "skip", &params.Skip) || !queryInt(w, r, "limit", &params.Limit) {
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "trip_id", r.URL.Query(), &params.TripID); err != nil {
		writeInvalid(w, "trip_id", err)
		return
	}
	expenses, err := s.backend.ListExpenses(currentUser(r).ID, params)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	out := make([]oas.Expense, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, oas.ExpenseToOAS(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID[domain.ExpenseID](w, r, "id")
	if !ok {
		return
	}
	e, err := s.backend.GetExpense(currentUser(r).ID, id)
	if err != nil {
		s.writeError(w, r, err, "Expense not found")
		return
	}
	writeJSON(w, http.StatusOK, oas.ExpenseToOAS(e))
}

func (s *Server) updateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID[domain.ExpenseID](w, r, "id")
	if !ok {
		return
	}
	var body oas.ExpenseUpdate
	if !decode(w, r, &body) {
		return
	}
	e, err := s.backend.UpdateExpense(currentUser(r).ID, id, oas.ExpenseUpdateFromOAS(body))
	if err != nil {
		s.writeError(w, r, err, "Expense not found")
		return
	}
	writeJSON(w, http.StatusOK, oas.ExpenseToOAS(e))
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID[domain.ExpenseID](w, r, "id")
	if !ok {
		return
	}
	if err := s.backend.DeleteExpense(currentUser(r).ID, id); err != nil {
		s.writeError(w, r, err, "Expense not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Expense deleted successfully"})
}

func (s *Server) analyzeBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID[domain.TripID](w, r, "tripId")
	if !ok {
		return
	}
	a, err := s.backend.AnalyzeBudget(currentUser(r).ID, id)
	if err != nil {
		s.writeError(w, r, err, "Trip not found")
		return
	}
	writeJSON(w, http.StatusOK, oas.AnalysisToOAS(a))
}
