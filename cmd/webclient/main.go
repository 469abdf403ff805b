//go:build js && wasm

// Command webclient is the browser build of the trip planner client. It exposes the
// client to the page as the global object tripPlanner; every remote call returns a
// Promise resolving to the API's JSON representation.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"syscall/js"

	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/httpclient"
	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/oas"
	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/webspeech"
	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/webstorage"
	"github.com/Overland-East-Bay/trip-planner-client/internal/app"
	"github.com/Overland-East-Bay/trip-planner-client/internal/app/expenses"
	"github.com/Overland-East-Bay/trip-planner-client/internal/app/session"
	"github.com/Overland-East-Bay/trip-planner-client/internal/app/speech"
	"github.com/Overland-East-Bay/trip-planner-client/internal/app/trips"
	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
	"github.com/Overland-East-Bay/trip-planner-client/internal/platform/config"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/plannerapi"
)

func main() {
	logger := log.New(os.Stderr, "webclient ", 0)
	ctx := context.Background()

	baseURL := config.DefaultAPIURL
	if v := js.Global().Get("TRIP_PLANNER_API_URL"); v.Type() == js.TypeString {
		baseURL = v.String()
	}

	var client *app.Client
	api, err := httpclient.New(baseURL, httpclient.Options{
		OnUnauthorized: func() { client.HandleUnauthorized() },
		Logger:         logger,
	})
	if err != nil {
		logger.Fatalf("api client: %v", err)
	}
	client, err = app.NewClient(ctx, app.Deps{
		API:        api,
		Tokens:     webstorage.NewStore(config.DefaultTokenKey),
		Speech:     webspeech.NewPlatform(),
		SpeechLang: speech.DefaultLang,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatalf("client: %v", err)
	}
	api.SetTokenSource(client.Session)

	b := &bridge{c: client}
	js.Global().Set("tripPlanner", b.exports())
	// A stored token is resolved in the background; the page can render immediately.
	go client.Session.FetchUserInfo(ctx)

	select {}
}

type bridge struct {
	c *app.Client
}

func (b *bridge) exports() js.Value {
	obj := map[string]any{
		"login":       js.FuncOf(b.login),
		"register":    js.FuncOf(b.register),
		"logout":      js.FuncOf(b.logout),
		"isLoggedIn":  js.FuncOf(func(js.Value, []js.Value) any { return b.c.Session.IsLoggedIn() }),
		"currentUser": js.FuncOf(b.currentUser),
		"navigate":    js.FuncOf(b.navigate),
		"trips": map[string]any{
			"fetchAll":  js.FuncOf(b.fetchTrips),
			"fetchOne":  js.FuncOf(b.fetchTrip),
			"generate":  js.FuncOf(b.generateTrip),
			"create":    js.FuncOf(b.createTrip),
			"update":    js.FuncOf(b.updateTrip),
			"delete":    js.FuncOf(b.deleteTrip),
			"subscribe": js.FuncOf(b.subscribeTrips),
		},
		"expenses": map[string]any{
			"fetchAll":  js.FuncOf(b.fetchExpenses),
			"fetchOne":  js.FuncOf(b.fetchExpense),
			"create":    js.FuncOf(b.createExpense),
			"update":    js.FuncOf(b.updateExpense),
			"delete":    js.FuncOf(b.deleteExpense),
			"analyze":   js.FuncOf(b.analyzeTrip),
			"subscribe": js.FuncOf(b.subscribeExpenses),
		},
		"speech": map[string]any{
			"supported":   speech.IsSupported(webspeech.NewPlatform()),
			"start":       js.FuncOf(b.startSpeech),
			"stop":        js.FuncOf(func(js.Value, []js.Value) any { b.c.Speech.Stop(); return nil }),
			"isListening": js.FuncOf(func(js.Value, []js.Value) any { return b.c.Speech.IsListening() }),
		},
	}
	return js.ValueOf(obj)
}

// promise runs fn off the event loop, since HTTP round trips block on it under wasm.
func promise(fn func() (any, error)) js.Value {
	var handler js.Func
	handler = js.FuncOf(func(_ js.Value, args []js.Value) any {
		resolve, reject := args[0], args[1]
		go func() {
			defer handler.Release()
			v, err := fn()
			if err != nil {
				reject.Invoke(jsError(err))
				return
			}
			resolve.Invoke(v)
		}()
		return nil
	})
	return js.Global().Get("Promise").New(handler)
}

func jsError(err error) js.Value {
	e := js.Global().Get("Error").New(err.Error())
	var pe *plannerapi.Error
	if errors.As(err, &pe) && pe.Kind != nil {
		e.Set("kind", pe.Kind.Error())
		e.Set("status", pe.Status)
	}
	return e
}

// toJS converts v through its JSON form into a plain JS object.
func toJS(v any) (js.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return js.Undefined(), err
	}
	return js.Global().Get("JSON").Call("parse", string(b)), nil
}

// fromJS decodes a JS object into dst through its JSON form.
func fromJS(v js.Value, dst any) error {
	s := js.Global().Get("JSON").Call("stringify", v).String()
	return json.Unmarshal([]byte(s), dst)
}

func arg(args []js.Value, i int) js.Value {
	if i < len(args) {
		return args[i]
	}
	return js.Undefined()
}

func tripIDArg(args []js.Value) (domain.TripID, error) {
	v := arg(args, 0)
	switch v.Type() {
	case js.TypeNumber:
		return domain.TripID(v.Int()), nil
	case js.TypeString:
		return domain.ParseTripID(v.String())
	default:
		return 0, fmt.Errorf("trip id must be a number")
	}
}

func expenseIDArg(args []js.Value) (domain.ExpenseID, error) {
	v := arg(args, 0)
	switch v.Type() {
	case js.TypeNumber:
		return domain.ExpenseID(v.Int()), nil
	case js.TypeString:
		return domain.ParseExpenseID(v.String())
	default:
		return 0, fmt.Errorf("expense id must be a number")
	}
}

func invalidBody(what string, err error) error {
	return plannerapi.Validation("invalid "+what, map[string]any{"body": err.Error()})
}

// pageArgs reads the optional skip and limit of a list call's options object.
func pageArgs(o js.Value) (skip, limit *int) {
	if o.Type() != js.TypeObject {
		return nil, nil
	}
	if v := o.Get("skip"); v.Type() == js.TypeNumber {
		n := v.Int()
		skip = &n
	}
	if v := o.Get("limit"); v.Type() == js.TypeNumber {
		n := v.Int()
		limit = &n
	}
	return skip, limit
}

func (b *bridge) login(_ js.Value, args []js.Value) any {
	username, password := arg(args, 0).String(), arg(args, 1).String()
	return promise(func() (any, error) {
		if err := b.c.Session.Login(context.Background(), username, password); err != nil {
			return nil, err
		}
		return b.userValue()
	})
}

func (b *bridge) register(_ js.Value, args []js.Value) any {
	var in struct {
		Email    string  `json:"email"`
		Username string  `json:"username"`
		Password string  `json:"password"`
		FullName *string `json:"full_name"`
	}
	if err := fromJS(arg(args, 0), &in); err != nil {
		return promise(func() (any, error) { return nil, err })
	}
	return promise(func() (any, error) {
		err := b.c.Session.Register(context.Background(), session.RegisterInput{
			Email: in.Email, Username: in.Username, Password: in.Password, FullName: in.FullName,
		})
		if err != nil {
			return nil, err
		}
		return b.userValue()
	})
}

func (b *bridge) logout(js.Value, []js.Value) any {
	b.c.Logout(context.Background())
	return nil
}

func (b *bridge) currentUser(js.Value, []js.Value) any {
	v, err := b.userValue()
	if err != nil {
		return js.Null()
	}
	return v
}

func (b *bridge) userValue() (any, error) {
	u, ok := b.c.Session.CurrentUser()
	if !ok {
		return js.Null(), nil
	}
	return toJS(oas.UserToOAS(u))
}

func (b *bridge) navigate(_ js.Value, args []js.Value) any {
	d := b.c.Navigate(arg(args, 0).String())
	return map[string]any{"proceed": d.Proceeds(), "redirectTo": d.RedirectTo}
}

func tripsValue(list []domain.Trip) (any, error) {
	out := make([]oas.Trip, len(list))
	for i, t := range list {
		out[i] = oas.TripToOAS(t)
	}
	return toJS(out)
}

func (b *bridge) fetchTrips(_ js.Value, args []js.Value) any {
	var params plannerapi.ListParams
	params.Skip, params.Limit = pageArgs(arg(args, 0))
	return promise(func() (any, error) {
		list, err := b.c.Trips.FetchAll(context.Background(), params)
		if err != nil {
			return nil, err
		}
		return tripsValue(list)
	})
}

func (b *bridge) fetchTrip(_ js.Value, args []js.Value) any {
	id, err := tripIDArg(args)
	return promise(func() (any, error) {
		if err != nil {
			return nil, err
		}
		t, err := b.c.Trips.FetchOne(context.Background(), id)
		if err != nil {
			return nil, err
		}
		return toJS(oas.TripToOAS(t))
	})
}

func (b *bridge) generateTrip(_ js.Value, args []js.Value) any {
	var req oas.TripGenerateRequest
	err := fromJS(arg(args, 0), &req)
	return promise(func() (any, error) {
		if err != nil {
			return nil, invalidBody("generate request", err)
		}
		t, err := b.c.Trips.Generate(context.Background(), oas.GenerateFromOAS(req))
		if err != nil {
			return nil, err
		}
		return toJS(oas.TripToOAS(t))
	})
}

func (b *bridge) createTrip(_ js.Value, args []js.Value) any {
	var req oas.TripCreate
	err := fromJS(arg(args, 0), &req)
	return promise(func() (any, error) {
		if err != nil {
			return nil, invalidBody("trip", err)
		}
		t, err := b.c.Trips.Create(context.Background(), oas.TripCreateFromOAS(req))
		if err != nil {
			return nil, err
		}
		return toJS(oas.TripToOAS(t))
	})
}

// updateTrip takes (id, patch). Keys absent from patch are left unchanged and null keys
// are cleared.
func (b *bridge) updateTrip(_ js.Value, args []js.Value) any {
	id, err := tripIDArg(args)
	var req oas.TripUpdate
	if err == nil {
		err = fromJS(arg(args, 1), &req)
		if err != nil {
			err = invalidBody("trip update", err)
		}
	}
	return promise(func() (any, error) {
		if err != nil {
			return nil, err
		}
		t, err := b.c.Trips.Update(context.Background(), id, oas.TripUpdateFromOAS(req))
		if err != nil {
			return nil, err
		}
		return toJS(oas.TripToOAS(t))
	})
}

func (b *bridge) deleteTrip(_ js.Value, args []js.Value) any {
	id, err := tripIDArg(args)
	return promise(func() (any, error) {
		if err != nil {
			return nil, err
		}
		return nil, b.c.Trips.Delete(context.Background(), id)
	})
}

// subscribeTrips calls fn with {trips, current, loading} on every store change and
// returns an unsubscribe function.
func (b *bridge) subscribeTrips(_ js.Value, args []js.Value) any {
	fn := arg(args, 0)
	if fn.Type() != js.TypeFunction {
		return js.Undefined()
	}
	cancel := b.c.Trips.Subscribe(func(s trips.Snapshot) {
		list, err := tripsValue(s.Items)
		if err != nil {
			return
		}
		var current any = js.Null()
		if s.Focused != nil {
			if v, err := toJS(oas.TripToOAS(*s.Focused)); err == nil {
				current = v
			}
		}
		fn.Invoke(map[string]any{"trips": list, "current": current, "loading": s.Loading})
	})
	var unsubscribe js.Func
	unsubscribe = js.FuncOf(func(js.Value, []js.Value) any {
		cancel()
		unsubscribe.Release()
		return nil
	})
	return unsubscribe
}

func expensesValue(list []domain.Expense) (any, error) {
	out := make([]oas.Expense, len(list))
	for i, e := range list {
		out[i] = oas.ExpenseToOAS(e)
	}
	return toJS(out)
}

// fetchExpenses takes an optional {tripId, skip, limit}.
func (b *bridge) fetchExpenses(_ js.Value, args []js.Value) any {
	var params plannerapi.ExpenseListParams
	var err error
	o := arg(args, 0)
	params.Skip, params.Limit = pageArgs(o)
	if o.Type() == js.TypeObject {
		if v := o.Get("tripId"); v.Type() != js.TypeUndefined && v.Type() != js.TypeNull {
			var id domain.TripID
			id, err = tripIDArg([]js.Value{v})
			params.TripID = &id
		}
	}
	return promise(func() (any, error) {
		if err != nil {
			return nil, err
		}
		list, err := b.c.Expenses.FetchAll(context.Background(), params)
		if err != nil {
			return nil, err
		}
		return expensesValue(list)
	})
}

func (b *bridge) fetchExpense(_ js.Value, args []js.Value) any {
	id, err := expenseIDArg(args)
	return promise(func() (any, error) {
		if err != nil {
			return nil, err
		}
		e, err := b.c.Expenses.FetchOne(context.Background(), id)
		if err != nil {
			return nil, err
		}
		return toJS(oas.ExpenseToOAS(e))
	})
}

func (b *bridge) createExpense(_ js.Value, args []js.Value) any {
	var req oas.ExpenseCreate
	err := fromJS(arg(args, 0), &req)
	return promise(func() (any, error) {
		if err != nil {
			return nil, invalidBody("expense", err)
		}
		e, err := b.c.Expenses.Create(context.Background(), oas.ExpenseCreateFromOAS(req))
		if err != nil {
			return nil, err
		}
		return toJS(oas.ExpenseToOAS(e))
	})
}

func (b *bridge) updateExpense(_ js.Value, args []js.Value) any {
	id, err := expenseIDArg(args)
	var req oas.ExpenseUpdate
	if err == nil {
		err = fromJS(arg(args, 1), &req)
		if err != nil {
			err = invalidBody("expense update", err)
		}
	}
	return promise(func() (any, error) {
		if err != nil {
			return nil, err
		}
		e, err := b.c.Expenses.Update(context.Background(), id, oas.ExpenseUpdateFromOAS(req))
		if err != nil {
			return nil, err
		}
		return toJS(oas.ExpenseToOAS(e))
	})
}

func (b *bridge) deleteExpense(_ js.Value, args []js.Value) any {
	id, err := expenseIDArg(args)
	return promise(func() (any, error) {
		if err != nil {
			return nil, err
		}
		return nil, b.c.Expenses.Delete(context.Background(), id)
	})
}

// analyzeTrip takes a trip id and resolves to the trip's budget analysis.
func (b *bridge) analyzeTrip(_ js.Value, args []js.Value) any {
	id, err := tripIDArg(args)
	return promise(func() (any, error) {
		if err != nil {
			return nil, err
		}
		a, err := b.c.Expenses.Analyze(context.Background(), id)
		if err != nil {
			return nil, err
		}
		return toJS(oas.AnalysisToOAS(a))
	})
}

// subscribeExpenses mirrors subscribeTrips with {expenses, current, loading}.
func (b *bridge) subscribeExpenses(_ js.Value, args []js.Value) any {
	fn := arg(args, 0)
	if fn.Type() != js.TypeFunction {
		return js.Undefined()
	}
	cancel := b.c.Expenses.Subscribe(func(s expenses.Snapshot) {
		list, err := expensesValue(s.Items)
		if err != nil {
			return
		}
		var current any = js.Null()
		if s.Focused != nil {
			if v, err := toJS(oas.ExpenseToOAS(*s.Focused)); err == nil {
				current = v
			}
		}
		fn.Invoke(map[string]any{"expenses": list, "current": current, "loading": s.Loading})
	})
	var unsubscribe js.Func
	unsubscribe = js.FuncOf(func(js.Value, []js.Value) any {
		cancel()
		unsubscribe.Release()
		return nil
	})
	return unsubscribe
}

func (b *bridge) startSpeech(_ js.Value, args []js.Value) any {
	onResult, onError := arg(args, 0), arg(args, 1)
	b.c.Speech.Start(
		func(text string) {
			if onResult.Type() == js.TypeFunction {
				onResult.Invoke(domain.NormalizeTranscript(text))
			}
		},
		func(err *speech.Error) {
			if onError.Type() == js.TypeFunction {
				onError.Invoke(map[string]any{"code": err.Code, "reason": err.Reason})
			}
		},
	)
	return nil
}
