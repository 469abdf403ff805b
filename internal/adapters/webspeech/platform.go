//go:build js && wasm

// Package webspeech adapts the browser's Web Speech API (SpeechRecognition).
package webspeech

import (
	"errors"
	"fmt"
	"sync"
	"syscall/js"

	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/recognizer"
)

var errUnsupported = errors.New("SpeechRecognition is not available")

type Platform struct{}

func NewPlatform() Platform { return Platform{} }

func constructor() js.Value {
	g := js.Global()
	if c := g.Get("SpeechRecognition"); c.Truthy() {
		return c
	}
	return g.Get("webkitSpeechRecognition")
}

func (Platform) Supported() bool { return constructor().Truthy() }

func (p Platform) New(cfg recognizer.Config) (recognizer.Recognizer, error) {
	c := constructor()
	if !c.Truthy() {
		return nil, errUnsupported
	}
	obj := c.New()
	obj.Set("lang", cfg.Lang)
	obj.Set("continuous", cfg.Continuous)
	obj.Set("interimResults", cfg.InterimResults)
	return &Recognizer{obj: obj}, nil
}

// Recognizer wraps one SpeechRecognition object. Each successful Start rebinds its
// handlers; a refused start keeps the previous run's handlers so its trailing events
// still reach it.
type Recognizer struct {
	obj js.Value

	mu    sync.Mutex
	funcs []js.Func
}

func (r *Recognizer) Start(h recognizer.Handlers) error {
	if err := r.callStart(); err != nil {
		return err
	}
	// Events are dispatched asynchronously, so binding after start() misses none.
	r.bind(h)
	return nil
}

// callStart turns the InvalidStateError thrown while a run is still active into an error.
func (r *Recognizer) callStart() (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("start: %v", rec)
		}
	}()
	r.obj.Call("start")
	return nil
}

func (r *Recognizer) Stop() {
	defer func() { _ = recover() }()
	r.obj.Call("stop")
}

func (r *Recognizer) bind(h recognizer.Handlers) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.funcs {
		f.Release()
	}

	onResult := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if h.OnResult != nil && len(args) > 0 {
			h.OnResult(resultEvent(args[0]))
		}
		return nil
	})
	onError := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if h.OnError != nil && len(args) > 0 {
			ev := args[0]
			h.OnError(recognizer.ErrorEvent{Code: str(ev.Get("error")), Message: str(ev.Get("message"))})
		}
		return nil
	})
	onEnd := js.FuncOf(func(js.Value, []js.Value) any {
		if h.OnEnd != nil {
			h.OnEnd()
		}
		return nil
	})
	r.obj.Set("onresult", onResult)
	r.obj.Set("onerror", onError)
	r.obj.Set("onend", onEnd)
	r.funcs = []js.Func{onResult, onError, onEnd}
}

func resultEvent(ev js.Value) recognizer.ResultEvent {
	results := ev.Get("results")
	n := results.Get("length").Int()
	out := recognizer.ResultEvent{Results: make([]recognizer.Result, 0, n)}
	for i := 0; i < n; i++ {
		res := results.Index(i)
		m := res.Get("length").Int()
		r := recognizer.Result{IsFinal: res.Get("isFinal").Bool()}
		for j := 0; j < m; j++ {
			alt := res.Index(j)
			r.Alternatives = append(r.Alternatives, recognizer.Alternative{
				Transcript: str(alt.Get("transcript")),
				Confidence: alt.Get("confidence").Float(),
			})
		}
		out.Results = append(out.Results, r)
	}
	return out
}

func str(v js.Value) string {
	if v.IsUndefined() || v.IsNull() {
		return ""
	}
	return v.String()
}
