// Package recognizer is a scripted speech platform for tests. Events are emitted by the
// test through Recognizer methods, synchronously on the calling goroutine.
package recognizer

import (
	"errors"
	"sync"

	port "github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/recognizer"
)

// ErrAlreadyStarted mirrors the browser's InvalidStateError on a second start.
var ErrAlreadyStarted = errors.New("recognition has already started")

type Platform struct {
	Unsupported bool
	NewErr      error

	mu   sync.Mutex
	recs []*Recognizer
}

func NewPlatform() *Platform { return &Platform{} }

func (p *Platform) Supported() bool { return !p.Unsupported }

func (p *Platform) New(cfg port.Config) (port.Recognizer, error) {
	if p.NewErr != nil {
		return nil, p.NewErr
	}
	r := &Recognizer{cfg: cfg}
	p.mu.Lock()
	p.recs = append(p.recs, r)
	p.mu.Unlock()
	return r, nil
}

// Created returns the recognizers created so far.
func (p *Platform) Created() []*Recognizer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Recognizer(nil), p.recs...)
}

type Recognizer struct {
	// StartErr, when set, makes the next Start fail synchronously.
	StartErr error

	mu       sync.Mutex
	cfg      port.Config
	running  bool
	handlers port.Handlers
	starts   int
	stops    int
}

// Start refuses while a run is active, like the browser after stop() and before its end
// event. A refused start keeps the previous handlers.
func (r *Recognizer) Start(h port.Handlers) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.StartErr != nil {
		err := r.StartErr
		r.StartErr = nil
		return err
	}
	if r.running {
		return ErrAlreadyStarted
	}
	r.running = true
	r.handlers = h
	r.starts++
	return nil
}

// Stop only records the call. Tests emit the trailing events (if any) themselves.
func (r *Recognizer) Stop() {
	r.mu.Lock()
	r.stops++
	r.mu.Unlock()
}

func (r *Recognizer) Config() port.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg
}

func (r *Recognizer) Starts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.starts
}

func (r *Recognizer) Stops() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stops
}

func (r *Recognizer) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Final emits a final result with the given alternatives for the current run.
func (r *Recognizer) Final(transcripts ...string) {
	alts := make([]port.Alternative, 0, len(transcripts))
	for _, t := range transcripts {
		alts = append(alts, port.Alternative{Transcript: t, Confidence: 0.9})
	}
	r.Emit(port.ResultEvent{Results: []port.Result{{Alternatives: alts, IsFinal: true}}})
}

func (r *Recognizer) Emit(ev port.ResultEvent) {
	h := r.Handlers()
	if h.OnResult != nil {
		h.OnResult(ev)
	}
}

func (r *Recognizer) Fail(code string) {
	h := r.Handlers()
	if h.OnError != nil {
		h.OnError(port.ErrorEvent{Code: code})
	}
}

// End emits the end-of-session signal and marks the run finished.
func (r *Recognizer) End() {
	h := r.Handlers()
	r.mu.Lock()
	r.running = false
	r.mu.Unlock()
	if h.OnEnd != nil {
		h.OnEnd()
	}
}

// Handlers returns the handlers of the latest run.
func (r *Recognizer) Handlers() port.Handlers {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handlers
}
