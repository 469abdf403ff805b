// Package speech turns a callback-driven recognizer into a single-shot "listen once,
// then report text or a reason" contract.
package speech

import (
	"io"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/recognizer"
)

const DefaultLang = "zh-CN"

type Options struct {
	// Lang defaults to DefaultLang.
	Lang   string
	Logger *log.Logger
}

// Adapter is Idle or Listening. At most one recognition session is active at a time.
type Adapter struct {
	rec recognizer.Recognizer // nil when the platform is unavailable
	log *log.Logger

	mu     sync.Mutex
	active *session
}

// session is the state of one Start call. settled guards the callbacks so that at most
// one of them runs, once.
type session struct {
	id       string
	settled  bool
	onResult func(string)
	onError  func(*Error)
}

// IsSupported probes the platform without creating a recognizer.
func IsSupported(p recognizer.Platform) bool {
	return p != nil && p.Supported()
}

// NewAdapter creates the adapter and, when the platform is supported, its single
// recognizer: non-continuous, final results only.
func NewAdapter(p recognizer.Platform, opts Options) *Adapter {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	a := &Adapter{log: logger}
	if !IsSupported(p) {
		logger.Printf("speech: recognition not supported")
		return a
	}

	lang := opts.Lang
	if lang == "" {
		lang = DefaultLang
	}
	rec, err := p.New(recognizer.Config{Lang: lang, Continuous: false, InterimResults: false})
	if err != nil {
		logger.Printf("speech: create recognizer: %v", err)
		return a
	}
	a.rec = rec
	return a
}

// Start begins listening. Exactly one of onResult or onError is called per session, or
// neither when the platform ends without producing anything. onError may be nil.
//
// On an unavailable platform onError(ErrUnsupported) runs before Start returns. While
// already listening, Start does nothing.
func (a *Adapter) Start(onResult func(text string), onError func(err *Error)) {
	if a.rec == nil {
		if onError != nil {
			onError(ErrUnsupported)
		}
		return
	}

	a.mu.Lock()
	if a.active != nil {
		a.mu.Unlock()
		return
	}
	s := &session{id: uuid.NewString(), onResult: onResult, onError: onError}
	a.active = s
	a.mu.Unlock()

	a.log.Printf("speech: session %s listening", s.id)
	err := a.rec.Start(recognizer.Handlers{
		OnResult: func(ev recognizer.ResultEvent) { a.handleResult(s, ev) },
		OnError:  func(ev recognizer.ErrorEvent) { a.handleError(s, ev) },
		OnEnd:    func() { a.handleEnd(s) },
	})
	if err != nil {
		a.log.Printf("speech: session %s start: %v", s.id, err)
		if a.settle(s) && s.onError != nil {
			s.onError(ErrStartFailed)
		}
	}
}

// Stop asks the platform to finish and returns to Idle. A final result the platform
// still delivers for the stopped session goes to that session's onResult.
func (a *Adapter) Stop() {
	a.mu.Lock()
	s := a.active
	a.active = nil
	a.mu.Unlock()
	if s == nil {
		return
	}
	a.log.Printf("speech: session %s stopped", s.id)
	a.rec.Stop()
}

func (a *Adapter) IsListening() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active != nil
}

func (a *Adapter) handleResult(s *session, ev recognizer.ResultEvent) {
	if len(ev.Results) == 0 || !ev.Results[0].IsFinal || len(ev.Results[0].Alternatives) == 0 {
		return
	}
	text := ev.Results[0].Alternatives[0].Transcript
	if !a.settle(s) {
		return
	}
	a.log.Printf("speech: session %s result", s.id)
	if s.onResult != nil {
		s.onResult(text)
	}
}

func (a *Adapter) handleError(s *session, ev recognizer.ErrorEvent) {
	if !a.settle(s) {
		return
	}
	err := mapError(ev.Code)
	a.log.Printf("speech: session %s error %q", s.id, ev.Code)
	if s.onError != nil {
		s.onError(err)
	}
}

func (a *Adapter) handleEnd(s *session) {
	if a.settle(s) {
		a.log.Printf("speech: session %s ended without result", s.id)
	}
}

// settle marks s as finished and releases it if it is still the active session. It
// reports whether this call did the settling.
func (a *Adapter) settle(s *session) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active == s {
		a.active = nil
	}
	if s.settled {
		return false
	}
	s.settled = true
	return true
}
