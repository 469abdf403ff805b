// Package dictation is a terminal speech platform: the user types (or pipes) the
// utterance and presses Enter. It lets the speech adapter run outside a browser.
package dictation

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/recognizer"
)

// ErrBusy is returned by Start while a previous run is still waiting for input.
var ErrBusy = errors.New("dictation: a previous run is still reading input")

type Platform struct {
	in  *bufio.Reader
	out io.Writer

	mu      sync.Mutex
	reading bool
}

// NewPlatform reads utterances from in, one per line, and prompts on out (may be nil).
func NewPlatform(in io.Reader, out io.Writer) *Platform {
	if out == nil {
		out = io.Discard
	}
	return &Platform{in: bufio.NewReader(in), out: out}
}

func (p *Platform) Supported() bool { return p != nil && p.in != nil }

func (p *Platform) New(cfg recognizer.Config) (recognizer.Recognizer, error) {
	return &Recognizer{p: p, cfg: cfg}, nil
}

// Recognizer reads one line per run. Reads cannot be interrupted, so Stop does not
// cancel a pending read; the line is still delivered when it arrives.
type Recognizer struct {
	p   *Platform
	cfg recognizer.Config
}

func (r *Recognizer) Start(h recognizer.Handlers) error {
	p := r.p
	p.mu.Lock()
	if p.reading {
		p.mu.Unlock()
		return ErrBusy
	}
	p.reading = true
	p.mu.Unlock()

	fmt.Fprintf(p.out, "[%s] listening, type and press Enter: ", r.cfg.Lang)
	go r.read(h)
	return nil
}

func (r *Recognizer) Stop() {}

func (r *Recognizer) read(h recognizer.Handlers) {
	line, err := r.p.in.ReadString('\n')

	r.p.mu.Lock()
	r.p.reading = false
	r.p.mu.Unlock()

	text := strings.TrimSpace(line)
	switch {
	case text != "":
		if h.OnResult != nil {
			h.OnResult(recognizer.ResultEvent{Results: []recognizer.Result{{
				Alternatives: []recognizer.Alternative{{Transcript: text, Confidence: 1}},
				IsFinal:      true,
			}}})
		}
	case err != nil:
		if h.OnError != nil {
			h.OnError(recognizer.ErrorEvent{Code: recognizer.CodeAudioCapture, Message: err.Error()})
		}
	default:
		if h.OnError != nil {
			h.OnError(recognizer.ErrorEvent{Code: recognizer.CodeNoSpeech})
		}
	}
	if h.OnEnd != nil {
		h.OnEnd()
	}
}
