package recognizer

// Config is applied to a recognizer when it is created.
type Config struct {
	// Lang is a BCP 47 tag such as "zh-CN".
	Lang string
	// Continuous keeps the platform listening after the first final result.
	Continuous bool
	// InterimResults asks the platform for partial transcripts.
	InterimResults bool
}

// Alternative is one candidate transcript for a result.
type Alternative struct {
	Transcript string
	Confidence float64
}

// Result groups the alternatives the platform produced for one utterance.
type Result struct {
	Alternatives []Alternative
	IsFinal      bool
}

// ResultEvent mirrors the platform's result event.
type ResultEvent struct {
	Results []Result
}

// Error codes emitted by speech platforms. Platforms may emit others.
const (
	CodeNoSpeech     = "no-speech"
	CodeAudioCapture = "audio-capture"
	CodeNotAllowed   = "not-allowed"
	CodeNetwork      = "network"
	CodeAborted      = "aborted"
)

// ErrorEvent mirrors the platform's error event.
type ErrorEvent struct {
	Code    string
	Message string
}

// Handlers receive the events of one recognition run. Platforms may invoke them from any
// goroutine, and may invoke OnEnd after OnResult or OnError.
type Handlers struct {
	OnResult func(ResultEvent)
	OnError  func(ErrorEvent)
	OnEnd    func()
}

// Recognizer is a stateful, event-emitting speech recognizer.
type Recognizer interface {
	// Start begins a recognition run delivering events to h. It fails synchronously when
	// the platform refuses to start (e.g. a run is still active); a refused Start leaves
	// the handlers of the previous run in place.
	Start(h Handlers) error
	// Stop asks the platform to finish the current run; it may still emit a final result.
	Stop()
}

// Platform probes for and creates recognizers.
type Platform interface {
	Supported() bool
	New(cfg Config) (Recognizer, error)
}
