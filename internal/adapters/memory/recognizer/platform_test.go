package recognizer

import (
	"errors"
	"testing"

	port "github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/recognizer"
)

func TestRecognizer_RefusedStartKeepsPreviousHandlers(t *testing.T) {
	t.Parallel()

	r := &Recognizer{}
	var first, second []string
	if err := r.Start(port.Handlers{OnResult: func(ev port.ResultEvent) {
		first = append(first, ev.Results[0].Alternatives[0].Transcript)
	}}); err != nil {
		t.Fatalf("Start() err=%v", err)
	}
	r.Stop()

	err := r.Start(port.Handlers{OnResult: func(ev port.ResultEvent) {
		second = append(second, ev.Results[0].Alternatives[0].Transcript)
	}})
	if !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("Start() while running err=%v, want ErrAlreadyStarted", err)
	}

	r.Final("trailing")
	if len(first) != 1 || first[0] != "trailing" || len(second) != 0 {
		t.Fatalf("first=%v second=%v, want trailing result on the first run only", first, second)
	}
}
