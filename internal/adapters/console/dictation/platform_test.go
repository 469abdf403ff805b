package dictation

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/recognizer"
)

type outcome struct {
	text string
	code string
}

func run(t *testing.T, rec recognizer.Recognizer) outcome {
	t.Helper()
	var got outcome
	done := make(chan struct{})
	err := rec.Start(recognizer.Handlers{
		OnResult: func(ev recognizer.ResultEvent) { got.text = ev.Results[0].Alternatives[0].Transcript },
		OnError:  func(ev recognizer.ErrorEvent) { got.code = ev.Code },
		OnEnd:    func() { close(done) },
	})
	require.NoError(t, err)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("recognizer did not end")
	}
	return got
}

func TestRecognizer_LinesBecomeResults(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	p := NewPlatform(strings.NewReader("  去东京玩五天 \n\n"), &out)
	require.True(t, p.Supported())
	rec, err := p.New(recognizer.Config{Lang: "zh-CN"})
	require.NoError(t, err)

	assert.Equal(t, outcome{text: "去东京玩五天"}, run(t, rec))
	assert.Equal(t, outcome{code: recognizer.CodeNoSpeech}, run(t, rec))
	assert.Equal(t, outcome{code: recognizer.CodeAudioCapture}, run(t, rec), "EOF")
	assert.Contains(t, out.String(), "[zh-CN]")
}

func TestRecognizer_LastLineWithoutNewline(t *testing.T) {
	t.Parallel()

	p := NewPlatform(strings.NewReader("hello"), nil)
	rec, _ := p.New(recognizer.Config{})
	assert.Equal(t, outcome{text: "hello"}, run(t, rec))
}

func TestRecognizer_BusyWhileReading(t *testing.T) {
	t.Parallel()

	pr, pw := io.Pipe()
	p := NewPlatform(pr, nil)
	rec, _ := p.New(recognizer.Config{})

	done := make(chan struct{})
	require.NoError(t, rec.Start(recognizer.Handlers{OnEnd: func() { close(done) }}))
	rec.Stop()
	require.ErrorIs(t, rec.Start(recognizer.Handlers{}), ErrBusy)

	_, _ = io.WriteString(pw, "late\n")
	<-done
	_ = pw.Close()
}
