package speech_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memrecognizer "github.com/Overland-East-Bay/trip-planner-client/internal/adapters/memory/recognizer"
	"github.com/Overland-East-Bay/trip-planner-client/internal/app/speech"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/recognizer"
)

type recorder struct {
	results []string
	errs    []*speech.Error
}

func (r *recorder) onResult(s string)         { r.results = append(r.results, s) }
func (r *recorder) onError(err *speech.Error) { r.errs = append(r.errs, err) }
func (r *recorder) calls() int                { return len(r.results) + len(r.errs) }

func newAdapter(t *testing.T) (*speech.Adapter, *memrecognizer.Recognizer) {
	t.Helper()
	p := memrecognizer.NewPlatform()
	a := speech.NewAdapter(p, speech.Options{})
	created := p.Created()
	require.Len(t, created, 1)
	return a, created[0]
}

func TestNewAdapter_ConfiguresSingleShotRecognizer(t *testing.T) {
	t.Parallel()

	_, rec := newAdapter(t)
	assert.Equal(t, recognizer.Config{Lang: "zh-CN", Continuous: false, InterimResults: false}, rec.Config())

	p := memrecognizer.NewPlatform()
	speech.NewAdapter(p, speech.Options{Lang: "en-US"})
	assert.Equal(t, "en-US", p.Created()[0].Config().Lang)
}

func TestAdapter_Unsupported_FailsSynchronously(t *testing.T) {
	t.Parallel()

	p := &memrecognizer.Platform{Unsupported: true}
	assert.False(t, speech.IsSupported(p))
	assert.False(t, speech.IsSupported(nil))

	a := speech.NewAdapter(p, speech.Options{})
	var r recorder
	a.Start(r.onResult, r.onError)

	require.Len(t, r.errs, 1)
	assert.Same(t, speech.ErrUnsupported, r.errs[0])
	assert.Empty(t, r.results)
	assert.False(t, a.IsListening())
	assert.Empty(t, p.Created())

	// A nil onError is tolerated.
	a.Start(r.onResult, nil)
}

func TestAdapter_RecognizerCreationFailureActsAsUnsupported(t *testing.T) {
	t.Parallel()

	p := &memrecognizer.Platform{NewErr: errors.New("no device")}
	a := speech.NewAdapter(p, speech.Options{})
	var r recorder
	a.Start(r.onResult, r.onError)
	require.Len(t, r.errs, 1)
	assert.Equal(t, speech.CodeUnsupported, r.errs[0].Code)
}

func TestAdapter_FinalResult_UsesFirstAlternative(t *testing.T) {
	t.Parallel()

	a, rec := newAdapter(t)
	var r recorder
	a.Start(r.onResult, r.onError)
	require.True(t, a.IsListening())

	rec.Final("去东京玩五天", "去东京玩吴天")
	rec.End()

	assert.Equal(t, []string{"去东京玩五天"}, r.results)
	assert.Empty(t, r.errs)
	assert.False(t, a.IsListening())
}

func TestAdapter_StartWhileListening_IsNoop(t *testing.T) {
	t.Parallel()

	a, rec := newAdapter(t)
	var first, second recorder
	a.Start(first.onResult, first.onError)
	a.Start(second.onResult, second.onError)

	assert.Equal(t, 1, rec.Starts())
	assert.True(t, a.IsListening())

	rec.Final("hello")
	assert.Equal(t, []string{"hello"}, first.results)
	assert.Zero(t, second.calls())
}

func TestAdapter_PlatformErrors_AreMapped(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		recognizer.CodeNoSpeech:     "未检测到语音输入",
		recognizer.CodeAudioCapture: "无法访问麦克风",
		recognizer.CodeNotAllowed:   "麦克风权限被拒绝",
		recognizer.CodeNetwork:      "网络错误",
		"service-not-allowed":       "语音识别失败",
	}
	for code, reason := range cases {
		t.Run(code, func(t *testing.T) {
			t.Parallel()

			a, rec := newAdapter(t)
			var r recorder
			a.Start(r.onResult, r.onError)
			rec.Fail(code)
			rec.End()

			require.Len(t, r.errs, 1)
			assert.Equal(t, code, r.errs[0].Code)
			assert.Equal(t, reason, r.errs[0].Reason)
			assert.Empty(t, r.results)
			assert.False(t, a.IsListening())
		})
	}
}

func TestAdapter_SilentEnd_InvokesNeither(t *testing.T) {
	t.Parallel()

	a, rec := newAdapter(t)
	var r recorder
	a.Start(r.onResult, r.onError)
	rec.End()

	assert.Zero(t, r.calls())
	assert.False(t, a.IsListening())
}

func TestAdapter_ErrorThenResult_OnlyFirstWins(t *testing.T) {
	t.Parallel()

	a, rec := newAdapter(t)
	var r recorder
	a.Start(r.onResult, r.onError)
	rec.Fail(recognizer.CodeNetwork)
	rec.Final("late")
	rec.End()

	assert.Len(t, r.errs, 1)
	assert.Empty(t, r.results)
}

func TestAdapter_StartFailure(t *testing.T) {
	t.Parallel()

	a, rec := newAdapter(t)
	rec.StartErr = errors.New("InvalidStateError")
	var r recorder
	a.Start(r.onResult, r.onError)

	require.Len(t, r.errs, 1)
	assert.Same(t, speech.ErrStartFailed, r.errs[0])
	assert.False(t, a.IsListening())

	// The adapter is usable again afterwards.
	a.Start(r.onResult, r.onError)
	assert.True(t, a.IsListening())
}

func TestAdapter_Stop(t *testing.T) {
	t.Parallel()

	a, rec := newAdapter(t)
	a.Stop()
	assert.Zero(t, rec.Stops(), "stop while idle is a no-op")

	var r recorder
	a.Start(r.onResult, r.onError)
	a.Stop()
	assert.Equal(t, 1, rec.Stops())
	assert.False(t, a.IsListening())

	// The platform may still flush a final result for the stopped session.
	rec.Final("trailing")
	rec.End()
	assert.Equal(t, []string{"trailing"}, r.results)
	assert.False(t, a.IsListening())
}

func TestAdapter_StaleEventsDoNotTouchNewerSession(t *testing.T) {
	t.Parallel()

	a, rec := newAdapter(t)
	var old, cur recorder
	a.Start(old.onResult, old.onError)
	oldHandlers := rec.Handlers()
	a.Stop()
	rec.End()

	a.Start(cur.onResult, cur.onError)
	require.True(t, a.IsListening())

	// Events from the first run arrive late.
	oldHandlers.OnError(recognizer.ErrorEvent{Code: recognizer.CodeAborted})
	oldHandlers.OnEnd()

	assert.True(t, a.IsListening())
	assert.Zero(t, cur.calls())
	assert.Empty(t, old.errs, "the first run already ended silently")

	rec.Final("second")
	assert.Equal(t, []string{"second"}, cur.results)
	assert.False(t, a.IsListening())
}

func TestAdapter_RefusedRestart_LateResultReachesStoppedSession(t *testing.T) {
	t.Parallel()

	a, rec := newAdapter(t)
	var old, cur recorder
	a.Start(old.onResult, old.onError)
	a.Stop()

	// The platform has not ended the first run yet, so it refuses the second.
	a.Start(cur.onResult, cur.onError)
	require.Len(t, cur.errs, 1)
	assert.Same(t, speech.ErrStartFailed, cur.errs[0])
	assert.False(t, a.IsListening())

	rec.Final("late transcript")
	rec.End()

	assert.Equal(t, []string{"late transcript"}, old.results)
	assert.Empty(t, old.errs)
	assert.Empty(t, cur.results)
	assert.Equal(t, 1, rec.Starts())
}

func TestAdapter_NonFinalOrEmptyResultsAreIgnored(t *testing.T) {
	t.Parallel()

	a, rec := newAdapter(t)
	var r recorder
	a.Start(r.onResult, r.onError)
	rec.Emit(recognizer.ResultEvent{})
	rec.Emit(recognizer.ResultEvent{Results: []recognizer.Result{{Alternatives: []recognizer.Alternative{{Transcript: "par"}}}}})

	assert.Zero(t, r.calls())
	assert.True(t, a.IsListening())
}
