package speech

import "github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/recognizer"

// Error is a speech capability failure with a fixed, user-facing reason.
type Error struct {
	// Code is the platform error code, or one of the adapter codes below.
	Code   string
	Reason string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Reason
}

const (
	CodeUnsupported = "unsupported"
	CodeStartFailed = "start-failed"
)

var (
	ErrUnsupported = &Error{Code: CodeUnsupported, Reason: "不支持语音识别"}
	ErrStartFailed = &Error{Code: CodeStartFailed, Reason: "启动语音识别失败"}
)

const fallbackReason = "语音识别失败"

var reasons = map[string]string{
	recognizer.CodeNoSpeech:     "未检测到语音输入",
	recognizer.CodeAudioCapture: "无法访问麦克风",
	recognizer.CodeNotAllowed:   "麦克风权限被拒绝",
	recognizer.CodeNetwork:      "网络错误",
}

// mapError turns a platform error code into an Error. Unknown codes get the generic reason.
func mapError(code string) *Error {
	if r, ok := reasons[code]; ok {
		return &Error{Code: code, Reason: r}
	}
	return &Error{Code: code, Reason: fallbackReason}
}
