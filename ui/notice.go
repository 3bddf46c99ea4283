package ui

import (
	"errors"
	"time"

	"novel_tweet_copywriter/client"
	"novel_tweet_copywriter/export"
	"novel_tweet_copywriter/form"
)

const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelDanger  = "danger"
)

// DefaultNoticeTTL is how long a notice stays on screen.
const DefaultNoticeTTL = 5 * time.Second

// Notice is a transient, auto-dismissing message.
type Notice struct {
	Level   string        `json:"level"`
	Message string        `json:"message"`
	TTL     time.Duration `json:"-"`
}

// NoticeFor maps an error from any component to what the user sees.
func NoticeFor(err error) Notice {
	var (
		verr *form.ValidationError
		terr *client.TimeoutError
		serr *client.ServerError
		aerr *client.ApplicationError
		cerr *export.ClipboardError
	)
	switch {
	case errors.As(err, &verr):
		return Notice{Level: LevelWarning, Message: "请检查配置参数：" + verr.Reason}
	case errors.Is(err, ErrBusy):
		return Notice{Level: LevelInfo, Message: "正在生成中，请等待当前请求完成"}
	case errors.As(err, &terr):
		return Notice{Level: LevelWarning, Message: "⏰ 生成超时，请稍后重试或减少工具数量"}
	case errors.As(err, &serr) && serr.Busy():
		return Notice{Level: LevelWarning, Message: "🔄 " + client.BusyMessage}
	case errors.As(err, &serr), errors.As(err, &aerr):
		return Notice{Level: LevelDanger, Message: "❌ 生成失败: " + err.Error()}
	case errors.Is(err, export.ErrNoResult):
		return Notice{Level: LevelWarning, Message: "没有可导出的内容，请先生成文案"}
	case errors.As(err, &cerr):
		return Notice{Level: LevelWarning, Message: "复制失败，请手动复制"}
	default:
		return Notice{Level: LevelDanger, Message: "❌ 生成失败: " + err.Error()}
	}
}
