package oss

import (
	stdlog "log"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
)

// sdkLogWriter 把 OSS SDK 的标准库日志转发到 kratos 日志，统一按 Debug 级别输出
type sdkLogWriter struct {
	logger log.Logger
}

func (w *sdkLogWriter) Write(p []byte) (int, error) {
	msg := strings.TrimSpace(string(p))
	if msg != "" {
		_ = w.logger.Log(log.LevelDebug, "module", "oss/sdk", "msg", msg)
	}
	return len(p), nil
}

func newSDKLogger(logger log.Logger) *stdlog.Logger {
	return stdlog.New(&sdkLogWriter{logger: logger}, "", 0)
}
