package utils

import (
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"gopkg.in/natefinch/lumberjack.v2"
)

// InitLogger 初始化全局日志：终端彩色输出，可选同时写入滚动日志文件。
// verbose >= 1 时输出调试日志。返回的 Closer 用于关闭日志文件。
func InitLogger(verbose int, logFile string) io.Closer {
	level := slog.LevelInfo
	if verbose > 0 {
		level = slog.LevelDebug
	}

	var handler slog.Handler = tint.NewHandler(colorable.NewColorableStdout(), &tint.Options{
		Level:      level,
		TimeFormat: "2006-01-02 15:04:05",
	})

	var closer io.Closer = nopCloser{}
	if logFile != "" {
		logWriter := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     7, // 天
		}
		closer = logWriter
		handler = slog.NewMultiHandler(
			handler,
			slog.NewTextHandler(logWriter, &slog.HandlerOptions{Level: level}),
		)
	}

	slog.SetDefault(slog.New(handler))
	return closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
