package utils

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler 收到 SIGINT/SIGTERM 时关闭返回的通道，第二次收到信号立即退出
func SetupSignalHandler() <-chan struct{} {
	slog.Debug("设置信号处理器")

	stop := make(chan struct{})
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		slog.Debug("收到中断信号", "sig", sig)
		close(stop)

		<-sigChan
		slog.Warn("再次收到中断信号，立即退出程序")
		os.Exit(1)
	}()

	return stop
}
