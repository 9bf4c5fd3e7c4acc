package utils

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitLoggerWritesFile(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	path := filepath.Join(t.TempDir(), "gen.log")
	closer := InitLogger(0, path)

	slog.Debug("hidden")
	slog.Info("Write proxy info to: out.yaml", "proxies", 3)
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Write proxy info to: out.yaml") || !strings.Contains(string(data), "proxies=3") {
		t.Errorf("日志文件内容 = %q", data)
	}
	if strings.Contains(string(data), "hidden") {
		t.Error("verbose=0 时不应输出调试日志")
	}
}

func TestInitLoggerVerbose(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	path := filepath.Join(t.TempDir(), "gen.log")
	closer := InitLogger(1, path)
	slog.Debug("shown")
	closer.Close()

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "shown") {
		t.Errorf("verbose=1 应输出调试日志, got %q", data)
	}
}
