package utils

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

func GetExecutablePath() string {
	ex, err := os.Executable()
	if err != nil {
		slog.Error(fmt.Sprintf("获取程序路径失败: %v", err))
		return "."
	}
	return filepath.Dir(ex)
}

// FindConfigFile 未显式指定配置文件时，依次查找 ./config.yaml 和 <程序目录>/config/config.yaml，
// 都不存在时返回空字符串
func FindConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidates := []string{
		"config.yaml",
		filepath.Join(GetExecutablePath(), "config", "config.yaml"),
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

// ReplaceExt 替换文件扩展名，原扩展名被丢弃
func ReplaceExt(path, ext string) string {
	return TrimExt(path) + ext
}

// TrimExt 去掉文件扩展名，".hidden" 这类文件名保持不变
func TrimExt(path string) string {
	base := filepath.Base(path)
	e := filepath.Ext(base)
	if e == "" || e == base {
		return path
	}
	return path[:len(path)-len(e)]
}
