package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sinspired/proxy-gen/config"
	"github.com/sinspired/proxy-gen/fetch"
)

// Job 下载一次存档，按配置决定是否紧接着生成 YAML
type Job struct {
	cfg    *config.Config
	client *fetch.Client
}

// NewJob 创建任务
func NewJob(cfg *config.Config) *Job {
	return &Job{cfg: cfg, client: fetch.NewClient(cfg)}
}

// Run 获取 date 当天(或前一天)的存档并写入输出目录，返回列表文件路径
func (j *Job) Run(ctx context.Context, date time.Time) (string, error) {
	start := time.Now()

	records, got, err := j.client.Fetch(ctx, date)
	if err != nil {
		return "", fmt.Errorf("获取存档失败: %w", err)
	}

	path, err := fetch.WriteListing(records, outputDir(j.cfg), got.Format(fetch.DateLayout))
	if err != nil {
		return "", err
	}

	if j.cfg.Generate {
		s := NewGenerator(j.cfg).Run([]string{path})
		if s.Written == 0 {
			slog.Warn(fmt.Sprintf("%s 生成 YAML 失败", path))
		}
	}

	slog.Info(fmt.Sprintf("任务完成, 用时: %s", time.Since(start).Round(time.Millisecond)))
	return path, nil
}

// outputDir 未配置输出目录时使用当前目录
func outputDir(cfg *config.Config) string {
	if cfg.OutputDir == "" {
		return "."
	}
	return cfg.OutputDir
}
