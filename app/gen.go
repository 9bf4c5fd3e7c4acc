package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sinspired/proxy-gen/config"
	proxies "github.com/sinspired/proxy-gen/proxy"
	"github.com/sinspired/proxy-gen/save"
)

// Summary 一次生成的统计结果
type Summary struct {
	Sources      int // 处理的来源文件数
	Written      int // 成功写出的 YAML 数
	Failed       int // 读取或写出失败的来源数
	SkippedLines int // 被跳过的行数
}

// Generator 按顺序处理命令行给出的文件和目录
type Generator struct {
	opts  proxies.ParseOptions
	saver *save.ConfigSaver
}

// NewGenerator 创建生成器
func NewGenerator(cfg *config.Config) *Generator {
	return &Generator{
		opts:  cfg.ParseOptions(),
		saver: save.NewConfigSaver(cfg),
	}
}

// Run 依次处理每个路径。目录只展开一层，处理所有没有扩展名的条目，
// 其中的子目录得到一个空的配置文件；文件参数不论扩展名都会处理。单个来源失败只记录日志。
func (g *Generator) Run(paths []string) Summary {
	var s Summary
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			slog.Error(fmt.Sprintf("读取 %s 失败: %v", p, err))
			s.Failed++
			continue
		}
		if info.IsDir() {
			g.processDir(p, &s)
			continue
		}
		g.processFile(p, &s)
	}

	slog.Debug("生成完成", "sources", s.Sources, "written", s.Written, "failed", s.Failed, "skipped_lines", s.SkippedLines)
	return s
}

func (g *Generator) processDir(dir string, s *Summary) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Error(fmt.Sprintf("读取目录 %s 失败: %v", dir, err))
		s.Failed++
		return
	}
	for _, e := range entries {
		if !proxies.IsSourceEntry(e.Name()) {
			continue
		}
		g.processFile(filepath.Join(dir, e.Name()), s)
	}
}

func (g *Generator) processFile(path string, s *Summary) {
	s.Sources++

	res, err := proxies.ReadSource(path, g.opts)
	if err != nil {
		slog.Error(fmt.Sprintf("读取 %s 失败: %v", path, err))
		s.Failed++
		return
	}
	s.SkippedLines += len(res.Diagnostics)

	if _, err := g.saver.Save(path, res.Proxies); err != nil {
		slog.Error(fmt.Sprintf("保存 %s 失败: %v", path, err))
		s.Failed++
		return
	}
	s.Written++
}
