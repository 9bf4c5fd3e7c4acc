package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sinspired/proxy-gen/config"
	"github.com/sinspired/proxy-gen/fetch"
	proxies "github.com/sinspired/proxy-gen/proxy"
	"github.com/sinspired/proxy-gen/utils"
)

// commonFlags 两个命令共用的参数
type commonFlags struct {
	configFile string
	genConfig  string
	verbose    int
	outputDir  string
	logFile    string
}

func (f *commonFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.configFile, "config", "f", "", "配置文件路径")
	fs.StringVar(&f.genConfig, "gen-config", "", "写出示例配置文件后退出")
	fs.IntVarP(&f.verbose, "verbose", "v", 0, "日志级别，>=1 输出调试日志，>2 回显每一行")
	fs.StringVarP(&f.outputDir, "output-dir", "o", "", "输出目录")
	fs.StringVar(&f.logFile, "log-file", "", "日志文件路径")
}

// apply 只覆盖命令行显式指定的参数
func (f *commonFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("verbose") {
		cfg.Verbose = f.verbose
	}
	if fs.Changed("output-dir") {
		cfg.OutputDir = f.outputDir
	}
	if fs.Changed("log-file") {
		cfg.LogFile = f.logFile
	}
}

// setup 处理 --gen-config 并加载配置；done 为 true 时命令直接结束
func (f *commonFlags) setup(overrides func(*config.Config)) (cfg *config.Config, path string, done bool, err error) {
	if f.genConfig != "" {
		if err := config.WriteTemplate(f.genConfig); err != nil {
			return nil, "", true, err
		}
		slog.Info(fmt.Sprintf("示例配置已写入: %s", f.genConfig))
		return nil, "", true, nil
	}

	cfg, path, err = loadConfig(f.configFile, overrides)
	if err != nil {
		return nil, path, true, err
	}
	return cfg, path, false, nil
}

// NewGenCommand gen-proxy: 把纯文本代理列表转换为 Clash YAML
func NewGenCommand(version string) *cobra.Command {
	var (
		common commonFlags
		typ    = proxies.SOCKS5
		slice  int
	)

	cmd := &cobra.Command{
		Use:          "gen-proxy [paths...]",
		Short:        "把 ip:port[:type] 代理列表转换为 Clash YAML",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 没有输入路径时什么都不做
			if len(args) == 0 && common.genConfig == "" {
				return nil
			}

			fs := cmd.Flags()
			overrides := func(cfg *config.Config) {
				common.apply(fs, cfg)
				if fs.Changed("type") {
					cfg.Type = typ.String()
				}
				if fs.Changed("slice") {
					cfg.Slice = slice
				}
			}

			cfg, _, done, err := common.setup(overrides)
			if done {
				return err
			}
			closer := utils.InitLogger(cfg.Verbose, cfg.LogFile)
			defer closer.Close()

			s := NewGenerator(cfg).Run(args)
			if s.Failed > 0 || s.SkippedLines > 0 {
				slog.Warn("部分内容被跳过", "failed_sources", s.Failed, "skipped_lines", s.SkippedLines)
			}
			return nil
		},
	}

	fs := cmd.Flags()
	common.register(fs)
	fs.VarP(&typ, "type", "t", "未标注类型的行使用的代理类型 (http|https|socks4|socks5)")
	fs.IntVar(&slice, "slice", 0, "每个子分组最多包含的节点数，0 表示不拆分")
	return cmd
}

// NewGetCommand get-proxy: 下载 checkerproxy.net 的每日存档
func NewGetCommand(version string) *cobra.Command {
	var (
		common   commonFlags
		date     string
		generate bool
		cronExpr string
		listen   string
	)

	cmd := &cobra.Command{
		Use:          "get-proxy",
		Short:        "下载 checkerproxy.net 每日代理存档",
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs := cmd.Flags()
			overrides := func(cfg *config.Config) {
				common.apply(fs, cfg)
				if fs.Changed("gen") {
					cfg.Generate = generate
				}
				if fs.Changed("cron") {
					cfg.CronExpression = cronExpr
				}
				if fs.Changed("listen") {
					cfg.ListenPort = listen
				}
			}

			day := time.Now()
			if date != "" {
				d, err := time.ParseInLocation(fetch.DateLayout, date, time.Local)
				if err != nil {
					return fmt.Errorf("日期格式错误, 应为 YYYY-MM-DD: %w", err)
				}
				day = d
			}

			cfg, path, done, err := common.setup(overrides)
			if done {
				return err
			}
			closer := utils.InitLogger(cfg.Verbose, cfg.LogFile)
			defer closer.Close()

			if cfg.CronExpression == "" {
				if _, err := NewJob(cfg).Run(context.Background(), day); err != nil {
					slog.Error(err.Error())
				}
				return nil
			}

			application := New(path, cfg, overrides)
			if err := application.Initialize(); err != nil {
				return err
			}
			application.Run()
			return nil
		},
	}

	fs := cmd.Flags()
	common.register(fs)
	fs.StringVar(&date, "date", "", "存档日期 YYYY-MM-DD，默认今天")
	fs.BoolVar(&generate, "gen", false, "下载后立即生成 YAML")
	fs.StringVar(&cronExpr, "cron", "", "cron 表达式，设置后常驻运行")
	fs.StringVar(&listen, "listen", "", "HTTP 监听端口，提供 /sub/<文件名> 下载")
	return cmd
}

// ExecuteGen gen-proxy 入口，只有配置错误时返回非零退出码
func ExecuteGen(version string) {
	if err := NewGenCommand(version).Execute(); err != nil {
		os.Exit(1)
	}
}

// ExecuteGet get-proxy 入口
func ExecuteGet(version string) {
	if err := NewGetCommand(version).Execute(); err != nil {
		os.Exit(1)
	}
}
