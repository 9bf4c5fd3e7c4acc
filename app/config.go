package app

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sinspired/proxy-gen/config"
	"github.com/sinspired/proxy-gen/utils"
)

// loadConfig 查找并加载配置文件，再应用命令行覆盖；返回实际使用的配置文件路径
func loadConfig(explicit string, overrides func(*config.Config)) (*config.Config, string, error) {
	path := utils.FindConfigFile(explicit)

	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}
	if overrides != nil {
		overrides(cfg)
	}
	// 覆盖后的值同样需要校验
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// reloadConfig 重新加载配置文件，失败时保留旧配置
func (app *App) reloadConfig() {
	slog.Info("配置文件发生变化，正在重新加载")
	oldCronExpr := app.config().CronExpression
	oldListenPort := app.config().ListenPort

	cfg, _, err := loadConfig(app.configPath, app.overrides)
	if err != nil {
		slog.Error(fmt.Sprintf("重新加载配置文件失败: %v", err))
		return
	}
	app.cfg.Store(cfg)

	if cfg.CronExpression != oldCronExpr {
		if err := app.setCron(); err != nil {
			slog.Error(fmt.Sprintf("cron表达式 '%s' 解析失败: %v，继续使用 '%s'", cfg.CronExpression, err, oldCronExpr))
		}
	}
	if cfg.ListenPort != oldListenPort {
		slog.Warn("监听端口变更需要重启程序后生效")
	}
}

// initConfigWatcher 初始化配置文件监听
func (app *App) initConfigWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听器失败: %w", err)
	}
	app.watcher = watcher

	absPath, err := filepath.Abs(app.configPath)
	if err != nil {
		return fmt.Errorf("获取配置文件路径失败: %w", err)
	}

	// 防抖定时器，防止vscode等软件先临时创建文件在覆盖，会产生两次write事件
	var debounceTimer *time.Timer
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != absPath {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					if debounceTimer != nil {
						debounceTimer.Stop()
					}
					debounceTimer = time.AfterFunc(100*time.Millisecond, app.reloadConfig)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error(fmt.Sprintf("配置文件监听错误: %v", err))
			}
		}
	}()

	// 监听所在目录，编辑器替换文件后仍能收到事件
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("添加配置文件监听失败: %w", err)
	}
	slog.Debug("开始监听配置文件", "path", absPath)
	return nil
}
