// Package app 命令行入口与定时获取服务
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"github.com/sinspired/proxy-gen/config"
	"github.com/sinspired/proxy-gen/utils"
)

// App 定时获取服务的运行状态
type App struct {
	ctx        context.Context
	cancel     context.CancelFunc
	configPath string
	overrides  func(*config.Config) // 命令行参数覆盖，重新加载配置后再次应用
	cfg        atomic.Pointer[config.Config]

	mu         sync.Mutex
	cron       *cron.Cron
	cronExpr   string
	watcher    *fsnotify.Watcher
	httpServer *http.Server
	running    atomic.Bool
	stopCh     <-chan struct{}
}

// New 创建应用实例，configPath 为空时不监听配置文件
func New(configPath string, cfg *config.Config, overrides func(*config.Config)) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:        ctx,
		cancel:     cancel,
		configPath: configPath,
		overrides:  overrides,
	}
	app.cfg.Store(cfg)
	return app
}

func (app *App) config() *config.Config {
	return app.cfg.Load()
}

// Initialize 初始化配置监听、HTTP 服务和信号处理
func (app *App) Initialize() error {
	if app.configPath != "" {
		if err := app.initConfigWatcher(); err != nil {
			return fmt.Errorf("初始化配置文件监听失败: %w", err)
		}
	}

	if app.config().ListenPort != "" {
		if err := app.initHTTPServer(); err != nil {
			return fmt.Errorf("初始化HTTP服务器失败: %w", err)
		}
	}

	app.stopCh = utils.SetupSignalHandler()
	return nil
}

// Run 启动定时任务并立即执行一次，阻塞到收到退出信号
func (app *App) Run() {
	if err := app.setCron(); err != nil {
		slog.Error(fmt.Sprintf("cron表达式 '%s' 解析失败: %v", app.config().CronExpression, err))
		return
	}

	go app.triggerFetch()

	<-app.stopCh
	if err := app.Shutdown(); err != nil {
		slog.Error("关闭应用失败", "err", err)
	}
}

// setCron 按当前配置(重新)注册定时任务
func (app *App) setCron() error {
	expr := app.config().CronExpression

	app.mu.Lock()
	defer app.mu.Unlock()

	c := cron.New()
	if _, err := c.AddFunc(expr, app.triggerFetch); err != nil {
		return err
	}

	if app.cron != nil {
		app.cron.Stop()
	}
	app.cron = c
	app.cronExpr = expr
	app.cron.Start()
	slog.Info(fmt.Sprintf("使用cron表达式: %s", expr))
	return nil
}

// triggerFetch 执行一次获取任务，上一次尚未结束时跳过
func (app *App) triggerFetch() {
	if !app.running.CompareAndSwap(false, true) {
		slog.Warn("已有任务正在进行，跳过本次执行")
		return
	}
	defer app.running.Store(false)

	if _, err := NewJob(app.config()).Run(app.ctx, time.Now()); err != nil {
		slog.Error(err.Error())
	}

	app.mu.Lock()
	defer app.mu.Unlock()
	if app.cron != nil {
		if entries := app.cron.Entries(); len(entries) > 0 {
			slog.Info(fmt.Sprintf("下次执行时间: %s", entries[0].Next.Format("2006-01-02 15:04:05")))
		}
	}
}

// Shutdown 停止定时任务、配置监听和 HTTP 服务
func (app *App) Shutdown() error {
	slog.Debug("开始关闭应用...")

	var lastErr error
	app.cancel()

	app.mu.Lock()
	c := app.cron
	app.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}

	if app.watcher != nil {
		lastErr = app.watcher.Close()
	}

	if app.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.httpServer.Shutdown(ctx); err != nil {
			lastErr = errors.New("关闭 HTTP 服务器失败: " + err.Error())
			slog.Error("关闭 HTTP 服务器失败", "err", err)
		} else {
			slog.Info("HTTP 服务器关闭", "addr", app.httpServer.Addr)
		}
	}

	slog.Info("应用已关闭")
	return lastErr
}
