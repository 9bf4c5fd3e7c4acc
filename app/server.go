package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// initHTTPServer 初始化HTTP服务器，只读提供输出目录中的文件
func (app *App) initHTTPServer() error {
	addr := listenAddr(app.config().ListenPort)
	app.httpServer = &http.Server{
		Addr:    addr,
		Handler: newRouter(func() string { return outputDir(app.config()) }),
	}

	go func() {
		slog.Info("启动HTTP服务器", "addr", addr)
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error(fmt.Sprintf("HTTP服务器启动失败: %v", err))
		}
	}()
	return nil
}

// newRouter 创建路由，dir 每次请求时取值，配置重新加载后立即生效
func newRouter(dir func() string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), gin.Logger())

	router.GET("/sub/*filepath", func(c *gin.Context) {
		relPath := c.Param("filepath") // 带前缀的路径，如 "/2024-05-15.yaml"
		if relPath == "" || relPath == "/" {
			c.String(http.StatusNotFound, "请指定文件名，例如 /sub/2024-05-15.yaml")
			return
		}

		// Clean 以 "/" 为根，避免 ../ 越过输出目录
		absPath := filepath.Join(dir(), filepath.Clean("/"+strings.TrimPrefix(relPath, "/")))
		info, err := os.Stat(absPath)
		if err != nil || info.IsDir() {
			c.String(http.StatusNotFound, "文件不存在")
			return
		}
		c.File(absPath)
	})

	return router
}

// listenAddr 兼容 "8199" 与 ":8199" 两种写法
func listenAddr(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}
