package method

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sinspired/proxy-gen/config"
)

// WebDAVUploader 处理 WebDAV 上传的结构体
type WebDAVUploader struct {
	client     *http.Client
	baseURL    string
	username   string
	password   string
	retryDelay time.Duration
}

// NewWebDAVUploader 创建新的 WebDAV 上传器
func NewWebDAVUploader(cfg *config.Config) (*WebDAVUploader, error) {
	if _, err := url.Parse(cfg.WebDAVURL); err != nil {
		return nil, fmt.Errorf("WebDAV URL 无法解析: %w", err)
	}

	return &WebDAVUploader{
		client:     newUploadClient(cfg.SystemProxy),
		baseURL:    cfg.WebDAVURL,
		username:   cfg.WebDAVUsername,
		password:   cfg.WebDAVPassword,
		retryDelay: retryInterval,
	}, nil
}

// Upload 执行上传操作
func (w *WebDAVUploader) Upload(yamlData []byte, filename string) error {
	if err := validateUpload(yamlData, filename); err != nil {
		return err
	}
	if w.baseURL == "" {
		return fmt.Errorf("webdav URL未配置")
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(w.retryDelay)
		}
		if err := w.doUpload(yamlData, filename); err != nil {
			lastErr = err
			slog.Error(fmt.Sprintf("webdav上传失败(尝试 %d/%d) %v", attempt+1, maxRetries, err))
			continue
		}
		slog.Info("webdav上传成功", "filename", filename)
		return nil
	}

	return fmt.Errorf("webdav上传失败，已重试%d次: %w", maxRetries, lastErr)
}

// doUpload 执行单次上传
func (w *WebDAVUploader) doUpload(yamlData []byte, filename string) error {
	target := strings.TrimSuffix(w.baseURL, "/") + "/" + filename

	req, err := http.NewRequest(http.MethodPut, target, bytes.NewReader(yamlData))
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.SetBasicAuth(w.username, w.password)
	req.Header.Set("Content-Type", "application/x-yaml")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("发送请求失败: %w", err)
	}
	defer resp.Body.Close()

	return checkResponse(resp)
}

// checkResponse 非 2xx 响应视为失败
func checkResponse(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("读取响应失败(状态码: %d): %w", resp.StatusCode, err)
		}
		return fmt.Errorf("上传失败(状态码: %d): %s", resp.StatusCode, string(body))
	}
	return nil
}

// newUploadClient 配置了系统代理时经代理上传，否则直连
func newUploadClient(systemProxy string) *http.Client {
	transport := &http.Transport{Proxy: nil}
	if systemProxy != "" {
		if proxyURL, err := url.Parse(systemProxy); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		} else {
			slog.Error("解析配置中的代理 URL 失败，将不使用代理", "proxy_url", systemProxy, "error", err)
		}
	}
	return &http.Client{
		Transport: transport,
		Timeout:   30 * time.Second,
	}
}
