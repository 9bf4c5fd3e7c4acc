package method

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sinspired/proxy-gen/config"
)

// KVPayload 定义上传到R2的数据结构
type KVPayload struct {
	Filename string `json:"filename"`
	Value    string `json:"value"`
}

// R2Uploader 通过 Cloudflare Worker 写入 R2 存储
type R2Uploader struct {
	client     *http.Client
	workerURL  string
	token      string
	retryDelay time.Duration
}

// NewR2Uploader 创建新的R2上传器
func NewR2Uploader(cfg *config.Config) *R2Uploader {
	return &R2Uploader{
		client:     newUploadClient(cfg.SystemProxy),
		workerURL:  cfg.WorkerURL,
		token:      cfg.WorkerToken,
		retryDelay: retryInterval,
	}
}

// Upload 执行上传操作
func (r *R2Uploader) Upload(yamlData []byte, filename string) error {
	if err := validateUpload(yamlData, filename); err != nil {
		return err
	}
	if r.workerURL == "" || r.token == "" {
		return fmt.Errorf("Worker配置不完整")
	}

	jsonData, err := json.Marshal(KVPayload{Filename: filename, Value: string(yamlData)})
	if err != nil {
		return fmt.Errorf("JSON编码失败: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(r.retryDelay)
		}
		if err := r.doUpload(jsonData); err != nil {
			lastErr = err
			slog.Error(fmt.Sprintf("R2上传失败(尝试 %d/%d) %v", attempt+1, maxRetries, err))
			continue
		}
		slog.Info("R2上传成功", "filename", filename)
		return nil
	}

	return fmt.Errorf("上传失败，已重试%d次: %w", maxRetries, lastErr)
}

// doUpload 执行单次上传
func (r *R2Uploader) doUpload(jsonData []byte) error {
	target := fmt.Sprintf("%s/storage?token=%s", strings.TrimSuffix(r.workerURL, "/"), url.QueryEscape(r.token))
	req, err := http.NewRequest(http.MethodPost, target, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("发送请求失败: %w", err)
	}
	defer resp.Body.Close()

	return checkResponse(resp)
}
