// Package fetch 下载 checkerproxy.net 的每日代理存档并保存为纯文本列表
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/juju/ratelimit"
	"github.com/klauspost/compress/gzhttp"

	"github.com/sinspired/proxy-gen/config"
)

// DateLayout 存档地址和输出文件名使用的日期格式
const DateLayout = "2006-01-02"

var (
	// ErrNotPublished 当日存档不存在或为空
	ErrNotPublished = errors.New("存档尚未发布")
)

// Client 存档下载客户端
type Client struct {
	httpClient    *http.Client
	baseURL       string
	userAgent     string
	retry         int
	retryInterval time.Duration
	rateLimit     int // KB/s
}

// NewClient 根据配置创建客户端
func NewClient(cfg *config.Config) *Client {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 30
	}

	transport := &http.Transport{Proxy: nil}
	if p := strings.TrimSpace(cfg.SystemProxy); p != "" {
		if pu, err := url.Parse(p); err == nil {
			transport.Proxy = http.ProxyURL(pu)
		} else {
			slog.Error("解析配置中的代理 URL 失败，将不使用代理", "proxy_url", p, "error", err)
		}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   time.Duration(timeout) * time.Second,
			Transport: gzhttp.Transport(transport),
		},
		baseURL:       strings.TrimSuffix(cfg.ArchiveURL, "/"),
		userAgent:     cfg.UserAgent,
		retry:         max(cfg.FetchRetry, 1),
		retryInterval: time.Duration(cfg.RetryInterval) * time.Second,
		rateLimit:     cfg.RateLimit,
	}
}

// ArchiveURL 指定日期的存档地址
func (c *Client) ArchiveURL(date time.Time) string {
	return c.baseURL + "/" + date.Format(DateLayout)
}

// Fetch 获取指定日期的存档；当日存档未发布时回退到前一天。
// 返回实际使用的存档日期。
func (c *Client) Fetch(ctx context.Context, date time.Time) ([]Record, time.Time, error) {
	var lastErr error
	for _, d := range []time.Time{date, date.AddDate(0, 0, -1)} {
		records, err := c.fetchDate(ctx, d)
		if err == nil {
			return records, d, nil
		}
		lastErr = err
		if !errors.Is(err, ErrNotPublished) {
			return nil, time.Time{}, err
		}
		slog.Warn(fmt.Sprintf("%s 的存档尚未发布，尝试前一天", d.Format(DateLayout)))
	}
	return nil, time.Time{}, lastErr
}

func (c *Client) fetchDate(ctx context.Context, date time.Time) ([]Record, error) {
	target := c.ArchiveURL(date)

	var lastErr error
	for i := 0; i < c.retry; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryInterval):
			}
		}

		body, err, terminal := c.fetchOnce(ctx, target)
		if err != nil {
			lastErr = err
			if terminal {
				return nil, err
			}
			slog.Warn(fmt.Sprintf("获取存档失败(尝试 %d/%d): %v", i+1, c.retry, err))
			continue
		}

		records, err := Decode(body)
		if err != nil {
			return nil, fmt.Errorf("解析存档 %s 失败: %w", target, err)
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("%w: %s 为空", ErrNotPublished, target)
		}
		slog.Info("获取存档成功", "url", target, "records", len(records))
		return records, nil
	}

	return nil, fmt.Errorf("重试%d次后失败: %w", c.retry, lastErr)
}

// fetchOnce 执行一次请求；返回 (body, err, terminal)
// terminal=true 表示不应继续重试（如 404/401 等明确错误）
func (c *Client) fetchOnce(ctx context.Context, target string) ([]byte, error, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err), true
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if os.IsTimeout(err) {
			return nil, fmt.Errorf("存档: %s 请求超时", target), false
		}
		return nil, fmt.Errorf("存档: %s 请求失败: %w", target, err), false
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusGone:
		return nil, fmt.Errorf("%w: %s (状态码: %d)", ErrNotPublished, target, resp.StatusCode), true
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("存档: %s 权限不足或需要认证 (状态码: %d)", target, resp.StatusCode), true
	default:
		return nil, fmt.Errorf("存档: %s 状态码: %d", target, resp.StatusCode), false
	}

	var reader io.Reader = resp.Body
	if c.rateLimit > 0 {
		rate := float64(c.rateLimit * 1024)
		reader = ratelimit.Reader(resp.Body, ratelimit.NewBucketWithRate(rate, int64(rate)))
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("读取存档: %s 数据错误: %w", target, err), false
	}
	return body, nil, false
}
