// Package config 解析配置文件
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	proxies "github.com/sinspired/proxy-gen/proxy"
)

type Config struct {
	// 生成 YAML
	Type       string `yaml:"type" validate:"oneof=http https socks4 socks5"`
	Verbose    int    `yaml:"verbose" validate:"min=0"`
	Slice      int    `yaml:"slice" validate:"min=0"`
	OutputDir  string `yaml:"output-dir"`
	LogFile    string `yaml:"log-file"`
	SaveMethod string `yaml:"save-method" validate:"omitempty,oneof=local webdav s3 r2"`

	WebDAVURL      string `yaml:"webdav-url" validate:"required_if=SaveMethod webdav"`
	WebDAVUsername string `yaml:"webdav-username" validate:"required_if=SaveMethod webdav"`
	WebDAVPassword string `yaml:"webdav-password" validate:"required_if=SaveMethod webdav"`
	S3Endpoint     string `yaml:"s3-endpoint" validate:"required_if=SaveMethod s3"`
	S3AccessID     string `yaml:"s3-access-id" validate:"required_if=SaveMethod s3"`
	S3SecretKey    string `yaml:"s3-secret-key" validate:"required_if=SaveMethod s3"`
	S3Bucket       string `yaml:"s3-bucket" validate:"required_if=SaveMethod s3"`
	S3UseSSL       bool   `yaml:"s3-use-ssl"`
	S3BucketLookup string `yaml:"s3-bucket-lookup" validate:"omitempty,oneof=auto path dns"`
	WorkerURL      string `yaml:"worker-url" validate:"required_if=SaveMethod r2"`
	WorkerToken    string `yaml:"worker-token" validate:"required_if=SaveMethod r2"`

	// 获取代理存档
	ArchiveURL     string `yaml:"archive-url" validate:"required,url"`
	FetchRetry     int    `yaml:"fetch-retry" validate:"min=0"`
	RetryInterval  int    `yaml:"fetch-retry-interval" validate:"min=0"`
	FetchTimeout   int    `yaml:"fetch-timeout" validate:"min=0"`
	UserAgent      string `yaml:"user-agent"`
	RateLimit      int    `yaml:"rate-limit" validate:"min=0"`
	SystemProxy    string `yaml:"system-proxy" validate:"omitempty,url"`
	CronExpression string `yaml:"cron-expression"`
	ListenPort     string `yaml:"listen-port"`
	Generate       bool   `yaml:"generate"`
}

//go:embed config.example.yaml
var DefaultConfigTemplate []byte

// Default 返回带默认值的配置
func Default() *Config {
	return &Config{
		Type:          "socks5",
		SaveMethod:    "local",
		ArchiveURL:    "https://checkerproxy.net/api/archive",
		FetchRetry:    3,
		RetryInterval: 2,
		FetchTimeout:  30,
		UserAgent:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	}
}

// Load 读取配置文件，未提供路径时使用默认值
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 反序列化到默认值之上，未出现的键保留默认值
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	// 类型与命令行参数一样不区分大小写
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("配置文件读取成功", "path", path)
	return cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("配置校验失败: %s (%s)", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("配置校验失败: %w", err)
	}
	return nil
}

// DefaultType 返回命令行未指定类型时使用的默认代理类型
func (c *Config) DefaultType() proxies.ProxyType {
	pt, err := proxies.ParseProxyType(c.Type)
	if err != nil {
		return proxies.SOCKS5
	}
	return pt
}

// ParseOptions 由配置生成解析参数
func (c *Config) ParseOptions() proxies.ParseOptions {
	return proxies.ParseOptions{
		DefaultType: c.DefaultType(),
		Verbose:     c.Verbose,
	}
}

// WriteTemplate 写出示例配置文件，文件已存在时不覆盖
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("配置文件已存在: %s", path)
	}
	if err := os.WriteFile(path, DefaultConfigTemplate, 0644); err != nil {
		return fmt.Errorf("写入默认配置文件失败: %w", err)
	}
	return nil
}
