// Package save 生成并保存 YAML 配置
package save

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/docker/go-units"

	"github.com/sinspired/proxy-gen/config"
	proxies "github.com/sinspired/proxy-gen/proxy"
	"github.com/sinspired/proxy-gen/save/method"
	"github.com/sinspired/proxy-gen/utils"
)

// ConfigExt 输出文件固定使用的扩展名
const ConfigExt = ".yaml"

// ConfigSaver 将代理列表写成配置文件，并按配置额外上传一份
type ConfigSaver struct {
	outputDir  string
	slice      int
	saveMethod string
	upload     func([]byte, string) error
}

// NewConfigSaver 创建新的配置保存器
func NewConfigSaver(cfg *config.Config) *ConfigSaver {
	return &ConfigSaver{
		outputDir:  cfg.OutputDir,
		slice:      cfg.Slice,
		saveMethod: cfg.SaveMethod,
		upload:     chooseSaveMethod(cfg),
	}
}

// OutputPath 计算来源文件对应的输出路径：扩展名替换为 .yaml，配置了输出目录时放到该目录下
func (cs *ConfigSaver) OutputPath(srcPath string) string {
	dst := utils.ReplaceExt(srcPath, ConfigExt)
	if cs.outputDir != "" {
		dst = filepath.Join(cs.outputDir, filepath.Base(dst))
	}
	return dst
}

// Save 生成并写入一个来源的配置文件，返回写入路径。
// 失败只影响当前来源，由调用方记录后继续处理下一个。
func (cs *ConfigSaver) Save(srcPath string, list []proxies.Proxy) (string, error) {
	dst := cs.OutputPath(srcPath)
	clashCfg := BuildConfig(list, utils.TrimExt(dst), cs.slice)

	slog.Info(fmt.Sprintf("Write proxy info to: %s", dst))

	data, err := Marshal(clashCfg)
	if err != nil {
		return "", err
	}

	if err := method.SaveToLocal(data, dst); err != nil {
		return "", err
	}
	slog.Debug("配置文件已写入", "path", dst, "proxies", len(list), "size", units.HumanSize(float64(len(data))))

	if cs.upload != nil {
		if err := cs.upload(data, filepath.Base(dst)); err != nil {
			// 上传失败不影响本地文件
			slog.Error(fmt.Sprintf("保存到%s失败: %v", cs.saveMethod, err))
		}
	}
	return dst, nil
}

// chooseSaveMethod 根据配置选择额外的保存方法，local 时返回 nil
func chooseSaveMethod(cfg *config.Config) func([]byte, string) error {
	switch cfg.SaveMethod {
	case "", "local":
		return nil
	case "r2":
		uploader := method.NewR2Uploader(cfg)
		return uploader.Upload
	case "webdav":
		uploader, err := method.NewWebDAVUploader(cfg)
		if err != nil {
			return func([]byte, string) error { return fmt.Errorf("webDAV配置错误: %w", err) }
		}
		return uploader.Upload
	case "s3":
		uploader, err := method.NewS3Uploader(cfg)
		if err != nil {
			return func([]byte, string) error { return fmt.Errorf("S3配置错误: %w", err) }
		}
		return uploader.Upload
	default:
		return func([]byte, string) error {
			return fmt.Errorf("未知的保存方法: %v", cfg.SaveMethod)
		}
	}
}
