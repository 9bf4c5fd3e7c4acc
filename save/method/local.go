// Package method 保存配置文件的方法
package method

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	fileMode = 0644
	dirMode  = 0755

	maxRetries    = 3
	retryInterval = 2 * time.Second
)

// SaveToLocal 写入本地文件，已存在时覆盖。目录不存在时自动创建。
func SaveToLocal(data []byte, path string) error {
	if path == "" {
		return fmt.Errorf("文件路径不能为空")
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return fmt.Errorf("创建目录失败 [%s]: %w", dir, err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileMode)
	if err != nil {
		return fmt.Errorf("error occurs when create file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("error occurs when write data to file: %w", err)
	}
	return file.Close()
}

// validateUpload 校验上传参数
func validateUpload(data []byte, filename string) error {
	if len(data) == 0 {
		return fmt.Errorf("yaml数据为空")
	}
	if filename == "" {
		return fmt.Errorf("filename不能为空")
	}
	if filepath.Base(filename) != filename {
		return fmt.Errorf("filename包含非法字符: %s", filename)
	}
	return nil
}
