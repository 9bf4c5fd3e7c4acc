package proxies

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// maxLineSize 单行最大长度，超出后 Scanner 报错
const maxLineSize = 1024 * 1024

// Diagnostic 被跳过的一行及原因
type Diagnostic struct {
	Line   int
	Text   string
	Reason error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %v", d.Line, d.Reason)
}

// Result 单个来源文件的解析结果
type Result struct {
	Proxies     []Proxy
	Diagnostics []Diagnostic
	Lines       int
}

// ReadSource 读取一个纯文本来源文件，返回去重后的代理列表。
// 传入目录时直接返回空结果，目录应由调用方提前展开。
func ReadSource(path string, opts ParseOptions) (Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("读取来源文件失败: %w", err)
	}
	if info.IsDir() {
		return Result{}, nil
	}

	slog.Info(fmt.Sprintf("Reading proxy info from: %s", path))

	file, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("打开来源文件失败: %w", err)
	}
	defer file.Close()

	set := NewSet()
	var result Result

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		result.Lines++

		if opts.Verbose > 2 {
			slog.Info(line)
		}

		p, err := ParseLine(line, result.Lines, opts)
		if err != nil {
			slog.Warn(err.Error())
			result.Diagnostics = append(result.Diagnostics, Diagnostic{Line: result.Lines, Text: line, Reason: err})
			continue
		}
		set.Add(p)
	}
	if err := scanner.Err(); err != nil {
		return Result{}, fmt.Errorf("读取来源文件 %s 失败: %w", path, err)
	}

	result.Proxies = set.Items()
	slog.Debug("来源解析完成", "file", path, "lines", result.Lines, "proxies", len(result.Proxies), "skipped", len(result.Diagnostics))
	return result, nil
}

// IsSourceEntry 目录展开时判断条目是否为待处理的原始列表：
// 没有扩展名的视为原始数据，带扩展名的视为已处理或无关文件
func IsSourceEntry(name string) bool {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	// ".hidden" 这种只有前导点的文件名不算扩展名
	return ext == "" || ext == base
}
