package fetch

import (
	"cmp"
	"fmt"
	"log/slog"
	"net"
	"path/filepath"
	"slices"

	"github.com/docker/go-units"
	"github.com/goccy/go-json"

	proxies "github.com/sinspired/proxy-gen/proxy"
	"github.com/sinspired/proxy-gen/save/method"
)

// Record 存档中的一条代理
type Record struct {
	Addr    string `json:"addr"`
	Type    int    `json:"type"`
	Kind    int    `json:"kind"`
	Timeout int    `json:"timeout"`
}

// 存档中的数字类型到协议的映射
var archiveTypes = map[int]proxies.ProxyType{
	1: proxies.HTTP,
	2: proxies.HTTPS,
	3: proxies.SOCKS4,
	4: proxies.SOCKS5,
}

// Decode 解析存档 JSON 数组
func Decode(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Line 转换为 "<ip>:<port>:<type>"，IPv6 地址加方括号；无法转换时返回 false
func (r Record) Line() (string, bool) {
	pt, ok := archiveTypes[r.Type]
	if !ok {
		return "", false
	}
	host, port, err := net.SplitHostPort(r.Addr)
	if err != nil || host == "" || port == "" {
		return "", false
	}
	if ip := net.ParseIP(host); ip != nil && ip.To4() == nil {
		host = "[" + host + "]"
	}
	return host + ":" + port + ":" + pt.String(), true
}

// SortByTimeout 按响应时间升序排列，响应快的排在前面
func SortByTimeout(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		return cmp.Compare(a.Timeout, b.Timeout)
	})
}

// Render 生成纯文本列表内容，返回内容与有效行数
func Render(records []Record) ([]byte, int) {
	var buf []byte
	n := 0
	for _, r := range records {
		line, ok := r.Line()
		if !ok {
			slog.Debug("跳过无法识别的存档记录", "addr", r.Addr, "type", r.Type)
			continue
		}
		buf = append(buf, line...)
		buf = append(buf, '\n')
		n++
	}
	return buf, n
}

// WriteListing 排序后写入纯文本列表，文件名不带扩展名，便于 gen-proxy 按目录处理
func WriteListing(records []Record, dir, name string) (string, error) {
	SortByTimeout(records)
	data, n := Render(records)

	path := filepath.Join(dir, name)
	if err := method.SaveToLocal(data, path); err != nil {
		return "", fmt.Errorf("保存代理列表失败: %w", err)
	}
	slog.Info(fmt.Sprintf("保存代理列表: %s", path), "proxies", n, "size", units.HumanSize(float64(len(data))))
	return path, nil
}
