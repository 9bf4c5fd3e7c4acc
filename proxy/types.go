// Package proxies 解析纯文本代理列表，去重并生成代理记录
package proxies

import (
	"fmt"
	"net/netip"
	"strings"
)

// ProxyType 代理协议类型
type ProxyType uint8

const (
	HTTP ProxyType = iota + 1
	HTTPS
	SOCKS4
	SOCKS5
)

var proxyTypeNames = map[ProxyType]string{
	HTTP:   "http",
	HTTPS:  "https",
	SOCKS4: "socks4",
	SOCKS5: "socks5",
}

// ProxyTypeNames 返回全部合法的类型标记，顺序固定
func ProxyTypeNames() []string {
	return []string{"http", "https", "socks4", "socks5"}
}

// ParseProxyType 大小写不敏感地解析类型标记
func ParseProxyType(s string) (ProxyType, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	for t, name := range proxyTypeNames {
		if name == token {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadType, s)
}

func (t ProxyType) String() string {
	if name, ok := proxyTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ProxyType(%d)", uint8(t))
}

// MarshalText 输出小写标记
func (t ProxyType) MarshalText() ([]byte, error) {
	name, ok := proxyTypeNames[t]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrBadType, uint8(t))
	}
	return []byte(name), nil
}

func (t *ProxyType) UnmarshalText(b []byte) error {
	v, err := ParseProxyType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Set 与 Type 让 ProxyType 可以直接作为命令行参数 (pflag.Value)
func (t *ProxyType) Set(s string) error {
	return t.UnmarshalText([]byte(s))
}

func (t *ProxyType) Type() string {
	return "proxyType"
}

// Proxy 单个代理记录，所有字段均可比较，可直接作为 map 键去重
type Proxy struct {
	Name   string
	Server netip.Addr
	Port   uint32
	Type   ProxyType
}

// ProxyName 生成展示名称 "<address> - <port>"，端口使用原始文本
func ProxyName(address, port string) string {
	return address + " - " + port
}
