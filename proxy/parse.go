package proxies

import (
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

var (
	// ErrTooFewFields 行内以冒号分隔的字段少于两个
	ErrTooFewFields = errors.New("line error")
	// ErrBadAddress IP 地址无法解析
	ErrBadAddress = errors.New("ip address parse error")
	// ErrBadPort 端口无法解析为无符号整数
	ErrBadPort = errors.New("port parse error")
	// ErrBadType 未知的代理类型
	ErrBadType = errors.New("unknown proxy type")
)

// ParseOptions 解析时使用的参数，由调用方显式传入
type ParseOptions struct {
	DefaultType ProxyType
	Verbose     int
}

// ParseLine 将一行 "<ip>:<port>[:<type>]" 解析为代理记录。
// 返回的错误均为可恢复错误，调用方应跳过该行继续处理。
func ParseLine(line string, lineNo int, opts ParseOptions) (Proxy, error) {
	parts, err := splitFields(line)
	if err != nil {
		return Proxy{}, err
	}

	addrText, portText := parts[0], parts[1]

	addr, err := netip.ParseAddr(addrText)
	if err != nil || addr.Zone() != "" {
		return Proxy{}, fmt.Errorf("%w at line: %d", ErrBadAddress, lineNo)
	}

	port, err := strconv.ParseUint(portText, 10, 32)
	if err != nil {
		return Proxy{}, fmt.Errorf("%w at line: %d: %q", ErrBadPort, lineNo, portText)
	}

	ptype := opts.DefaultType
	if len(parts) >= 3 {
		if ptype, err = ParseProxyType(parts[2]); err != nil {
			return Proxy{}, fmt.Errorf("at line %d: %w", lineNo, err)
		}
	}

	return Proxy{
		Name:   ProxyName(addrText, portText),
		Server: addr,
		Port:   uint32(port),
		Type:   ptype,
	}, nil
}

// splitFields 按冒号切分；"[v6地址]:port[:type]" 形式的方括号内容作为整体地址字段
func splitFields(line string) ([]string, error) {
	if strings.HasPrefix(line, "[") {
		end := strings.Index(line, "]")
		if end < 0 || !strings.HasPrefix(line[end+1:], ":") {
			return nil, fmt.Errorf("%w: %s", ErrTooFewFields, line)
		}
		rest := strings.Split(line[end+2:], ":")
		return append([]string{line[1:end]}, rest...), nil
	}

	parts := strings.Split(line, ":")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: %s", ErrTooFewFields, line)
	}
	return parts, nil
}
