package save

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/samber/lo"

	proxies "github.com/sinspired/proxy-gen/proxy"
)

const (
	groupTypeSelect = "select"
	ruleMatchDirect = "MATCH,DIRECT"
)

// ClashConfig 输出的配置文件
type ClashConfig struct {
	Proxies     []ClashProxy `yaml:"proxies"`
	ProxyGroups []ProxyGroup `yaml:"proxy-groups"`
	Rules       []string     `yaml:"rules"`
}

// ClashProxy 单个节点，地址输出为 server 键
type ClashProxy struct {
	Name   string `yaml:"name"`
	Server string `yaml:"server"`
	Port   uint32 `yaml:"port"`
	Type   string `yaml:"type"`
}

type ProxyGroup struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type"`
	Proxies []string `yaml:"proxies"`
}

// BuildConfig 由代理列表生成配置：一个以 groupName 命名的 select 分组和一条 MATCH,DIRECT 规则。
// slice > 0 时节点按 slice 个一组拆分为 "<groupName> N" 子分组，主分组只列出子分组。
func BuildConfig(list []proxies.Proxy, groupName string, slice int) ClashConfig {
	names := lo.Map(list, func(p proxies.Proxy, _ int) string { return p.Name })

	groups := []ProxyGroup{{Name: groupName, Type: groupTypeSelect, Proxies: names}}
	if slice > 0 && len(names) > 0 {
		chunks := lo.Chunk(names, slice)
		groups[0].Proxies = make([]string, 0, len(chunks))
		for i, chunk := range chunks {
			sub := fmt.Sprintf("%s %d", groupName, i+1)
			groups[0].Proxies = append(groups[0].Proxies, sub)
			groups = append(groups, ProxyGroup{Name: sub, Type: groupTypeSelect, Proxies: chunk})
		}
	}

	return ClashConfig{
		Proxies:     lo.Map(list, func(p proxies.Proxy, _ int) ClashProxy { return toClashProxy(p) }),
		ProxyGroups: groups,
		Rules:       []string{ruleMatchDirect},
	}
}

func toClashProxy(p proxies.Proxy) ClashProxy {
	return ClashProxy{
		Name:   p.Name,
		Server: p.Server.String(),
		Port:   p.Port,
		Type:   p.Type.String(),
	}
}

// Marshal 序列化为 YAML
func Marshal(cfg ClashConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("序列化yaml失败: %w", err)
	}
	return data, nil
}
