package proxies

import (
	"cmp"
	"slices"
)

// Set 按结构相等去重的代理集合
type Set struct {
	seen map[Proxy]struct{}
}

func NewSet() *Set {
	return &Set{seen: make(map[Proxy]struct{})}
}

// Add 插入记录，已存在时返回 false
func (s *Set) Add(p Proxy) bool {
	if _, ok := s.seen[p]; ok {
		return false
	}
	s.seen[p] = struct{}{}
	return true
}

func (s *Set) Len() int {
	return len(s.seen)
}

// Items 输出去重后的记录，按 地址、端口、类型、名称 排序以保证多次生成结果一致
func (s *Set) Items() []Proxy {
	result := make([]Proxy, 0, len(s.seen))
	for p := range s.seen {
		result = append(result, p)
	}
	slices.SortFunc(result, compareProxy)
	return result
}

func compareProxy(a, b Proxy) int {
	if c := a.Server.Compare(b.Server); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Port, b.Port); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Type, b.Type); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}

// DeduplicateProxies 对已有列表去重并排序
func DeduplicateProxies(proxies []Proxy) []Proxy {
	set := NewSet()
	for _, p := range proxies {
		set.Add(p)
	}
	return set.Items()
}
