package proxies

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "listing")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadSourceDedup(t *testing.T) {
	path := writeSource(t,
		"10.0.0.1:1080",
		"10.0.0.1:1080",
		"10.0.0.2:8080:http",
	)

	res, err := ReadSource(path, ParseOptions{DefaultType: SOCKS5})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Proxies) != 2 {
		t.Fatalf("期望 2 个代理, 实际 %d: %v", len(res.Proxies), res.Proxies)
	}

	got := make(map[string]ProxyType)
	for _, p := range res.Proxies {
		got[p.Name] = p.Type
	}
	want := map[string]ProxyType{
		"10.0.0.1 - 1080": SOCKS5,
		"10.0.0.2 - 8080": HTTP,
	}
	for name, typ := range want {
		if got[name] != typ {
			t.Errorf("%s: type = %s, want %s", name, got[name], typ)
		}
	}
}

func TestReadSourceSkipsBadLines(t *testing.T) {
	path := writeSource(t,
		"garbage",
		"999.999.999.999:80",
		"10.0.0.1:notaport",
		"10.0.0.1:80:ftp",
		"10.0.0.3:3128",
	)

	res, err := ReadSource(path, ParseOptions{DefaultType: HTTP, Verbose: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Proxies) != 1 || res.Proxies[0].Name != "10.0.0.3 - 3128" {
		t.Errorf("坏行之后的记录应被保留, got %v", res.Proxies)
	}
	if len(res.Diagnostics) != 4 {
		t.Errorf("期望 4 条诊断信息, got %d", len(res.Diagnostics))
	}
	if res.Diagnostics[1].Line != 2 {
		t.Errorf("诊断行号 = %d, want 2", res.Diagnostics[1].Line)
	}
	if res.Lines != 5 {
		t.Errorf("Lines = %d, want 5", res.Lines)
	}
}

func TestReadSourceEmptyAndDir(t *testing.T) {
	res, err := ReadSource(writeSource(t), ParseOptions{DefaultType: SOCKS5})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Proxies) != 0 {
		t.Errorf("空文件应无代理, got %v", res.Proxies)
	}

	res, err = ReadSource(t.TempDir(), ParseOptions{DefaultType: SOCKS5})
	if err != nil || len(res.Proxies) != 0 || res.Lines != 0 {
		t.Errorf("目录应直接返回空结果, got %+v, %v", res, err)
	}

	if _, err := ReadSource(filepath.Join(t.TempDir(), "missing"), ParseOptions{}); err == nil {
		t.Error("不存在的文件应返回错误")
	}
}

func TestReadSourceCRLF(t *testing.T) {
	path := writeSource(t, "10.0.0.1:1080\r", "10.0.0.1:1080:socks5\r")
	res, err := ReadSource(path, ParseOptions{DefaultType: SOCKS5})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Proxies) != 1 {
		t.Errorf("CRLF 行应被视为同一记录, got %v", res.Proxies)
	}
}

func TestIsSourceEntry(t *testing.T) {
	tests := map[string]bool{
		"listing":          true,
		"2024-05-15":       true,
		".hidden":          true,
		"listing.bak":      false,
		"listing.yaml":     false,
		"dir/sub/listing":  true,
		"dir/sub/list.txt": false,
	}
	for name, want := range tests {
		if got := IsSourceEntry(name); got != want {
			t.Errorf("IsSourceEntry(%q) = %v, want %v", name, got, want)
		}
	}
}
