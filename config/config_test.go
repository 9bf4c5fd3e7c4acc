package config

import (
	"os"
	"path/filepath"
	"testing"

	proxies "github.com/sinspired/proxy-gen/proxy"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DefaultType() != proxies.SOCKS5 {
		t.Errorf("默认类型 = %s, want socks5", cfg.DefaultType())
	}
	if cfg.Slice != 0 || cfg.Verbose != 0 {
		t.Errorf("slice/verbose 默认应为 0, got %d/%d", cfg.Slice, cfg.Verbose)
	}
}

func TestLoadExampleTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteTemplate(path); err != nil {
		t.Fatal(err)
	}
	if err := WriteTemplate(path); err == nil {
		t.Error("已存在的配置文件不应被覆盖")
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("示例配置应能通过校验: %v", err)
	}
	if cfg.ArchiveURL != Default().ArchiveURL {
		t.Errorf("archive-url = %q", cfg.ArchiveURL)
	}
}

func TestLoadOverridesAndKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "type: HTTP\nslice: 50\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DefaultType() != proxies.HTTP || cfg.Slice != 50 {
		t.Errorf("覆盖失败: type=%s slice=%d", cfg.DefaultType(), cfg.Slice)
	}
	if cfg.FetchRetry != 3 {
		t.Errorf("未出现的键应保留默认值, fetch-retry = %d", cfg.FetchRetry)
	}
}

func TestValidateSaveMethod(t *testing.T) {
	cfg := Default()
	cfg.SaveMethod = "webdav"
	if err := cfg.Validate(); err == nil {
		t.Error("webdav 缺少地址时应校验失败")
	}
	cfg.WebDAVURL = "http://127.0.0.1:8080/dav"
	cfg.WebDAVUsername = "u"
	cfg.WebDAVPassword = "p"
	if err := cfg.Validate(); err != nil {
		t.Errorf("完整的 webdav 配置应通过: %v", err)
	}

	cfg.SaveMethod = "ftp"
	if err := cfg.Validate(); err == nil {
		t.Error("未知保存方式应校验失败")
	}
}

func TestLoadTypeCaseInsensitive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	for _, typ := range []string{"SOCKS5", " Socks4 ", "https"} {
		if err := os.WriteFile(path, []byte("type: \""+typ+"\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Errorf("type %q 应通过校验: %v", typ, err)
			continue
		}
		if want, _ := proxies.ParseProxyType(typ); cfg.DefaultType() != want {
			t.Errorf("type %q => %s, want %s", typ, cfg.DefaultType(), want)
		}
	}

	if err := os.WriteFile(path, []byte("type: FTP\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("未知类型应校验失败")
	}
}
