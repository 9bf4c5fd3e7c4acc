package method

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/sinspired/proxy-gen/config"
)

func TestSaveToLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.yaml")
	if err := SaveToLocal([]byte("a: 1\n"), path); err != nil {
		t.Fatal(err)
	}
	// 再次写入应覆盖
	if err := SaveToLocal([]byte("b: 2\n"), path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "b: 2\n" {
		t.Errorf("文件内容 = %q", data)
	}
}

func TestSaveToLocalCreateError(t *testing.T) {
	dir := t.TempDir()
	// 目标路径是已存在的目录，创建文件必然失败
	if err := SaveToLocal([]byte("x"), dir); err == nil {
		t.Error("写入目录路径应返回错误")
	}
}

func TestWebDAVUpload(t *testing.T) {
	var gotPath, gotUser, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		gotPath = r.URL.Path
		gotUser, _, _ = r.BasicAuth()
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.WebDAVURL = srv.URL + "/dav/"
	cfg.WebDAVUsername = "user"
	cfg.WebDAVPassword = "pass"

	uploader, err := NewWebDAVUploader(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := uploader.Upload([]byte("proxies: []\n"), "listing.yaml"); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/dav/listing.yaml" || gotUser != "user" || gotBody != "proxies: []\n" {
		t.Errorf("path=%q user=%q body=%q", gotPath, gotUser, gotBody)
	}
}

func TestWebDAVUploadRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.WebDAVURL = srv.URL
	uploader, err := NewWebDAVUploader(cfg)
	if err != nil {
		t.Fatal(err)
	}
	uploader.retryDelay = 0

	if err := uploader.Upload([]byte("x"), "a.yaml"); err == nil {
		t.Error("服务端持续失败时应返回错误")
	}
	if calls.Load() != maxRetries {
		t.Errorf("请求次数 = %d, want %d", calls.Load(), maxRetries)
	}

	if err := uploader.Upload(nil, "a.yaml"); err == nil {
		t.Error("空数据应被拒绝")
	}
	if err := uploader.Upload([]byte("x"), "../a.yaml"); err == nil {
		t.Error("带路径的文件名应被拒绝")
	}
}

func TestR2Upload(t *testing.T) {
	var payload KVPayload
	var token string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = r.URL.Query().Get("token")
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("解析请求体失败: %v", err)
		}
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.WorkerURL = srv.URL
	cfg.WorkerToken = "secret"

	if err := NewR2Uploader(cfg).Upload([]byte("rules: []\n"), "out.yaml"); err != nil {
		t.Fatal(err)
	}
	if token != "secret" || payload.Filename != "out.yaml" || payload.Value != "rules: []\n" {
		t.Errorf("token=%q payload=%+v", token, payload)
	}
}

func TestBucketLookup(t *testing.T) {
	cfg := config.Default()
	cfg.S3Endpoint = "127.0.0.1:9000"
	cfg.S3AccessID = "id"
	cfg.S3SecretKey = "key"
	cfg.S3Bucket = "proxies"
	cfg.S3BucketLookup = "path"

	uploader, err := NewS3Uploader(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if uploader.bucket != "proxies" {
		t.Errorf("bucket = %q", uploader.bucket)
	}
	if err := uploader.Upload(nil, "a.yaml"); err == nil {
		t.Error("空数据应被拒绝")
	}
}
