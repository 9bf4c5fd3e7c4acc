package utils

import (
	"path/filepath"
	"testing"
)

func TestReplaceExt(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"listing", "listing.yaml"},
		{"listing.txt", "listing.yaml"},
		{"data/2024-05-15", "data/2024-05-15.yaml"},
		{"data.d/listing", "data.d/listing.yaml"},
		{"a.b.c", "a.b.yaml"},
		{".hidden", ".hidden.yaml"},
	}
	for _, tt := range tests {
		in := filepath.FromSlash(tt.in)
		want := filepath.FromSlash(tt.want)
		if got := ReplaceExt(in, ".yaml"); got != want {
			t.Errorf("ReplaceExt(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFindConfigFileExplicit(t *testing.T) {
	if got := FindConfigFile("my.yaml"); got != "my.yaml" {
		t.Errorf("显式路径应原样返回, got %q", got)
	}
}
