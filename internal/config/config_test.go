package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFileReturnsDefault(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SocketPath != DefaultSocketPath || cfg.Rows != DefaultRows || cfg.Cols != DefaultCols {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadFromPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("socket_path: /tmp/other.sock\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SocketPath != "/tmp/other.sock" {
		t.Fatalf("socket_path = %q, want /tmp/other.sock", cfg.SocketPath)
	}
	if cfg.Rows != DefaultRows || cfg.Cols != DefaultCols {
		t.Fatalf("cfg = %+v, want default rows/cols", cfg)
	}
}

func TestLoadFromFullOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "socket_path: /tmp/custom.sock\nrows: 40\ncols: 120\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SocketPath != "/tmp/custom.sock" || cfg.Rows != 40 || cfg.Cols != 120 {
		t.Fatalf("cfg = %+v, want custom values", cfg)
	}
}
