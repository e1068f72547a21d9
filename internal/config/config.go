// Package config loads the server/client YAML configuration, following
// the teacher's ConfigDir/Load/LoadFrom shape: a missing file yields the
// default config rather than an error.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSocketPath = "/tmp/muxr.sock"
	DefaultRows       = 24
	DefaultCols       = 80
)

// Config is the server/client config file shape: socket path and default
// grid shape.
type Config struct {
	SocketPath string `yaml:"socket_path"`
	Rows       int    `yaml:"rows"`
	Cols       int    `yaml:"cols"`
}

// Default returns a Config at the spec's default socket path and shape.
func Default() *Config {
	return &Config{SocketPath: DefaultSocketPath, Rows: DefaultRows, Cols: DefaultCols}
}

// ConfigDir returns the muxr configuration directory (~/.muxr/).
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".muxr")
	}
	return filepath.Join(home, ".muxr")
}

// Load reads the config from ~/.muxr/config.yaml. If the file does not
// exist, it returns Default() with no error.
func Load() (*Config, error) {
	return LoadFrom(filepath.Join(ConfigDir(), "config.yaml"))
}

// LoadFrom reads the config from the given path. If the file does not
// exist, it returns Default() with no error.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.SocketPath == "" {
		cfg.SocketPath = DefaultSocketPath
	}
	if cfg.Rows == 0 {
		cfg.Rows = DefaultRows
	}
	if cfg.Cols == 0 {
		cfg.Cols = DefaultCols
	}
	return cfg, nil
}
