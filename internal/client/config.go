package client

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

// DefaultServer is used when the config file names no server.
const DefaultServer = "http://localhost:8080"

const configPerms = 0o600

// Config is the CLI's persisted state. The file is JSON with comments and
// trailing commas allowed.
type Config struct {
	Server string `json:"server"`
	Token  string `json:"token,omitempty"`
	Email  string `json:"email,omitempty"`
}

// DefaultConfigPath is trellix/config.json under the user config dir.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "trellix", "config.json"), nil
}

// LoadConfig reads path. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{Server: DefaultServer}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	var cfg Config
	if err := sonic.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if cfg.Server == "" {
		cfg.Server = DefaultServer
	}
	return cfg, nil
}

// SaveConfig writes cfg atomically, readable only by the owner since it
// holds the session token.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := sonic.ConfigStd.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return os.Chmod(path, configPerms)
}
