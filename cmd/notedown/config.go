package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/mvanders/notedown/internal/dragdrop"
)

// UserConfig holds user-level configuration loaded from
// ~/.config/notedown/config.toml. Zero values fall back to defaults at
// load time, so a partial file is fine.
type UserConfig struct {
	// VaultPath is the SQLite database location.
	VaultPath string `toml:"vault_path"`

	// PreviewStyle is the glamour style name for the markdown preview.
	PreviewStyle string `toml:"preview_style"`

	// RecentLimit caps the recent-notes projection.
	RecentLimit int `toml:"recent_limit"`

	// DragReject picks how a rejected drop resets its hover feedback:
	// "immediate" or "animated".
	DragReject string `toml:"drag_reject"`

	// AutosaveSeconds is the editor idle time before a save fires.
	AutosaveSeconds int `toml:"autosave_seconds"`
}

func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "notedown"), nil
}

func defaultConfig() (*UserConfig, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	return &UserConfig{
		VaultPath:       filepath.Join(dir, "notes.db"),
		PreviewStyle:    "dark",
		RecentLimit:     10,
		DragReject:      "immediate",
		AutosaveSeconds: 2,
	}, nil
}

// loadUserConfig reads config.toml, filling any field the user left out
// with its default. A missing file yields pure defaults.
func loadUserConfig(path string) (*UserConfig, error) {
	defaults, err := defaultConfig()
	if err != nil {
		return nil, err
	}

	if path == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.toml")
	}

	var cfg UserConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if cfg.VaultPath == "" {
		cfg.VaultPath = defaults.VaultPath
	}
	if cfg.PreviewStyle == "" {
		cfg.PreviewStyle = defaults.PreviewStyle
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = defaults.RecentLimit
	}
	if cfg.DragReject == "" {
		cfg.DragReject = defaults.DragReject
	}
	if cfg.AutosaveSeconds <= 0 {
		cfg.AutosaveSeconds = defaults.AutosaveSeconds
	}

	switch cfg.DragReject {
	case "immediate", "animated":
	default:
		return nil, fmt.Errorf("config: drag_reject must be %q or %q, got %q",
			"immediate", "animated", cfg.DragReject)
	}

	return &cfg, nil
}

// rejectPolicy maps the config string onto the drag layer's policy.
func (c *UserConfig) rejectPolicy() dragdrop.RejectPolicy {
	if c.DragReject == "animated" {
		return dragdrop.ResetAnimated
	}
	return dragdrop.ResetImmediate
}
