package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	DefaultFolder string   `koanf:"default_folder"` // starting location when no argument given
	MediaTypes    []string `koanf:"media_types"`    // "audio", "video" (default: both)
	Recursive     bool     `koanf:"recursive"`      // descend below the top-level folder
	LogFile       string   `koanf:"log_file"`       // empty disables logging
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if len(cfg.MediaTypes) == 0 {
		cfg.MediaTypes = []string{"audio", "video"}
	}

	cfg.DefaultFolder = expandPath(cfg.DefaultFolder)
	cfg.LogFile = expandPath(cfg.LogFile)

	return cfg, nil
}

// DefaultLogPath returns the log file location used when the config does not
// set one: the XDG state directory.
func DefaultLogPath() string {
	path, err := xdg.StateFile(filepath.Join("ondine", "ondine.log"))
	if err != nil {
		return ""
	}
	return path
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/ondine/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "ondine", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
