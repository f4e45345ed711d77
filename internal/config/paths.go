package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/prodbyeagle/eagle/internal/platform"
)

// Dir returns the configuration directory: $EAGLE_CONFIG_DIR, else
// $XDG_CONFIG_HOME/eagle, else ~/.config/eagle.
func Dir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return ExpandHome(dir)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "eagle"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", "eagle"), nil
}

// DataDir returns the directory for eagle's working data: $EAGLE_DATA_DIR,
// else the OS user config directory (%APPDATA% on Windows).
func DataDir() (string, error) {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return ExpandHome(dir)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %w", err)
	}
	return dir, nil
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load parses the configuration at path, or at Path() when path is empty.
// A missing default file yields Default(); a missing explicit path is an
// error. Environment overrides and home expansion are applied last.
func Load(ctx context.Context, path string, detector platform.Detector) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return nil, err
		}
		path = p
	}

	var cfg *Config
	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		parsed, err := NewParser(detector).ParseFile(ctx, path)
		if err != nil {
			return nil, err
		}
		cfg = parsed
	case errors.Is(statErr, fs.ErrNotExist) && !explicit:
		cfg = Default()
	default:
		return nil, fmt.Errorf("config %s: %w", path, statErr)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if dir := os.Getenv(EnvServersDir); dir != "" {
		c.Minecraft.Root = dir
	}

	root, err := ExpandHome(c.Minecraft.Root)
	if err != nil {
		return err
	}
	c.Minecraft.Root = root

	if v, ok := os.LookupEnv(EnvCreateRoot); ok {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s is set but empty", EnvCreateRoot)
		}
		c.Create.Root = v
	}
	if c.Create.Root, err = ExpandHome(c.Create.Root); err != nil {
		return err
	}

	if c.Eaglecord.Dir == "" {
		data, err := DataDir()
		if err != nil {
			return err
		}
		c.Eaglecord.Dir = filepath.Join(data, "EagleCord", "Vencord")
		return nil
	}
	dir, err := ExpandHome(c.Eaglecord.Dir)
	if err != nil {
		return err
	}
	c.Eaglecord.Dir = dir
	return nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", path, err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
