// Package testutil provides utilities for testing eagle in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Env holds the isolated directories created by SetupTestEnv.
type Env struct {
	ConfigDir  string
	ServersDir string
	DataDir    string
	// ProjectsDir is the eagle create root.
	ProjectsDir string
}

// SetupTestEnv points every eagle directory at a fresh temp tree so tests
// never touch the user's real configuration, servers or clones. Cleanup is
// handled by t.TempDir.
func SetupTestEnv(t *testing.T) Env {
	t.Helper()

	tmpDir := t.TempDir()
	env := Env{
		ConfigDir:   filepath.Join(tmpDir, "config"),
		ServersDir:  filepath.Join(tmpDir, "servers"),
		DataDir:     filepath.Join(tmpDir, "data"),
		ProjectsDir: filepath.Join(tmpDir, "projects"),
	}

	t.Setenv("EAGLE_CONFIG_DIR", env.ConfigDir)
	t.Setenv("EAGLE_SERVERS_DIR", env.ServersDir)
	t.Setenv("EAGLE_DATA_DIR", env.DataDir)
	t.Setenv("EAGLE_CREATE_ROOT", env.ProjectsDir)

	for _, dir := range []string{env.ConfigDir, env.ServersDir, env.DataDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}
	return env
}
