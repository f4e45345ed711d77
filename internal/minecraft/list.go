package minecraft

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Server is one server folder.
type Server struct {
	Name   string `json:"name"`
	Dir    string `json:"dir"`
	HasJar bool   `json:"hasJar"`
}

// List returns the folders under the root that hold a jar or server config
// files, sorted by name. A missing root yields no servers.
func (m *Manager) List() ([]Server, error) {
	entries, err := os.ReadDir(m.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read servers root: %w", err)
	}

	var servers []Server
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(m.root, entry.Name())
		hasJar := fileExists(filepath.Join(dir, JarFile))
		hasConfig := fileExists(filepath.Join(dir, PropertiesFile)) || fileExists(filepath.Join(dir, EulaFile))
		if !hasJar && !hasConfig {
			continue
		}
		servers = append(servers, Server{Name: entry.Name(), Dir: dir, HasJar: hasJar})
	}

	sort.Slice(servers, func(i, j int) bool { return servers[i].Name < servers[j].Name })
	return servers, nil
}

// Find returns the named server.
func (m *Manager) Find(name string) (*Server, error) {
	servers, err := m.List()
	if err != nil {
		return nil, err
	}
	for i := range servers {
		if servers[i].Name == name {
			return &servers[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrServerNotFound, name, m.root)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
