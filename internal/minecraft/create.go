package minecraft

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/prodbyeagle/eagle/internal/binary"
	"github.com/prodbyeagle/eagle/internal/resolver"
)

// CreateOptions describes a new server.
type CreateOptions struct {
	Name    string
	Flavor  resolver.Flavor
	Version string
	Port    int
	Motd    string
	// Force replaces an existing folder of the same name.
	Force bool
	// SkipDownload writes the config files only.
	SkipDownload  bool
	RequireDigest bool
}

// CreateResult reports what Create did.
type CreateResult struct {
	Dir       string
	Flavor    resolver.Flavor
	Requested string
	Resolved  string
	Port      int
	Motd      string
	// Artifact and Download are nil when the download was skipped.
	Artifact *resolver.Artifact
	Download *binary.Result
}

// VersionLabel renders "requested -> resolved", or just the version when
// both are the same.
func (r *CreateResult) VersionLabel() string {
	if r.Requested == r.Resolved {
		return r.Resolved
	}
	return r.Requested + " -> " + r.Resolved
}

// invalidNameChars cannot appear in a Windows folder name.
const invalidNameChars = `<>:"/\|?*`

// ValidateName checks that name is usable as a server folder name.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, invalidNameChars) {
		return fmt.Errorf("%w: folder names cannot contain %s", ErrInvalidName, invalidNameChars)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("%w: '..' not allowed", ErrInvalidName)
	}
	return nil
}

// Create sets up a new server folder and downloads its jar. A failure at
// any step after the folder was created removes the folder again.
func (m *Manager) Create(ctx context.Context, opts CreateOptions) (*CreateResult, error) {
	if err := ValidateName(opts.Name); err != nil {
		return nil, err
	}
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if opts.Port < 1 || opts.Port > 65535 {
		return nil, fmt.Errorf("port %d is out of range 1-65535", opts.Port)
	}
	if opts.Motd == "" {
		opts.Motd = DefaultMotd
	}

	result := &CreateResult{
		Dir:       filepath.Join(m.root, opts.Name),
		Flavor:    opts.Flavor,
		Requested: opts.Version,
		Resolved:  opts.Version,
		Port:      opts.Port,
		Motd:      opts.Motd,
	}

	// Resolve before touching the disk so a bad version leaves no folder.
	if !opts.SkipDownload {
		art, err := m.resolver.Resolve(ctx, opts.Flavor, opts.Version)
		if err != nil {
			return nil, fmt.Errorf("resolve %s %s: %w", opts.Flavor, opts.Version, err)
		}
		if !art.Verified() && opts.RequireDigest {
			return nil, fmt.Errorf("%s %s: %w", opts.Flavor, art.Version, resolver.ErrNoDigest)
		}
		result.Artifact = art
		result.Resolved = art.Version
	}

	if err := m.prepareDir(result.Dir, opts.Force); err != nil {
		return nil, err
	}
	guard := newDirGuard(result.Dir)
	defer guard.Release()

	if err := writeEula(result.Dir); err != nil {
		return nil, err
	}
	if err := writeServerProperties(result.Dir, opts.Port, opts.Motd); err != nil {
		return nil, err
	}

	if result.Artifact != nil {
		dl, err := m.fetchArtifact(ctx, result.Artifact, filepath.Join(result.Dir, JarFile), opts.RequireDigest)
		if err != nil {
			return nil, err
		}
		result.Download = dl
	}

	guard.Commit()
	m.logger.Info("server created",
		"dir", result.Dir,
		"flavor", result.Flavor,
		"version", result.Resolved,
		"skip_download", opts.SkipDownload,
	)
	return result, nil
}

func (m *Manager) prepareDir(dir string, force bool) error {
	if err := os.MkdirAll(m.root, 0755); err != nil {
		return fmt.Errorf("create servers root: %w", err)
	}

	_, err := os.Stat(dir)
	switch {
	case err == nil:
		if !force {
			return fmt.Errorf("%w: %s (use --force)", ErrServerExists, dir)
		}
		m.logger.Debug("removing existing server folder", "dir", dir)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove existing folder: %w", err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("stat %s: %w", dir, err)
	}

	if err := os.Mkdir(dir, 0755); err != nil {
		return fmt.Errorf("create server folder: %w", err)
	}
	return nil
}

const eulaContent = "# By changing the setting below to TRUE you are indicating your\n" +
	"# agreement to our EULA (https://aka.ms/MinecraftEULA).\n" +
	"eula=true\n"

func writeEula(dir string) error {
	if err := os.WriteFile(filepath.Join(dir, EulaFile), []byte(eulaContent), 0644); err != nil {
		return fmt.Errorf("write %s: %w", EulaFile, err)
	}
	return nil
}

// serverProperties renders a vanilla server.properties with the given port
// and motd.
func serverProperties(port int, motd string) string {
	lines := []string{
		"enable-jmx-monitoring=false",
		fmt.Sprintf("server-port=%d", port),
		"server-ip=",
		"motd=" + motd,
		"enable-command-block=false",
		"online-mode=true",
		"level-name=world",
		"gamemode=survival",
		"difficulty=easy",
		"max-players=20",
		"view-distance=10",
		"simulation-distance=10",
		"spawn-protection=16",
		"sync-chunk-writes=true",
		"enable-rcon=false",
		"enable-query=false",
		"enforce-secure-profile=true",
		"white-list=false",
		"pvp=true",
		"allow-flight=false",
		"generate-structures=true",
		"level-seed=",
		"allow-nether=true",
		"spawn-animals=true",
		"spawn-monsters=true",
		"spawn-npcs=true",
		"use-native-transport=true",
	}
	return strings.Join(lines, "\n") + "\n"
}

func writeServerProperties(dir string, port int, motd string) error {
	path := filepath.Join(dir, PropertiesFile)
	if err := os.WriteFile(path, []byte(serverProperties(port, motd)), 0644); err != nil {
		return fmt.Errorf("write %s: %w", PropertiesFile, err)
	}
	return nil
}
