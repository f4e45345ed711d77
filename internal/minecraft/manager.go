package minecraft

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/opencontainers/go-digest"

	"github.com/prodbyeagle/eagle/internal/binary"
	"github.com/prodbyeagle/eagle/internal/resolver"
)

// File names inside a server folder.
const (
	JarFile        = "server.jar"
	EulaFile       = "eula.txt"
	PropertiesFile = "server.properties"
)

// Defaults applied when options leave a field zero.
const (
	DefaultPort  = 22222
	DefaultMotd  = "eagle minecraft server"
	DefaultRAMMB = 8192
)

var (
	ErrInvalidName    = errors.New("invalid server name")
	ErrServerExists   = errors.New("server folder already exists")
	ErrServerNotFound = errors.New("server not found")
	ErrNoServers      = errors.New("no servers found")
	ErrJarMissing     = errors.New("server.jar not found")
	ErrJavaNotFound   = errors.New("java not found in PATH")
)

// ArtifactResolver turns a flavor and version token into a downloadable
// artifact.
type ArtifactResolver interface {
	Resolve(ctx context.Context, flavor resolver.Flavor, token string) (*resolver.Artifact, error)
}

// Downloader writes a URL to dest, verifying it against expected when set.
type Downloader interface {
	Download(ctx context.Context, url, dest string, expected digest.Digest) (*binary.Result, error)
}

// Manager owns the servers root.
type Manager struct {
	root       string
	resolver   ArtifactResolver
	downloader Downloader
	logger     *slog.Logger
	lookPath   func(string) (string, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a manager for the servers under root.
func NewManager(root string, res ArtifactResolver, dl Downloader, opts ...Option) *Manager {
	m := &Manager{
		root:       root,
		resolver:   res,
		downloader: dl,
		logger:     slog.New(slog.DiscardHandler),
		lookPath:   exec.LookPath,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Root returns the servers root.
func (m *Manager) Root() string {
	return m.root
}

// fetchArtifact downloads art to dest. An artifact without a digest is
// refused when requireDigest is set and otherwise downloaded unverified.
func (m *Manager) fetchArtifact(ctx context.Context, art *resolver.Artifact, dest string, requireDigest bool) (*binary.Result, error) {
	if !art.Verified() {
		if requireDigest {
			return nil, fmt.Errorf("%s %s: %w", art.Name, art.Version, resolver.ErrNoDigest)
		}
		m.logger.Warn("downloading without digest verification", "url", art.URL)
	}
	return m.downloader.Download(ctx, art.URL, dest, art.Digest)
}
