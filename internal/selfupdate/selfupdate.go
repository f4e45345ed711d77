// Package selfupdate replaces the running eagle binary with the latest
// released one. The new binary is always digest-verified before it is
// published next to the old one.
package selfupdate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/opencontainers/go-digest"

	"github.com/prodbyeagle/eagle/internal/binary"
	"github.com/prodbyeagle/eagle/internal/lock"
	"github.com/prodbyeagle/eagle/internal/resolver"
)

var (
	// ErrDevBuild is returned when the running binary looks like a local
	// build and the update was not forced.
	ErrDevBuild = errors.New("refusing to modify a dev binary (use --force)")
)

// ReleaseResolver finds a named asset in the latest release.
type ReleaseResolver interface {
	ResolveRelease(ctx context.Context, assetName string) (*resolver.Artifact, error)
}

// Downloader writes a URL to dest, verifying it against expected.
type Downloader interface {
	Download(ctx context.Context, url, dest string, expected digest.Digest) (*binary.Result, error)
}

// Options controls an update run.
type Options struct {
	// Force updates dev builds and reinstalls when already up to date.
	Force bool
	// CheckOnly stops after comparing versions.
	CheckOnly bool
}

// Result reports what Update found and did.
type Result struct {
	Current  string
	Latest   string
	Artifact *resolver.Artifact
	// Newer is true when Latest is a newer release than Current.
	Newer bool
	// Installed is true when the new binary was published or scheduled.
	Installed bool
	// Deferred is true when publishing waits for this process to exit.
	Deferred bool
	NewPath  string
}

// Updater updates the binary at exePath.
type Updater struct {
	releases   ReleaseResolver
	downloader Downloader
	current    string
	exePath    string
	goos       string
	logger     *slog.Logger
	publisher  publisher
}

// Option configures an Updater.
type Option func(*Updater)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(u *Updater) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// WithExecutable overrides the binary path and target OS, which default to
// os.Executable and runtime.GOOS.
func WithExecutable(path, goos string) Option {
	return func(u *Updater) {
		u.exePath = path
		u.goos = goos
	}
}

// New creates an Updater for a binary reporting version current.
func New(releases ReleaseResolver, dl Downloader, current string, opts ...Option) (*Updater, error) {
	u := &Updater{
		releases:   releases,
		downloader: dl,
		current:    current,
		goos:       runtime.GOOS,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(u)
	}

	if u.exePath == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("locate running executable: %w", err)
		}
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		u.exePath = exe
	}
	if u.publisher == nil {
		u.publisher = publisherFor(u.goos)
	}
	return u, nil
}

// Executable returns the binary this Updater replaces.
func (u *Updater) Executable() string {
	return u.exePath
}

// LockFile is created next to the binary while an update runs.
const LockFile = "eagle.update.lock"

// AssetName returns the release asset for goos.
func AssetName(goos string) string {
	if goos == "windows" {
		return "eagle.exe"
	}
	return "eagle"
}

// StagedPath returns where the new binary is downloaded before it
// replaces exePath.
func StagedPath(exePath, goos string) string {
	name := "eagle.new"
	if goos == "windows" {
		name += ".exe"
	}
	return filepath.Join(filepath.Dir(exePath), name)
}

// IsDevBuild reports whether the binary looks like a local build: an
// unversioned build, a go run temp binary or a build output folder.
func IsDevBuild(exePath, version string) bool {
	if version == "" || version == "dev" {
		return true
	}
	// Windows paths are matched on every host.
	p := strings.ToLower(strings.ReplaceAll(exePath, `\`, "/"))
	for _, marker := range []string{"/go-build", "/target/debug/", "/target/release/"} {
		if strings.Contains(p, marker) {
			return true
		}
	}
	return false
}

// IsNewer reports whether latest is a newer release than current. A
// current version that is not semver is always considered older.
func IsNewer(current, latest string) (bool, error) {
	lv, err := semver.NewVersion(latest)
	if err != nil {
		return false, fmt.Errorf("parse release version %q: %w", latest, err)
	}
	cv, err := semver.NewVersion(current)
	if err != nil {
		return true, nil
	}
	return lv.GreaterThan(cv), nil
}

// Update checks the latest release and, unless opts.CheckOnly, installs it.
func (u *Updater) Update(ctx context.Context, opts Options) (*Result, error) {
	if !opts.CheckOnly && !opts.Force && IsDevBuild(u.exePath, u.current) {
		return nil, ErrDevBuild
	}

	art, err := u.releases.ResolveRelease(ctx, AssetName(u.goos))
	if err != nil {
		return nil, err
	}

	newer, err := IsNewer(u.current, art.Version)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Current:  u.current,
		Latest:   art.Version,
		Artifact: art,
		Newer:    newer,
		NewPath:  StagedPath(u.exePath, u.goos),
	}
	u.logger.Debug("release checked", "current", u.current, "latest", art.Version, "newer", newer)

	if opts.CheckOnly || (!newer && !opts.Force) {
		return result, nil
	}

	if !art.Verified() {
		return nil, fmt.Errorf("release asset %s: %w", art.Name, resolver.ErrNoDigest)
	}

	held, err := lock.Acquire(ctx, filepath.Join(filepath.Dir(u.exePath), LockFile))
	if err != nil {
		return nil, err
	}
	defer held.Release()

	if _, err := u.downloader.Download(ctx, art.URL, result.NewPath, art.Digest); err != nil {
		return nil, err
	}

	deferred, err := u.publisher.publish(result.NewPath, u.exePath)
	if err != nil {
		_ = os.Remove(result.NewPath)
		return nil, err
	}

	result.Installed = true
	result.Deferred = deferred
	u.logger.Info("update installed", "version", art.Version, "path", u.exePath, "deferred", deferred)
	return result, nil
}
