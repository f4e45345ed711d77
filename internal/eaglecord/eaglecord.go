// Package eaglecord installs or updates EagleCord, a Vencord fork, from a
// local clone of its repository.
package eaglecord

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/prodbyeagle/eagle/internal/git"
	"github.com/prodbyeagle/eagle/internal/lock"
	"github.com/prodbyeagle/eagle/internal/shell"
	"github.com/prodbyeagle/eagle/internal/ui"
)

var (
	ErrBunNotFound = shell.ErrBunNotFound
	ErrDirtyClone  = errors.New("clone has local changes")
	ErrNotAClone   = errors.New("folder exists but is not a git clone")
)

// Options controls a Run.
type Options struct {
	// Reinstall deletes the clone before starting.
	Reinstall bool
}

// Result reports what Run did.
type Result struct {
	Dir     string
	Cloned  bool
	Updated bool
	Head    string
}

// Installer syncs the clone at dir with repoURL and builds it.
type Installer struct {
	repoURL  string
	dir      string
	git      git.Git
	runner   shell.Runner
	printer  *ui.Printer
	logger   *slog.Logger
	lookPath shell.LookPath
}

// Option configures an Installer.
type Option func(*Installer)

// WithPrinter sets where progress messages go.
func WithPrinter(p *ui.Printer) Option {
	return func(i *Installer) {
		if p != nil {
			i.printer = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Installer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithRunner replaces the command runner.
func WithRunner(r shell.Runner) Option {
	return func(i *Installer) {
		if r != nil {
			i.runner = r
		}
	}
}

// WithGit replaces the git client for dir.
func WithGit(g git.Git) Option {
	return func(i *Installer) {
		if g != nil {
			i.git = g
		}
	}
}

// New creates an Installer for the clone at dir.
func New(repoURL, dir string, opts ...Option) *Installer {
	i := &Installer{
		repoURL:  repoURL,
		dir:      dir,
		runner:   shell.Exec{Stdout: os.Stdout, Stderr: os.Stderr},
		printer:  ui.NewPrinter(io.Discard, io.Discard),
		logger:   slog.New(slog.DiscardHandler),
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.git == nil {
		i.git = git.NewClient(dir)
	}
	return i
}

// Run clones or fast-forwards the repository, then installs dependencies,
// builds and injects with bun.
func (i *Installer) Run(ctx context.Context, opts Options) (*Result, error) {
	bun, err := shell.Bun(i.lookPath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(i.dir), 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", filepath.Dir(i.dir), err)
	}

	held, err := lock.Acquire(ctx, LockPath(i.dir))
	if err != nil {
		return nil, err
	}
	defer held.Release()

	exists, err := pathExists(i.dir)
	if err != nil {
		return nil, err
	}
	if opts.Reinstall && exists {
		i.printer.Warning("Reinstall: removing %s", i.dir)
		if err := os.RemoveAll(i.dir); err != nil {
			return nil, fmt.Errorf("remove clone: %w", err)
		}
		exists = false
	}

	result := &Result{Dir: i.dir}
	if exists {
		updated, err := i.update(ctx)
		if err != nil {
			return nil, err
		}
		result.Updated = updated
	} else {
		i.printer.Info("Cloning repo...")
		if err := i.git.Clone(ctx, i.repoURL); err != nil {
			return nil, err
		}
		result.Cloned = true
	}

	if result.Head, err = i.git.HeadCommit(ctx); err != nil {
		return nil, err
	}

	if err := i.build(ctx, bun); err != nil {
		return nil, err
	}

	i.printer.Success("EagleCord complete.")
	return result, nil
}

// LockPath returns the lock file guarding the clone at dir.
func LockPath(dir string) string {
	return dir + ".lock"
}

// update fast-forwards an existing clone when the remote HEAD moved.
func (i *Installer) update(ctx context.Context) (bool, error) {
	isRepo, err := i.git.IsGitRepo(ctx)
	if err != nil {
		return false, err
	}
	if !isRepo {
		return false, fmt.Errorf("%w: %s. Re-run with --reinstall to replace it", ErrNotAClone, i.dir)
	}

	clean, err := i.git.IsClean(ctx)
	if err != nil {
		return false, err
	}
	if !clean {
		return false, fmt.Errorf("%w at %s. Re-run with --reinstall to replace it", ErrDirtyClone, i.dir)
	}

	local, err := i.git.HeadCommit(ctx)
	if err != nil {
		return false, err
	}
	remote, err := i.git.RemoteHeadCommit(ctx)
	if err != nil {
		return false, err
	}
	if local == remote {
		i.printer.Muted("Repo is up-to-date (%s)", local)
		return false, nil
	}

	i.printer.Info("Updating repo...")
	i.logger.Debug("fast-forwarding clone", "dir", i.dir, "local", local, "remote", remote)
	return i.git.PullFastForward(ctx)
}

func (i *Installer) build(ctx context.Context, bun string) error {
	if err := os.RemoveAll(filepath.Join(i.dir, "dist")); err != nil {
		return fmt.Errorf("remove dist: %w", err)
	}

	discordTypes := filepath.Join(i.dir, "packages", "discord-types")
	if ok, _ := pathExists(discordTypes); ok {
		i.printer.Info("Linking @vencord/discord-types...")
		if err := i.runner.Run(ctx, discordTypes, bun, "link"); err != nil {
			return err
		}
	}

	steps := []struct {
		msg  string
		args []string
	}{
		{"Installing dependencies...", []string{"install"}},
		{"Building...", []string{"run", "build"}},
		{"Injecting...", []string{"inject"}},
	}
	for _, step := range steps {
		i.printer.Info("%s", step.msg)
		if err := i.runner.Run(ctx, i.dir, bun, step.args...); err != nil {
			return err
		}
	}
	return nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}
