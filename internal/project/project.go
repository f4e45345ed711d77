// Package project creates new projects from the meowlounge starter
// templates: a clone of the template repository with its git
// history removed and its dependencies bumped with bun.
package project

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
	"strings"
	"time"

	"github.com/prodbyeagle/eagle/internal/git"
	"github.com/prodbyeagle/eagle/internal/shell"
	"github.com/prodbyeagle/eagle/internal/ui"
)

var (
	ErrUnknownTemplate = errors.New("unknown template")
	ErrInvalidName     = errors.New("invalid project name")
	ErrExists          = errors.New("project already exists")
)

// Template is a starter repository and the folder its projects go in.
type Template struct {
	Name    string
	Folder  string
	RepoURL string
}

// Templates lists the available templates in menu order.
var Templates = []Template{
	{Name: "discord", Folder: "discord", RepoURL: "https://github.com/meowlounge/discord-template.git"},
	{Name: "next", Folder: "frontend", RepoURL: "https://github.com/meowlounge/next-template.git"},
	{Name: "typescript", Folder: "typescript", RepoURL: "https://github.com/meowlounge/typescript-template.git"},
}

// TemplateNames returns the template names in menu order.
func TemplateNames() []string {
	names := make([]string, len(Templates))
	for i, t := range Templates {
		names[i] = t.Name
	}
	return names
}

// LookupTemplate finds a template by name, ignoring case.
func LookupTemplate(name string) (Template, error) {
	for _, t := range Templates {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w %q (want one of %s)", ErrUnknownTemplate, name, strings.Join(TemplateNames(), ", "))
}

// DefaultRoot returns home/Development/.YY for the year of now.
func DefaultRoot(home string, now time.Time) string {
	return filepath.Join(home, "Development", fmt.Sprintf(".%02d", now.Year()%100))
}

// ValidateName rejects names that are empty or would escape the template
// folder.
func ValidateName(name string) error {
	n := strings.TrimSpace(name)
	switch {
	case n == "":
		return fmt.Errorf("%w: must not be empty", ErrInvalidName)
	case n == "." || n == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(n, `/\`):
		return fmt.Errorf("%w: %q must not contain path separators", ErrInvalidName, name)
	}
	return nil
}

// Cloner clones a repository into a fixed directory.
type Cloner interface {
	Clone(ctx context.Context, url string) error
}

// Creator creates projects under root.
type Creator struct {
	root     string
	cloner   func(dir string) Cloner
	runner   shell.Runner
	printer  *ui.Printer
	logger   *slog.Logger
	lookPath shell.LookPath
}

// Option configures a Creator.
type Option func(*Creator)

// WithPrinter sets where progress messages go.
func WithPrinter(p *ui.Printer) Option {
	return func(c *Creator) {
		if p != nil {
			c.printer = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Creator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRunner replaces the command runner.
func WithRunner(r shell.Runner) Option {
	return func(c *Creator) {
		if r != nil {
			c.runner = r
		}
	}
}

// WithCloner replaces the git client used for each new project directory.
func WithCloner(fn func(dir string) Cloner) Option {
	return func(c *Creator) {
		if fn != nil {
			c.cloner = fn
		}
	}
}

// New creates a Creator for projects under root.
func New(root string, opts ...Option) *Creator {
	c := &Creator{
		root:     root,
		runner:   shell.Exec{Stdout: os.Stdout, Stderr: os.Stderr},
		printer:  ui.NewPrinter(io.Discard, io.Discard),
		logger:   slog.New(slog.DiscardHandler),
		lookPath: exec.LookPath,
	}
	c.cloner = func(dir string) Cloner { return git.NewClient(dir) }
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path returns where a project named name from tmpl is created.
func (c *Creator) Path(tmpl Template, name string) string {
	return filepath.Join(c.root, tmpl.Folder, strings.TrimSpace(name))
}

// Create copies tmpl into a new project folder and updates its
// dependencies to their latest versions. It returns the project path.
func (c *Creator) Create(ctx context.Context, tmpl Template, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	dir := c.Path(tmpl, name)
	if _, err := os.Stat(dir); err == nil {
		return "", fmt.Errorf("%w: %s", ErrExists, dir)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("stat %s: %w", dir, err)
	}

	bun, err := shell.Bun(c.lookPath)
	if err != nil {
		return "", err
	}

	target := filepath.Dir(dir)
	c.printer.Muted("Target root: %s", target)
	if err := os.MkdirAll(target, 0755); err != nil {
		return "", fmt.Errorf("create %s: %w", target, err)
	}

	c.printer.Info("Cloning template: %s", tmpl.RepoURL)
	if err := c.cloner(dir).Clone(ctx, tmpl.RepoURL); err != nil {
		return "", err
	}
	if err := os.RemoveAll(filepath.Join(dir, ".git")); err != nil {
		return "", fmt.Errorf("remove template history: %w", err)
	}

	c.printer.Info("Updating dependencies with Bun...")
	c.logger.Debug("updating template dependencies", "dir", dir, "template", tmpl.Name)
	if err := c.runner.Run(ctx, dir, bun, "update", "--latest"); err != nil {
		return "", err
	}

	c.printer.Success("Project created: %s", dir)
	return dir, nil
}
