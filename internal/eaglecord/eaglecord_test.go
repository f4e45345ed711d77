package eaglecord

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodbyeagle/eagle/internal/lock"
	"github.com/prodbyeagle/eagle/internal/ui"
)

type fakeGit struct {
	dir      string
	isRepo   bool
	clean    bool
	local    string
	remote   string
	pullErr  error
	cloned   string
	pulled   bool
	cloneErr error
}

func (g *fakeGit) Clone(ctx context.Context, url string) error {
	if g.cloneErr != nil {
		return g.cloneErr
	}
	g.cloned = url
	g.isRepo, g.clean = true, true
	return os.MkdirAll(g.dir, 0755)
}

func (g *fakeGit) IsGitRepo(ctx context.Context) (bool, error) { return g.isRepo, nil }
func (g *fakeGit) IsClean(ctx context.Context) (bool, error)   { return g.clean, nil }
func (g *fakeGit) HeadCommit(ctx context.Context) (string, error) {
	return g.local, nil
}
func (g *fakeGit) RemoteHeadCommit(ctx context.Context) (string, error) {
	return g.remote, nil
}

func (g *fakeGit) PullFastForward(ctx context.Context) (bool, error) {
	if g.pullErr != nil {
		return false, g.pullErr
	}
	g.pulled = true
	g.local = g.remote
	return true, nil
}

type call struct {
	dir  string
	args string
}

type fakeRunner struct {
	calls  []call
	failOn string
}

func (r *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	joined := strings.Join(args, " ")
	r.calls = append(r.calls, call{dir: dir, args: joined})
	if joined == r.failOn {
		return errors.New(name + " " + joined + ": exit status 1")
	}
	return nil
}

type harness struct {
	dir     string
	git     *fakeGit
	runner  *fakeRunner
	out     *bytes.Buffer
	install *Installer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "EagleCord", "Vencord")
	h := &harness{
		dir:    dir,
		git:    &fakeGit{dir: dir, local: "aaa", remote: "aaa"},
		runner: &fakeRunner{},
		out:    &bytes.Buffer{},
	}
	h.install = New("https://github.com/prodbyeagle/cord", dir,
		WithGit(h.git),
		WithRunner(h.runner),
		WithPrinter(ui.NewPrinter(h.out, h.out)),
	)
	h.install.lookPath = func(string) (string, error) { return "/usr/bin/bun", nil }
	return h
}

// existingClone makes the harness look like a previous run left a clone.
func (h *harness) existingClone(t *testing.T) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(h.dir, "dist"), 0755))
	h.git.isRepo, h.git.clean = true, true
}

func (h *harness) bunSteps() []string {
	var steps []string
	for _, c := range h.runner.calls {
		steps = append(steps, c.args)
	}
	return steps
}

func TestRun_FreshClone(t *testing.T) {
	h := newHarness(t)

	res, err := h.install.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.True(t, res.Cloned)
	assert.False(t, res.Updated)
	assert.Equal(t, "https://github.com/prodbyeagle/cord", h.git.cloned)
	assert.Equal(t, []string{"install", "run build", "inject"}, h.bunSteps())
	for _, c := range h.runner.calls {
		assert.Equal(t, h.dir, c.dir)
	}
	assert.Contains(t, h.out.String(), "Cloning repo...")
	assert.Contains(t, h.out.String(), "EagleCord complete.")
}

func TestRun_UpToDate(t *testing.T) {
	h := newHarness(t)
	h.existingClone(t)

	res, err := h.install.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.False(t, res.Cloned)
	assert.False(t, res.Updated)
	assert.False(t, h.git.pulled)
	assert.Contains(t, h.out.String(), "Repo is up-to-date (aaa)")
	assert.NoDirExists(t, filepath.Join(h.dir, "dist"))
}

func TestRun_FastForwards(t *testing.T) {
	h := newHarness(t)
	h.existingClone(t)
	h.git.remote = "bbb"

	res, err := h.install.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.True(t, res.Updated)
	assert.Equal(t, "bbb", res.Head)
	assert.Contains(t, h.out.String(), "Updating repo...")
}

func TestRun_DirtyClone(t *testing.T) {
	h := newHarness(t)
	h.existingClone(t)
	h.git.clean = false

	_, err := h.install.Run(context.Background(), Options{})
	require.ErrorIs(t, err, ErrDirtyClone)
	assert.Contains(t, err.Error(), "--reinstall")
	assert.Empty(t, h.runner.calls)
}

func TestRun_NotAClone(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.MkdirAll(h.dir, 0755))

	_, err := h.install.Run(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrNotAClone)
}

func TestRun_Reinstall(t *testing.T) {
	h := newHarness(t)
	h.existingClone(t)
	h.git.clean = false
	marker := filepath.Join(h.dir, "local-change.txt")
	require.NoError(t, os.WriteFile(marker, []byte("x"), 0644))

	res, err := h.install.Run(context.Background(), Options{Reinstall: true})
	require.NoError(t, err)

	assert.True(t, res.Cloned)
	assert.NoFileExists(t, marker)
	assert.Contains(t, h.out.String(), "Reinstall: removing")
}

func TestRun_LinksDiscordTypes(t *testing.T) {
	h := newHarness(t)
	h.existingClone(t)
	types := filepath.Join(h.dir, "packages", "discord-types")
	require.NoError(t, os.MkdirAll(types, 0755))

	_, err := h.install.Run(context.Background(), Options{})
	require.NoError(t, err)

	require.NotEmpty(t, h.runner.calls)
	assert.Equal(t, call{dir: types, args: "link"}, h.runner.calls[0])
	assert.Equal(t, []string{"link", "install", "run build", "inject"}, h.bunSteps())
}

func TestRun_StepFailureStops(t *testing.T) {
	h := newHarness(t)
	h.runner.failOn = "run build"

	_, err := h.install.Run(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run build")
	assert.Equal(t, []string{"install", "run build"}, h.bunSteps())
}

func TestRun_PullFailure(t *testing.T) {
	h := newHarness(t)
	h.existingClone(t)
	h.git.remote = "bbb"
	h.git.pullErr = errors.New("diverged")

	_, err := h.install.Run(context.Background(), Options{})
	require.EqualError(t, err, "diverged")
	assert.Empty(t, h.runner.calls)
}

func TestRun_BunMissing(t *testing.T) {
	h := newHarness(t)
	h.install.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	_, err := h.install.Run(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrBunNotFound)
	assert.Empty(t, h.git.cloned)
}

func TestRun_ConcurrentRunRefused(t *testing.T) {
	h := newHarness(t)
	held, err := lock.Acquire(context.Background(), LockPath(h.dir))
	require.NoError(t, err)
	defer held.Release()

	_, err = h.install.Run(context.Background(), Options{})
	assert.ErrorIs(t, err, lock.ErrLocked)
	assert.Empty(t, h.git.cloned)
}

func TestRun_ReleasesLock(t *testing.T) {
	h := newHarness(t)

	_, err := h.install.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.NoFileExists(t, LockPath(h.dir))
}
