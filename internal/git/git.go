// Package git wraps the go-git operations eagle needs to keep a local clone
// in step with its remote.
package git

import (
	"context"
	"errors"
	"fmt"
	"io"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// RemoteName is the remote every clone tracks.
const RemoteName = "origin"

// Common Git errors
var (
	ErrNotAGitRepo    = errors.New("not a git repository")
	ErrNonFastForward = errors.New("local branch has diverged from remote; cannot fast-forward")
	ErrNoRemoteHead   = errors.New("remote does not advertise HEAD")
)

// Git is the interface for Git operations on one working tree.
type Git interface {
	Clone(ctx context.Context, url string) error
	IsGitRepo(ctx context.Context) (bool, error)
	IsClean(ctx context.Context) (bool, error)
	HeadCommit(ctx context.Context) (string, error)
	RemoteHeadCommit(ctx context.Context) (string, error)
	PullFastForward(ctx context.Context) (bool, error)
}

// Client implements the Git interface.
type Client struct {
	repoPath string
	progress io.Writer
}

// Option configures a Client.
type Option func(*Client)

// WithProgress streams remote progress messages to w.
func WithProgress(w io.Writer) Option {
	return func(c *Client) {
		c.progress = w
	}
}

// NewClient creates a new Git client for the given working tree path.
func NewClient(repoPath string, opts ...Option) *Client {
	c := &Client{repoPath: repoPath}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path returns the working tree path.
func (c *Client) Path() string {
	return c.repoPath
}

// Clone clones url into the client's path, which must not already hold a
// repository.
func (c *Client) Clone(ctx context.Context, url string) error {
	_, err := gogit.PlainCloneContext(ctx, c.repoPath, false, &gogit.CloneOptions{
		URL:        url,
		RemoteName: RemoteName,
		Progress:   c.progress,
	})
	if err != nil {
		return fmt.Errorf("clone %s: %w", url, err)
	}
	return nil
}

// IsGitRepo checks if the path is a valid git repository.
// Returns (true, nil) if valid, (false, nil) if not exists, (false, err) if corrupted.
func (c *Client) IsGitRepo(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context cancelled: %w", err)
	}

	_, err := gogit.PlainOpen(c.repoPath)
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrNotAGitRepo, err.Error())
	}
	return true, nil
}

// IsClean reports whether the working tree has no staged, modified or
// untracked files.
func (c *Client) IsClean(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context cancelled: %w", err)
	}

	repo, err := c.open()
	if err != nil {
		return false, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("get worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("worktree status: %w", err)
	}
	return status.IsClean(), nil
}

// HeadCommit returns the commit hash of HEAD.
func (c *Client) HeadCommit(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled: %w", err)
	}

	repo, err := c.open()
	if err != nil {
		return "", err
	}

	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("get HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}

// RemoteHeadCommit lists the remote's references and returns the commit
// its HEAD points to.
func (c *Client) RemoteHeadCommit(ctx context.Context) (string, error) {
	repo, err := c.open()
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote(RemoteName)
	if err != nil {
		return "", fmt.Errorf("get remote %s: %w", RemoteName, err)
	}

	refs, err := remote.ListContext(ctx, &gogit.ListOptions{})
	if err != nil {
		return "", fmt.Errorf("list remote %s: %w", RemoteName, err)
	}

	hash, err := resolveHead(refs)
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

// resolveHead finds HEAD in an advertised reference list, following one
// level of symbolic reference.
func resolveHead(refs []*plumbing.Reference) (plumbing.Hash, error) {
	byName := make(map[plumbing.ReferenceName]*plumbing.Reference, len(refs))
	for _, ref := range refs {
		byName[ref.Name()] = ref
	}

	head, ok := byName[plumbing.HEAD]
	if !ok {
		return plumbing.ZeroHash, ErrNoRemoteHead
	}
	if head.Type() == plumbing.HashReference {
		return head.Hash(), nil
	}

	target, ok := byName[head.Target()]
	if !ok || target.Type() != plumbing.HashReference {
		return plumbing.ZeroHash, fmt.Errorf("%w: %s is not advertised", ErrNoRemoteHead, head.Target())
	}
	return target.Hash(), nil
}

// PullFastForward fetches from origin and fast-forwards the current branch.
// It returns false when the branch was already up to date.
func (c *Client) PullFastForward(ctx context.Context) (bool, error) {
	repo, err := c.open()
	if err != nil {
		return false, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("get worktree: %w", err)
	}

	err = worktree.PullContext(ctx, &gogit.PullOptions{
		RemoteName: RemoteName,
		Progress:   c.progress,
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gogit.NoErrAlreadyUpToDate):
		return false, nil
	case errors.Is(err, gogit.ErrNonFastForwardUpdate):
		return false, ErrNonFastForward
	default:
		return false, fmt.Errorf("pull %s: %w", RemoteName, err)
	}
}

func (c *Client) open() (*gogit.Repository, error) {
	repo, err := gogit.PlainOpen(c.repoPath)
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrNotAGitRepo, c.repoPath)
	}
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return repo, nil
}
