package selfupdate

import (
	"context"
	"path/filepath"

	"github.com/prodbyeagle/eagle/internal/lock"
)

// UninstallResult reports what Uninstall did.
type UninstallResult struct {
	Path string
	// Deferred is true when removal waits for this process to exit.
	Deferred bool
}

// Uninstall removes the running binary. On Windows the removal is
// scheduled for after exit and "Set-Alias eagle" lines are dropped from the
// PowerShell profile. Local builds are refused unless force is set.
func (u *Updater) Uninstall(ctx context.Context, force bool) (*UninstallResult, error) {
	if !force && IsDevBuild(u.exePath, u.current) {
		return nil, ErrDevBuild
	}

	held, err := lock.Acquire(ctx, filepath.Join(filepath.Dir(u.exePath), LockFile))
	if err != nil {
		return nil, err
	}
	defer held.Release()

	deferred, err := u.publisher.remove(u.exePath)
	if err != nil {
		return nil, err
	}
	u.logger.Info("eagle uninstalled", "path", u.exePath, "deferred", deferred)
	return &UninstallResult{Path: u.exePath, Deferred: deferred}, nil
}
