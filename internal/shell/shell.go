// Package shell runs the external tools eagle drives, such as bun.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
)

// ErrBunNotFound is returned when bun is not on PATH.
var ErrBunNotFound = errors.New("bun not found in PATH (install it from https://bun.sh)")

// Runner runs an external command in dir.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// Exec runs commands with os/exec, streaming their output.
type Exec struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run implements Runner.
func (r Exec) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", filepath.Base(name), args, err)
	}
	return nil
}

// LookPath resolves an executable name. exec.LookPath satisfies it.
type LookPath func(file string) (string, error)

// Bun returns the path of the bun executable.
func Bun(lookPath LookPath) (string, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	bun, err := lookPath("bun")
	if err != nil {
		return "", ErrBunNotFound
	}
	return bun, nil
}
