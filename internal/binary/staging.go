package binary

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// StagingSuffix is appended to a destination path to form its staging path.
const StagingSuffix = ".part"

// StagingPath returns the staging file path for dest.
func StagingPath(dest string) string {
	return dest + StagingSuffix
}

// staging owns a staging file until it is committed. Close deletes the file
// unless Commit succeeded, so a deferred Close covers every early return.
type staging struct {
	path      string
	file      *os.File
	closed    bool
	committed bool
}

func createStaging(path string) (*staging, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("create staging file: %w", err)
	}
	return &staging{path: path, file: f}, nil
}

// flush makes the written bytes durable and closes the file.
func (s *staging) flush() error {
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("sync staging file: %w", err)
	}
	s.closed = true
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("close staging file: %w", err)
	}
	return nil
}

// Commit publishes the staging file at dest. Any existing file at dest is
// removed first; the rename is the commit point.
func (s *staging) Commit(dest string) error {
	if !s.closed {
		if err := s.flush(); err != nil {
			return err
		}
	}
	if err := removeIfExists(dest); err != nil {
		return fmt.Errorf("remove existing file: %w", err)
	}
	if err := os.Rename(s.path, dest); err != nil {
		return fmt.Errorf("rename staging file: %w", err)
	}
	s.committed = true
	return nil
}

// Close releases the file handle and deletes the staging file unless it
// was committed.
func (s *staging) Close() error {
	if !s.closed {
		s.closed = true
		s.file.Close()
	}
	if s.committed {
		return nil
	}
	return removeIfExists(s.path)
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
