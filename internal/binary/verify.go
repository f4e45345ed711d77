package binary

import (
	"errors"
	"fmt"

	"github.com/opencontainers/go-digest"

	"github.com/prodbyeagle/eagle/internal/checksum"
)

// ErrDigestMismatch is matched by every *MismatchError.
var ErrDigestMismatch = errors.New("sha256 mismatch")

// MismatchError reports downloaded content that does not hash to the
// expected digest. Nothing is published when it is returned.
type MismatchError struct {
	Path     string
	Expected digest.Digest
	Actual   digest.Digest
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("sha256 mismatch for %s:\nexpected: %s\nactual:   %s",
		e.Path, checksum.Hex(e.Expected), checksum.Hex(e.Actual))
}

func (e *MismatchError) Unwrap() error {
	return ErrDigestMismatch
}
