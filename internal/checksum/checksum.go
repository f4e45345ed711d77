// Package checksum normalizes and extracts SHA-256 digests.
//
// Digests reach us from three places: build metadata ("sha256" fields),
// release assets ("sha256:<hex>") and plaintext sidecar files
// ("<hex>  server.jar"). Everything is folded into a canonical
// digest.Digest so comparisons never depend on case or prefix.
package checksum

import (
	_ "crypto/sha256" // registers SHA-256 for go-digest
	"errors"
	"fmt"
	"strings"

	"github.com/opencontainers/go-digest"
)

// ErrInvalidDigest is returned when a string cannot be read as a SHA-256 digest.
var ErrInvalidDigest = errors.New("invalid sha256 digest")

const (
	prefix    = "sha256:"
	hexLength = 64
)

// Normalize turns a user or upstream supplied SHA-256 value into a canonical
// digest. Surrounding whitespace, letter case and an optional "sha256:"
// prefix are accepted.
func Normalize(value string) (digest.Digest, error) {
	s := strings.ToLower(strings.TrimSpace(value))
	s = strings.TrimPrefix(s, prefix)

	d := digest.NewDigestFromEncoded(digest.SHA256, s)
	if err := d.Validate(); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDigest, value)
	}
	return d, nil
}

// ParseToken scans text for the first whitespace-delimited token that is 64
// ASCII hex digits and returns it as a digest. This matches the
// "<hex>  <filename>" layout of sha256sum output as well as bare digests.
func ParseToken(text string) (digest.Digest, bool) {
	for _, token := range strings.Fields(text) {
		if len(token) != hexLength || !isHex(token) {
			continue
		}
		return digest.NewDigestFromEncoded(digest.SHA256, strings.ToLower(token)), true
	}
	return "", false
}

// Hex returns the bare hex part of d, or "" for an empty digest.
func Hex(d digest.Digest) string {
	if d == "" {
		return ""
	}
	return d.Encoded()
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
