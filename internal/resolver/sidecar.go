package resolver

import (
	"context"
	"fmt"

	"github.com/opencontainers/go-digest"

	"github.com/prodbyeagle/eagle/internal/checksum"
)

// SidecarSuffix is appended to an artifact URL to locate its digest file.
const SidecarSuffix = ".sha256"

// SidecarDigest fetches "<artifactURL>.sha256" and returns the first SHA-256
// token found in it. A missing, unreadable or token-less sidecar yields
// ErrNoDigest; only caller cancellation is reported as is.
func (r *Resolver) SidecarDigest(ctx context.Context, artifactURL string) (digest.Digest, error) {
	sidecarURL := artifactURL + SidecarSuffix

	text, err := r.client.GetText(ctx, sidecarURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %s: %v", ErrNoDigest, sidecarURL, err)
	}

	d, ok := checksum.ParseToken(text)
	if !ok {
		return "", fmt.Errorf("%w: %s holds no sha256 token", ErrNoDigest, sidecarURL)
	}
	return d, nil
}
