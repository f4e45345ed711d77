package minecraft

import (
	"context"
	"fmt"

	"github.com/opencontainers/go-digest"

	"github.com/prodbyeagle/eagle/internal/binary"
	"github.com/prodbyeagle/eagle/internal/checksum"
	"github.com/prodbyeagle/eagle/internal/resolver"
)

// FetchOptions describes a standalone jar download.
type FetchOptions struct {
	Flavor  resolver.Flavor
	Version string
	Dest    string
	// Expected, when set, replaces whatever digest resolution found.
	Expected      digest.Digest
	RequireDigest bool
}

// FetchResult pairs the resolved artifact with the download outcome.
type FetchResult struct {
	Artifact *resolver.Artifact
	Download *binary.Result
}

// Fetch resolves a server jar and downloads it to opts.Dest. It is the
// resolve and verified download path of Create without the server folder.
func (m *Manager) Fetch(ctx context.Context, opts FetchOptions) (*FetchResult, error) {
	var expected digest.Digest
	if opts.Expected != "" {
		d, err := checksum.Normalize(opts.Expected.String())
		if err != nil {
			return nil, err
		}
		expected = d
	}

	art, err := m.resolver.Resolve(ctx, opts.Flavor, opts.Version)
	if err != nil {
		return nil, fmt.Errorf("resolve %s %s: %w", opts.Flavor, opts.Version, err)
	}
	if expected != "" {
		art.Digest = expected
		art.DigestSource = resolver.DigestExplicit
	}

	res, err := m.fetchArtifact(ctx, art, opts.Dest, opts.RequireDigest)
	if err != nil {
		return nil, err
	}
	return &FetchResult{Artifact: art, Download: res}, nil
}
