package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/prodbyeagle/eagle/internal/checksum"
)

// githubRelease is the subset of GitHub's release document we read.
type githubRelease struct {
	TagName string        `json:"tag_name"`
	Assets  []githubAsset `json:"assets"`
}

type githubAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	// Digest is "sha256:<hex>" on recent releases and absent on older ones.
	Digest string `json:"digest"`
}

// ResolveRelease returns the asset named assetName (case-insensitive) from
// the latest release. Version carries the release tag. A missing digest
// leaves Artifact.Digest empty; a malformed one is an error.
func (r *Resolver) ResolveRelease(ctx context.Context, assetName string) (*Artifact, error) {
	var release githubRelease
	if err := r.client.GetJSON(ctx, r.endpoints.Release, &release); err != nil {
		return nil, fmt.Errorf("fetch latest release: %w", err)
	}

	for _, asset := range release.Assets {
		if !strings.EqualFold(asset.Name, assetName) {
			continue
		}

		artifact := &Artifact{
			Name:         asset.Name,
			Version:      release.TagName,
			Build:        release.TagName,
			URL:          asset.BrowserDownloadURL,
			DigestSource: DigestNone,
		}
		if asset.Digest != "" {
			d, err := checksum.Normalize(asset.Digest)
			if err != nil {
				return nil, fmt.Errorf("release %s asset %s: %w", release.TagName, asset.Name, err)
			}
			artifact.Digest = d
			artifact.DigestSource = DigestFromRelease
		}
		return artifact, nil
	}

	return nil, fmt.Errorf("%w: %s in release %s", ErrAssetNotFound, assetName, release.TagName)
}
