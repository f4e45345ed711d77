package resolver

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/prodbyeagle/eagle/internal/checksum"
)

const (
	paperStableChannel = "STABLE"
	paperServerKey     = "server:default"
)

// paperBuild is one entry of the Paper build list.
type paperBuild struct {
	ID        uint64                   `json:"id"`
	Channel   string                   `json:"channel"`
	Downloads map[string]paperDownload `json:"downloads"`
}

type paperDownload struct {
	Name      string          `json:"name"`
	URL       string          `json:"url"`
	Checksums *paperChecksums `json:"checksums"`
}

type paperChecksums struct {
	SHA256 string `json:"sha256"`
}

// ResolvePaper picks the build to download for a concrete Paper version.
func (r *Resolver) ResolvePaper(ctx context.Context, version string) (*Artifact, error) {
	buildsURL, err := url.JoinPath(r.endpoints.PaperProject, "versions", version, "builds")
	if err != nil {
		return nil, fmt.Errorf("build paper builds url: %w", err)
	}

	var builds []paperBuild
	if err := r.client.GetJSON(ctx, buildsURL, &builds); err != nil {
		return nil, fmt.Errorf("fetch paper builds for %s: %w", version, err)
	}

	best, err := pickPaperBuild(builds)
	if err != nil {
		return nil, fmt.Errorf("paper %s: %w", version, err)
	}

	download, ok := best.Downloads[paperServerKey]
	if !ok || download.URL == "" {
		return nil, fmt.Errorf("paper %s build %d: missing %q download", version, best.ID, paperServerKey)
	}

	artifact := &Artifact{
		Name:    download.Name,
		Version: version,
		Build:   strconv.FormatUint(best.ID, 10),
		URL:     download.URL,
	}

	if download.Checksums != nil && download.Checksums.SHA256 != "" {
		d, err := checksum.Normalize(download.Checksums.SHA256)
		if err != nil {
			return nil, fmt.Errorf("paper %s build %d: %w", version, best.ID, err)
		}
		artifact.Digest = d
		artifact.DigestSource = DigestFromMetadata
	} else {
		artifact.Digest, artifact.DigestSource, err = r.discoverDigest(ctx, download.URL)
		if err != nil {
			return nil, err
		}
	}

	r.logger.Debug("resolved paper build",
		"version", version,
		"build", best.ID,
		"channel", best.Channel,
		"digest_source", artifact.DigestSource,
	)
	return artifact, nil
}

// pickPaperBuild returns the highest build ID on the stable channel, or the
// highest ID overall when no build is stable.
func pickPaperBuild(builds []paperBuild) (*paperBuild, error) {
	if len(builds) == 0 {
		return nil, ErrNoCandidates
	}

	var stable, newest *paperBuild
	for i := range builds {
		b := &builds[i]
		if newest == nil || b.ID > newest.ID {
			newest = b
		}
		if b.Channel == paperStableChannel && (stable == nil || b.ID > stable.ID) {
			stable = b
		}
	}

	if stable != nil {
		return stable, nil
	}
	return newest, nil
}
