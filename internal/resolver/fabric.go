package resolver

import (
	"context"
	"fmt"
	"net/url"

	"github.com/prodbyeagle/eagle/internal/vercmp"
)

// loaderCombo is one loader/installer pairing returned by the Fabric meta API.
type loaderCombo struct {
	Loader    loaderPart `json:"loader"`
	Installer loaderPart `json:"installer"`
}

type loaderPart struct {
	Version string `json:"version"`
	// Stable is nil when upstream omits the flag, which counts as stable.
	Stable *bool `json:"stable"`
}

func (p loaderPart) stable() bool {
	return p.Stable == nil || *p.Stable
}

// ResolveFabric picks the loader and installer pairing for a game version
// and returns the server launcher jar.
func (r *Resolver) ResolveFabric(ctx context.Context, version string) (*Artifact, error) {
	combosURL, err := url.JoinPath(r.endpoints.FabricLoader, version)
	if err != nil {
		return nil, fmt.Errorf("build fabric loader url: %w", err)
	}

	var combos []loaderCombo
	if err := r.client.GetJSON(ctx, combosURL, &combos); err != nil {
		return nil, fmt.Errorf("fetch fabric loaders for %s: %w", version, err)
	}

	best, err := pickLoaderCombo(combos)
	if err != nil {
		return nil, fmt.Errorf("fabric %s: %w", version, err)
	}

	jarURL, err := url.JoinPath(r.endpoints.FabricLoader, version, best.Loader.Version, best.Installer.Version, "server", "jar")
	if err != nil {
		return nil, fmt.Errorf("build fabric jar url: %w", err)
	}

	artifact := &Artifact{
		Name:    fmt.Sprintf("fabric-server-mc.%s-loader.%s-launcher.%s.jar", version, best.Loader.Version, best.Installer.Version),
		Version: version,
		Build:   best.Loader.Version + "/" + best.Installer.Version,
		URL:     jarURL,
	}

	artifact.Digest, artifact.DigestSource, err = r.discoverDigest(ctx, jarURL)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("resolved fabric combo",
		"version", version,
		"loader", best.Loader.Version,
		"installer", best.Installer.Version,
		"digest_source", artifact.DigestSource,
	)
	return artifact, nil
}

// pickLoaderCombo ranks fully stable combos by loader version, then
// installer version. When none is fully stable the first combo as listed
// upstream wins, since the meta API returns newest first.
func pickLoaderCombo(combos []loaderCombo) (*loaderCombo, error) {
	if len(combos) == 0 {
		return nil, ErrNoCandidates
	}

	var best *loaderCombo
	for i := range combos {
		c := &combos[i]
		if !c.Loader.stable() || !c.Installer.stable() {
			continue
		}
		if best == nil || compareCombo(c, best) > 0 {
			best = c
		}
	}

	if best == nil {
		return &combos[0], nil
	}
	return best, nil
}

func compareCombo(a, b *loaderCombo) int {
	if c := vercmp.Compare(a.Loader.Version, b.Loader.Version); c != 0 {
		return c
	}
	return vercmp.Compare(a.Installer.Version, b.Installer.Version)
}
