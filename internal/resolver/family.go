package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/prodbyeagle/eagle/internal/vercmp"
)

// familyIndex is the shape of the Paper project document. Only the
// family to versions mapping is used.
type familyIndex struct {
	Versions map[string][]string `json:"versions"`
}

// ResolveFamily returns token unchanged unless it names a version family
// such as "1.21", in which case the newest non-prerelease version of that
// family is looked up in the project index.
func (r *Resolver) ResolveFamily(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if !vercmp.IsFamily(token) {
		return token, nil
	}

	var index familyIndex
	if err := r.client.GetJSON(ctx, r.endpoints.PaperProject, &index); err != nil {
		return "", fmt.Errorf("fetch version index: %w", err)
	}

	versions, ok := index.Versions[token]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownFamily, token)
	}

	best, err := pickFamilyVersion(versions)
	if err != nil {
		return "", fmt.Errorf("family %s: %w", token, err)
	}

	r.logger.Debug("resolved version family", "family", token, "version", best, "candidates", len(versions))
	return best, nil
}

// pickFamilyVersion prefers the highest version without a prerelease
// marker and falls back to the first entry as listed upstream.
func pickFamilyVersion(versions []string) (string, error) {
	if len(versions) == 0 {
		return "", ErrNoCandidates
	}

	if best, ok := vercmp.Max(versions, func(v string) bool { return !vercmp.IsPrerelease(v) }); ok {
		return best, nil
	}
	return versions[0], nil
}
