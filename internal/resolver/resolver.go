// Package resolver turns user supplied version tokens into concrete,
// downloadable artifacts by querying upstream metadata services.
//
// Each upstream exposes its own JSON shape and is handled by its own file:
// the Paper project index and build list, the Fabric loader meta API, and
// GitHub's latest-release endpoint. All of them share the dotted-numeric
// ordering from the vercmp package.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/opencontainers/go-digest"
)

var (
	// ErrUnknownFamily is returned when the family index has no entry for a token.
	ErrUnknownFamily = errors.New("unknown version family")
	// ErrNoCandidates is returned when upstream lists no versions, builds or combos.
	ErrNoCandidates = errors.New("no candidates found")
	// ErrNoDigest is returned when no SHA-256 digest could be discovered.
	ErrNoDigest = errors.New("no digest available")
	// ErrUnknownFlavor is returned for a server flavor other than paper or fabric.
	ErrUnknownFlavor = errors.New("unknown server flavor")
	// ErrAssetNotFound is returned when a release lacks the requested asset.
	ErrAssetNotFound = errors.New("release asset not found")
)

// Default upstream endpoints.
const (
	DefaultPaperProject = "https://fill.papermc.io/v3/projects/paper"
	DefaultFabricLoader = "https://meta.fabricmc.net/v2/versions/loader"
	DefaultRelease      = "https://api.github.com/repos/prodbyeagle/eaglePowerShell/releases/latest"
)

// Getter is the subset of the transport client the resolver needs.
type Getter interface {
	GetJSON(ctx context.Context, url string, v any) error
	GetText(ctx context.Context, url string) (string, error)
}

// Endpoints holds the base URLs of the metadata services.
type Endpoints struct {
	PaperProject string
	FabricLoader string
	Release      string
}

// DefaultEndpoints returns the public upstream endpoints.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		PaperProject: DefaultPaperProject,
		FabricLoader: DefaultFabricLoader,
		Release:      DefaultRelease,
	}
}

// withDefaults fills empty fields from DefaultEndpoints.
func (e Endpoints) withDefaults() Endpoints {
	d := DefaultEndpoints()
	if e.PaperProject == "" {
		e.PaperProject = d.PaperProject
	}
	if e.FabricLoader == "" {
		e.FabricLoader = d.FabricLoader
	}
	if e.Release == "" {
		e.Release = d.Release
	}
	e.PaperProject = strings.TrimRight(e.PaperProject, "/")
	e.FabricLoader = strings.TrimRight(e.FabricLoader, "/")
	return e
}

// Flavor is a Minecraft server distribution.
type Flavor string

const (
	FlavorPaper  Flavor = "paper"
	FlavorFabric Flavor = "fabric"
)

// Flavors lists the supported server flavors.
var Flavors = []Flavor{FlavorPaper, FlavorFabric}

// ParseFlavor parses a flavor name case-insensitively.
func ParseFlavor(s string) (Flavor, error) {
	switch f := Flavor(strings.ToLower(strings.TrimSpace(s))); f {
	case FlavorPaper, FlavorFabric:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (expected paper or fabric)", ErrUnknownFlavor, s)
	}
}

// DigestSource records where an artifact digest came from.
type DigestSource string

const (
	DigestFromMetadata DigestSource = "metadata"
	DigestFromSidecar  DigestSource = "sidecar"
	DigestFromRelease  DigestSource = "release"
	DigestExplicit     DigestSource = "explicit"
	DigestNone         DigestSource = "none"
)

// Artifact is a concrete downloadable file.
type Artifact struct {
	// Name is the upstream file name.
	Name string `json:"name"`
	// Version is the concrete version the artifact belongs to.
	Version string `json:"version"`
	// Build identifies the build within the version: a Paper build ID, a
	// Fabric "loader/installer" pair or a release tag.
	Build        string        `json:"build,omitempty"`
	URL          string        `json:"url"`
	Digest       digest.Digest `json:"digest,omitempty"`
	DigestSource DigestSource  `json:"digestSource"`
}

// Verified reports whether the artifact carries a digest to check against.
func (a *Artifact) Verified() bool {
	return a.Digest != ""
}

// Resolver queries metadata services. It holds no mutable state.
type Resolver struct {
	client      Getter
	endpoints   Endpoints
	logger      *slog.Logger
	noDiscovery bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for resolution decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithoutDigestDiscovery disables sidecar probes. Use it when the caller
// already holds the expected digest.
func WithoutDigestDiscovery() Option {
	return func(r *Resolver) {
		r.noDiscovery = true
	}
}

// New creates a Resolver. Empty endpoint fields take their defaults.
func New(client Getter, endpoints Endpoints, opts ...Option) *Resolver {
	r := &Resolver{
		client:    client,
		endpoints: endpoints.withDefaults(),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Endpoints returns the effective endpoints.
func (r *Resolver) Endpoints() Endpoints {
	return r.endpoints
}

// Resolve turns a version token into an artifact for the given flavor.
// Paper tokens naming a family ("1.21") are resolved to the newest release
// of that family first; Fabric tokens are used as given.
func (r *Resolver) Resolve(ctx context.Context, flavor Flavor, token string) (*Artifact, error) {
	switch flavor {
	case FlavorPaper:
		version, err := r.ResolveFamily(ctx, token)
		if err != nil {
			return nil, err
		}
		return r.ResolvePaper(ctx, version)
	case FlavorFabric:
		return r.ResolveFabric(ctx, strings.TrimSpace(token))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFlavor, flavor)
	}
}

// ResolveVersion applies only the version step of Resolve.
func (r *Resolver) ResolveVersion(ctx context.Context, flavor Flavor, token string) (string, error) {
	switch flavor {
	case FlavorPaper:
		return r.ResolveFamily(ctx, token)
	case FlavorFabric:
		return strings.TrimSpace(token), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFlavor, flavor)
	}
}

// discoverDigest probes the sidecar of artifactURL and downgrades a missing
// digest to an empty one. Other failures are returned.
func (r *Resolver) discoverDigest(ctx context.Context, artifactURL string) (digest.Digest, DigestSource, error) {
	if r.noDiscovery {
		return "", DigestNone, nil
	}
	d, err := r.SidecarDigest(ctx, artifactURL)
	switch {
	case err == nil:
		return d, DigestFromSidecar, nil
	case errors.Is(err, ErrNoDigest):
		r.logger.Debug("no digest discovered", "url", artifactURL, "reason", err)
		return "", DigestNone, nil
	default:
		return "", DigestNone, err
	}
}
