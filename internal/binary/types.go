package binary

import (
	"context"
	"net/http"
	"time"

	"github.com/opencontainers/go-digest"
)

// Getter performs a GET request and returns the response only for HTTP 200.
// It is satisfied by *transport.Client.
type Getter interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// Progress renders download progress. total is negative when the server did
// not announce a size. Implementations must not fail the download.
type Progress interface {
	// Draw is called at most once per ProgressInterval while bytes arrive.
	Draw(done, total int64)
	// Done is called once when streaming ends, successfully or not.
	Done(done, total int64)
}

// ProgressFactory creates a renderer for one download.
type ProgressFactory func() Progress

type noopProgress struct{}

func (noopProgress) Draw(int64, int64) {}
func (noopProgress) Done(int64, int64) {}

// Result describes a published download.
type Result struct {
	Path string
	// Bytes is the number of bytes written.
	Bytes int64
	// Digest is the SHA-256 of the published file, computed while streaming.
	Digest digest.Digest
	// Verified is true when Digest was checked against an expected value.
	Verified bool
	Duration time.Duration
}
