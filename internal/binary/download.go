package binary

import (
	"context"
	_ "crypto/sha256" // registers SHA-256 for go-digest
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/opencontainers/go-digest"

	"github.com/prodbyeagle/eagle/internal/checksum"
)

const (
	// ChunkSize is the read buffer size used while streaming a body.
	ChunkSize = 64 * 1024
	// ProgressInterval is the minimum delay between two progress redraws.
	ProgressInterval = 120 * time.Millisecond
)

// Downloader streams artifacts to disk through a Getter.
type Downloader struct {
	client      Getter
	newProgress ProgressFactory
	logger      *slog.Logger
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithProgress sets the progress renderer factory.
func WithProgress(factory ProgressFactory) Option {
	return func(d *Downloader) {
		if factory != nil {
			d.newProgress = factory
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Downloader) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDownloader creates a new downloader
func NewDownloader(client Getter, opts ...Option) *Downloader {
	d := &Downloader{
		client:      client,
		newProgress: func() Progress { return noopProgress{} },
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download fetches url into dest. When expected is non-empty the streamed
// content must hash to it or nothing is published. An existing file at dest
// is replaced only after the new content has been verified.
func (d *Downloader) Download(ctx context.Context, url, dest string, expected digest.Digest) (*Result, error) {
	start := time.Now()

	if expected != "" {
		normalized, err := checksum.Normalize(expected.String())
		if err != nil {
			return nil, err
		}
		expected = normalized
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return nil, fmt.Errorf("create dest dir: %w", err)
	}

	stagePath := StagingPath(dest)
	if err := removeIfExists(stagePath); err != nil {
		return nil, fmt.Errorf("remove stale staging file: %w", err)
	}

	resp, err := d.client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	stage, err := createStaging(stagePath)
	if err != nil {
		return nil, err
	}
	defer stage.Close()

	digester := digest.SHA256.Digester()
	written, err := d.stream(resp.Body, io.MultiWriter(stage.file, digester.Hash()), resp.ContentLength)
	if err != nil {
		return nil, err
	}

	if err := stage.flush(); err != nil {
		return nil, err
	}

	actual := digester.Digest()
	if expected != "" && actual != expected {
		return nil, &MismatchError{Path: dest, Expected: expected, Actual: actual}
	}
	if expected == "" {
		d.logger.Debug("digest verification skipped", "url", url, "sha256", checksum.Hex(actual))
	}

	if err := stage.Commit(dest); err != nil {
		return nil, err
	}

	result := &Result{
		Path:     dest,
		Bytes:    written,
		Digest:   actual,
		Verified: expected != "",
		Duration: time.Since(start),
	}
	d.logger.Debug("download complete",
		"url", url,
		"path", dest,
		"bytes", written,
		"verified", result.Verified,
		"duration", result.Duration,
	)
	return result, nil
}

// stream copies body to w in ChunkSize pieces, redrawing progress on a
// timer rather than on every chunk.
func (d *Downloader) stream(body io.Reader, w io.Writer, total int64) (int64, error) {
	progress := d.newProgress()
	buf := make([]byte, ChunkSize)

	var written int64
	var lastDraw time.Time
	defer func() { progress.Done(written, total) }()

	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return written, fmt.Errorf("write staging file: %w", err)
			}
			written += int64(n)

			if time.Since(lastDraw) >= ProgressInterval {
				progress.Draw(written, total)
				lastDraw = time.Now()
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return written, fmt.Errorf("read response body: %w", readErr)
		}
	}
	return written, nil
}
