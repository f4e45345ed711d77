package binary

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/opencontainers/go-digest"

	"github.com/prodbyeagle/eagle/internal/transport"
)

func sha256Of(content string) digest.Digest {
	sum := sha256.Sum256([]byte(content))
	return digest.NewDigestFromEncoded(digest.SHA256, hex.EncodeToString(sum[:]))
}

func newTestDownloader(opts ...Option) *Downloader {
	client := transport.New(
		transport.WithBaseTransport(http.DefaultTransport),
		transport.WithBackoff(time.Millisecond),
	)
	return NewDownloader(client, opts...)
}

func serveContent(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		if _, err := w.Write([]byte(body)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func assertNoFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected %s to be absent, stat err = %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(content)
}

func TestDownload(t *testing.T) {
	const body = "test server jar content"
	server := serveContent(t, body)

	tests := []struct {
		name         string
		expected     digest.Digest
		wantVerified bool
	}{
		{
			name:         "verified",
			expected:     sha256Of(body),
			wantVerified: true,
		},
		{
			name:         "verified_uppercase_digest",
			expected:     digest.Digest(strings.ToUpper(sha256Of(body).String())),
			wantVerified: true,
		},
		{
			name:         "unverified",
			expected:     "",
			wantVerified: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "nested", "dir", "server.jar")

			res, err := newTestDownloader().Download(context.Background(), server.URL, dest, tt.expected)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := readFile(t, dest); got != body {
				t.Errorf("content mismatch:\ngot:  %q\nwant: %q", got, body)
			}
			if res.Verified != tt.wantVerified {
				t.Errorf("Verified = %v, want %v", res.Verified, tt.wantVerified)
			}
			if res.Bytes != int64(len(body)) {
				t.Errorf("Bytes = %d, want %d", res.Bytes, len(body))
			}
			if res.Digest != sha256Of(body) {
				t.Errorf("Digest = %s, want %s", res.Digest, sha256Of(body))
			}
			if res.Path != dest {
				t.Errorf("Path = %s, want %s", res.Path, dest)
			}
			assertNoFile(t, StagingPath(dest))
		})
	}
}

func TestDownload_MismatchPublishesNothing(t *testing.T) {
	server := serveContent(t, "tampered content")
	dest := filepath.Join(t.TempDir(), "server.jar")

	_, err := newTestDownloader().Download(context.Background(), server.URL, dest, sha256Of("original content"))
	if err == nil {
		t.Fatal("expected digest mismatch error")
	}
	if !errors.Is(err, ErrDigestMismatch) {
		t.Errorf("expected ErrDigestMismatch, got %v", err)
	}

	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *MismatchError, got %T", err)
	}
	if mismatch.Expected != sha256Of("original content") {
		t.Errorf("Expected = %s", mismatch.Expected)
	}
	if mismatch.Actual != sha256Of("tampered content") {
		t.Errorf("Actual = %s", mismatch.Actual)
	}

	assertNoFile(t, dest)
	assertNoFile(t, StagingPath(dest))
}

func TestDownload_MismatchKeepsPreviousFile(t *testing.T) {
	server := serveContent(t, "tampered content")
	dest := filepath.Join(t.TempDir(), "server.jar")
	if err := os.WriteFile(dest, []byte("previous jar"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := newTestDownloader().Download(context.Background(), server.URL, dest, sha256Of("original content"))
	if !errors.Is(err, ErrDigestMismatch) {
		t.Fatalf("expected ErrDigestMismatch, got %v", err)
	}

	if got := readFile(t, dest); got != "previous jar" {
		t.Errorf("destination changed to %q", got)
	}
	assertNoFile(t, StagingPath(dest))
}

func TestDownload_ReplacesExistingFile(t *testing.T) {
	const body = "new jar"
	server := serveContent(t, body)
	dest := filepath.Join(t.TempDir(), "server.jar")
	if err := os.WriteFile(dest, []byte("an older and longer jar file"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := newTestDownloader().Download(context.Background(), server.URL, dest, sha256Of(body)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := readFile(t, dest); got != body {
		t.Errorf("content = %q, want %q", got, body)
	}
}

func TestDownload_RemovesStaleStagingFile(t *testing.T) {
	const body = "fresh"
	dest := filepath.Join(t.TempDir(), "server.jar")
	if err := os.WriteFile(StagingPath(dest), []byte("leftover from a crashed run"), 0644); err != nil {
		t.Fatal(err)
	}

	var sawStale atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := os.Stat(StagingPath(dest))
		sawStale.Store(err == nil)
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	if _, err := newTestDownloader().Download(context.Background(), server.URL, dest, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sawStale.Load() {
		t.Error("stale staging file still present when the request was made")
	}
	if got := readFile(t, dest); got != body {
		t.Errorf("content = %q, want %q", got, body)
	}
	assertNoFile(t, StagingPath(dest))
}

func TestDownload_HTTPErrors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"404_not_found", http.StatusNotFound},
		{"401_unauthorized", http.StatusUnauthorized},
		{"503_unavailable", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			dest := filepath.Join(t.TempDir(), "server.jar")
			_, err := newTestDownloader().Download(context.Background(), server.URL, dest, "")
			if err == nil {
				t.Fatal("expected error but got none")
			}

			var statusErr *transport.StatusError
			if !errors.As(err, &statusErr) || statusErr.StatusCode != tt.statusCode {
				t.Errorf("expected StatusError %d, got %v", tt.statusCode, err)
			}
			assertNoFile(t, dest)
			assertNoFile(t, StagingPath(dest))
		})
	}
}

func TestDownload_TruncatedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		_, _ = w.Write([]byte("only a few bytes"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "server.jar")
	_, err := newTestDownloader().Download(context.Background(), server.URL, dest, "")
	if err == nil {
		t.Fatal("expected error for truncated body")
	}
	assertNoFile(t, dest)
	assertNoFile(t, StagingPath(dest))
}

func TestDownload_InvalidExpectedDigest(t *testing.T) {
	var requested atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested.Store(true)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "server.jar")
	_, err := newTestDownloader().Download(context.Background(), server.URL, dest, digest.Digest("sha256:abc"))
	if err == nil {
		t.Fatal("expected error for malformed digest")
	}
	if requested.Load() {
		t.Error("request made despite malformed digest")
	}
}

type recordingProgress struct {
	draws     int
	doneCalls int
	done      int64
	total     int64
}

func (p *recordingProgress) Draw(done, total int64) { p.draws++ }

func (p *recordingProgress) Done(done, total int64) {
	p.doneCalls++
	p.done, p.total = done, total
}

func TestDownload_ReportsProgress(t *testing.T) {
	body := strings.Repeat("x", 3*ChunkSize+17)
	server := serveContent(t, body)

	progress := &recordingProgress{}
	dl := newTestDownloader(WithProgress(func() Progress { return progress }))

	dest := filepath.Join(t.TempDir(), "server.jar")
	if _, err := dl.Download(context.Background(), server.URL, dest, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if progress.doneCalls != 1 {
		t.Errorf("Done called %d times, want 1", progress.doneCalls)
	}
	if progress.done != int64(len(body)) || progress.total != int64(len(body)) {
		t.Errorf("Done(%d, %d), want (%d, %d)", progress.done, progress.total, len(body), len(body))
	}
	// Local reads finish well within one interval, so only the first chunk draws.
	if progress.draws < 1 || progress.draws > 4 {
		t.Errorf("Draw called %d times", progress.draws)
	}
}
