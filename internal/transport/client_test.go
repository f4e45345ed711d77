package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceServer answers with the given statuses in order and then keeps
// repeating the last one. A 200 carries body.
func sequenceServer(t *testing.T, body string, statuses ...int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(hits.Add(1)) - 1
		if n >= len(statuses) {
			n = len(statuses) - 1
		}
		w.WriteHeader(statuses[n])
		if statuses[n] == http.StatusOK {
			_, _ = w.Write([]byte(body))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestClient(opts ...Option) *Client {
	base := append([]Option{
		WithBaseTransport(http.DefaultTransport),
		WithBackoff(time.Millisecond),
	}, opts...)
	return New(base...)
}

func TestGet_RetriesTransientStatus(t *testing.T) {
	srv, hits := sequenceServer(t, "ok", 503, 503, 200)

	text, err := newTestClient().GetText(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, int32(3), hits.Load())
}

func TestGet_FourthAttemptWithRaisedLimit(t *testing.T) {
	srv, hits := sequenceServer(t, "ok", 503, 503, 503, 200)

	text, err := newTestClient(WithMaxAttempts(4)).GetText(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, int32(4), hits.Load())
}

func TestGet_GivesUpAfterMaxAttempts(t *testing.T) {
	srv, hits := sequenceServer(t, "ok", 503, 503, 503, 200)

	_, err := newTestClient().Get(context.Background(), srv.URL)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, DefaultMaxAttempts, statusErr.Attempts)
	assert.Equal(t, int32(DefaultMaxAttempts), hits.Load())
}

func TestGet_NotFoundIsNotRetried(t *testing.T) {
	srv, hits := sequenceServer(t, "", 404)

	_, err := newTestClient().Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, int32(1), hits.Load())
	assert.Contains(t, err.Error(), "404")
}

func TestGet_RetriesTooManyRequests(t *testing.T) {
	srv, hits := sequenceServer(t, "ok", 429, 200)

	_, err := newTestClient().GetText(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestGet_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = newTestClient().Get(context.Background(), "http://"+addr+"/")
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, DefaultMaxAttempts, reqErr.Attempts)
	assert.True(t, IsRetryableError(reqErr.Err))
}

func TestGet_CancelledContext(t *testing.T) {
	srv, hits := sequenceServer(t, "ok", 200)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient().Get(ctx, srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), hits.Load())
}

func TestGet_SendsUserAgent(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("User-Agent"))
	}))
	defer srv.Close()

	_, err := newTestClient(WithUserAgent("eagle/1.2.3 (linux/amd64)")).GetText(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "eagle/1.2.3 (linux/amd64)", got.Load())
}

func TestGet_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusFound)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("moved"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	text, err := newTestClient().GetText(context.Background(), srv.URL+"/old")
	require.NoError(t, err)
	assert.Equal(t, "moved", text)
}

func TestGet_LogsEachRetry(t *testing.T) {
	srv, _ := sequenceServer(t, "ok", 500, 502, 200)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	_, err := newTestClient(WithLogger(logger)).GetText(context.Background(), srv.URL)
	require.NoError(t, err)

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "request failed, retrying"))
	assert.Contains(t, out, "attempt=1/3")
	assert.Contains(t, out, "attempt=2/3")
	assert.Contains(t, out, "500 Internal Server Error")
}

func TestGetJSON(t *testing.T) {
	srv, _ := sequenceServer(t, `{"versions":["1.21.10","1.21.9"]}`, 200)

	var doc struct {
		Versions []string `json:"versions"`
	}
	require.NoError(t, newTestClient().GetJSON(context.Background(), srv.URL, &doc))
	assert.Equal(t, []string{"1.21.10", "1.21.9"}, doc.Versions)
}

func TestGetJSON_Malformed(t *testing.T) {
	srv, _ := sequenceServer(t, `{"versions":`, 200)

	var doc map[string]any
	err := newTestClient().GetJSON(context.Background(), srv.URL, &doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestGetText_InvalidUTF8(t *testing.T) {
	srv, _ := sequenceServer(t, "\xff\xfe", 200)

	_, err := newTestClient().GetText(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UTF-8")
}

func TestNew_SharesBaseTransport(t *testing.T) {
	a := New()
	b := New(WithUserAgent("other"))
	assert.Same(t, a.base, b.base)
}

func TestIsRetryableError(t *testing.T) {
	assert.False(t, IsRetryableError(nil))
	assert.False(t, IsRetryableError(context.Canceled))
	assert.False(t, IsRetryableError(errors.New("boom")))
	assert.True(t, IsRetryableError(&TimeoutError{Phase: "test", After: time.Second}))
	assert.True(t, IsRetryableError(&net.DNSError{Err: "no such host", Name: "example.invalid"}))
	assert.True(t, IsRetryableError(&net.OpError{Op: "dial", Err: errors.New("refused")}))
	assert.True(t, IsRetryableError(&net.OpError{Op: "read", Err: errors.New("reset")}))
	assert.False(t, IsRetryableError(&net.OpError{Op: "remote error", Err: errors.New("tls: protocol version not supported")}))
	assert.False(t, IsRetryableError(fmt.Errorf("handshake: %w", tls.AlertError(70))))
}

func TestGet_TLSAlertIsNotRetried(t *testing.T) {
	var conns atomic.Int32
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	srv.TLS = &tls.Config{MinVersion: tls.VersionTLS13}
	srv.Config.ConnState = func(_ net.Conn, state http.ConnState) {
		if state == http.StateNew {
			conns.Add(1)
		}
	}
	srv.StartTLS()
	t.Cleanup(srv.Close)

	base := &http.Transport{TLSClientConfig: &tls.Config{
		InsecureSkipVerify: true,
		MaxVersion:         tls.VersionTLS12,
	}}
	t.Cleanup(base.CloseIdleConnections)

	_, err := newTestClient(WithBaseTransport(base)).Get(context.Background(), srv.URL)
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 1, reqErr.Attempts)
	assert.False(t, IsRetryableError(reqErr.Err))
	assert.Equal(t, int32(1), conns.Load())
}

func TestIsRetryableStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504, 599} {
		assert.True(t, IsRetryableStatus(code), code)
	}
	for _, code := range []int{200, 301, 400, 401, 403, 404, 410} {
		assert.False(t, IsRetryableStatus(code), code)
	}
}
