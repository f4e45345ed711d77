package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// TimeoutError is returned when one of the request phase ceilings expires.
// It satisfies net.Error.
type TimeoutError struct {
	Phase string
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Phase, e.After)
}

func (e *TimeoutError) Timeout() bool   { return true }
func (e *TimeoutError) Temporary() bool { return true }

// deadlineTransport enforces a ceiling on connect plus response headers and a
// separate ceiling on reading the body. Either ceiling may be zero to disable it.
type deadlineTransport struct {
	next          http.RoundTripper
	headerTimeout time.Duration
	bodyTimeout   time.Duration
}

func (t *deadlineTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, cancel := context.WithCancel(req.Context())

	var headerExpired atomic.Bool
	var headerTimer *time.Timer
	if t.headerTimeout > 0 {
		headerTimer = time.AfterFunc(t.headerTimeout, func() {
			headerExpired.Store(true)
			cancel()
		})
	}

	resp, err := t.next.RoundTrip(req.WithContext(ctx))
	if headerTimer != nil {
		headerTimer.Stop()
	}
	if headerExpired.Load() {
		if resp != nil {
			resp.Body.Close()
		}
		cancel()
		return nil, &TimeoutError{Phase: "connect and response headers", After: t.headerTimeout}
	}
	if err != nil {
		cancel()
		return nil, err
	}

	body := &deadlineBody{ReadCloser: resp.Body, cancel: cancel, after: t.bodyTimeout}
	if t.bodyTimeout > 0 {
		body.timer = time.AfterFunc(t.bodyTimeout, func() {
			body.expired.Store(true)
			cancel()
		})
	}
	resp.Body = body
	return resp, nil
}

type deadlineBody struct {
	io.ReadCloser
	cancel  context.CancelFunc
	timer   *time.Timer
	after   time.Duration
	expired atomic.Bool
}

func (b *deadlineBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if err != nil && err != io.EOF && b.expired.Load() {
		return n, &TimeoutError{Phase: "response body", After: b.after}
	}
	return n, err
}

func (b *deadlineBody) Close() error {
	if b.timer != nil {
		b.timer.Stop()
	}
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
