package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"syscall"
	"time"
)

// fixedSchedule is a retry.Policy that waits a fixed, non-exponential delay
// between attempts. One instance serves one request.
type fixedSchedule struct {
	label       string
	maxAttempts int
	backoff     []time.Duration
	logger      *slog.Logger

	// attempts is the number of attempts made so far, for error reporting.
	attempts int
}

// Retry implements retry.Policy. attempt is zero based. A negative duration
// stops retrying and hands the last response or error back to the caller.
func (p *fixedSchedule) Retry(attempt int, resp *http.Response, err error) (time.Duration, error) {
	p.attempts = attempt + 1

	var cause string
	switch {
	case err != nil:
		if !IsRetryableError(err) {
			return -1, nil
		}
		cause = err.Error()
	case resp != nil && IsRetryableStatus(resp.StatusCode):
		cause = "HTTP " + resp.Status
	default:
		return -1, nil
	}

	if p.attempts >= p.maxAttempts {
		return -1, nil
	}

	wait := p.delay(attempt)
	p.logger.Warn("request failed, retrying",
		"request", p.label,
		"error", cause,
		"wait", wait,
		"attempt", fmt.Sprintf("%d/%d", p.attempts, p.maxAttempts),
	)
	return wait, nil
}

func (p *fixedSchedule) delay(attempt int) time.Duration {
	if len(p.backoff) == 0 {
		return 0
	}
	if attempt >= len(p.backoff) {
		return p.backoff[len(p.backoff)-1]
	}
	return p.backoff[attempt]
}

// IsRetryableStatus reports whether an HTTP status is worth another attempt:
// 408, 429 and every 5xx.
func IsRetryableStatus(code int) bool {
	switch {
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests:
		return true
	case code >= 500 && code <= 599:
		return true
	default:
		return false
	}
}

// IsRetryableError reports whether a transport error is transient: timeouts,
// name resolution failures and broken or refused connections. Caller
// cancellation and TLS or certificate failures are terminal.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var certErr *tls.CertificateVerificationError
	var recordErr tls.RecordHeaderError
	var authorityErr x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	var invalidErr x509.CertificateInvalidError
	if errors.As(err, &certErr) || errors.As(err, &recordErr) ||
		errors.As(err, &authorityErr) || errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr) {
		return false
	}

	// An alert sent by the peer ends the handshake the same way every time.
	var alertErr tls.AlertError
	if errors.As(err, &alertErr) {
		return false
	}

	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Op != "remote error"
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}
