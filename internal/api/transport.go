package api

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"time"
)

// FromTransportError classifies an error returned by http.Client.Do.
//
// Timeouts (context deadline or net.Error.Timeout) become KindTimeout with the
// configured timeout in the detail. Refused connections, DNS failures, TLS
// failures and other network errors become KindConnectionError. Anything else
// is KindUnknownAuthError. prefix names the operation, e.g. "Error getting case types",
// and may be empty.
func FromTransportError(err error, timeout time.Duration, prefix string) *Failure {
	if isTimeoutError(err) {
		return WrapFailure(KindTimeout, err,
			prefixed(prefix, fmt.Sprintf("request timed out after %s", timeout)),
			"check that the Pega instance is responsive",
			"raise REQUEST_TIMEOUT if the platform is slow")
	}

	if isTLSError(err) {
		return WrapFailure(KindConnectionError, err,
			prefixed(prefix, "TLS verification failed: "+rootMessage(err)),
			"install the platform's CA certificate",
			"or set VERIFY_SSL=false for development instances only")
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return WrapFailure(KindConnectionError, err,
			prefixed(prefix, "cannot resolve host "+dnsErr.Name),
			"verify PEGA_BASE_URL is spelled correctly")
	}

	if isNetworkError(err) {
		return WrapFailure(KindConnectionError, err,
			prefixed(prefix, "cannot connect to Pega: "+rootMessage(err)),
			"verify PEGA_BASE_URL is reachable from this host")
	}

	return WrapFailure(KindUnknownAuthError, err, prefixed(prefix, rootMessage(err)))
}

func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isTLSError(err error) bool {
	var certErr *x509.CertificateInvalidError
	var hostErr *x509.HostnameError
	var unknownAuthErr *x509.UnknownAuthorityError
	if errors.As(err, &certErr) || errors.As(err, &hostErr) || errors.As(err, &unknownAuthErr) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "x509:") || strings.Contains(msg, "tls:")
}

func isNetworkError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// rootMessage returns the innermost error message, dropping the
// `Get "url":` prefix added by net/http.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

func prefixed(prefix, msg string) string {
	if prefix == "" {
		return msg
	}
	return prefix + ": " + msg
}
