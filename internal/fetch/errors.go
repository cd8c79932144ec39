// Package fetch typed error definitions.
package fetch

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies a fetch failure. Downstream stages branch on the
// kind: the fingerprint scanner marks DNS and timeout failures Unreachable,
// the candidate verifier maps everything except a definitive 404 to a
// verification error.
type ErrorKind string

// Fetch failure kinds.
const (
	// KindTimeout means the request exceeded its deadline.
	KindTimeout ErrorKind = "timeout"

	// KindDNSFailure means the host did not resolve.
	KindDNSFailure ErrorKind = "dns_failure"

	// KindTLSFailure means the TLS handshake or certificate
	// verification failed.
	KindTLSFailure ErrorKind = "tls_failure"

	// KindHTTPError means the server answered with a failure status.
	KindHTTPError ErrorKind = "http_error"

	// KindInvalidRequest means the URL could not be turned into a request.
	KindInvalidRequest ErrorKind = "invalid_request"

	// KindConnection covers the remaining transport failures
	// (connection refused, reset, protocol errors).
	KindConnection ErrorKind = "connection"
)

// Error is the typed failure returned by Client methods.
type Error struct {
	// Kind is the failure classification.
	Kind ErrorKind

	// URL is the request URL that failed.
	URL string

	// StatusCode is set only for KindHTTPError.
	StatusCode int

	// Err is the underlying cause, nil for pure HTTP-status errors.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Kind == KindHTTPError {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// classify wraps a transport error with its kind.
func classify(url string, err error) *Error {
	kind := KindConnection

	var netErr net.Error
	var dnsErr *net.DNSError
	var certErr *tls.CertificateVerificationError
	var recordErr tls.RecordHeaderError
	var unknownAuthErr x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = KindTimeout
	case errors.As(err, &dnsErr):
		kind = KindDNSFailure
	case errors.As(err, &certErr),
		errors.As(err, &recordErr),
		errors.As(err, &unknownAuthErr),
		errors.As(err, &hostnameErr):
		kind = KindTLSFailure
	}

	return &Error{Kind: kind, URL: url, Err: err}
}
