package httpclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// Transport error codes, numbered as in libcurl.
const (
	CodeUnknown             = 0
	CodeUnsupportedProtocol = 1
	CodeMalformedURL        = 3
	CodeResolveHost         = 6
	CodeConnect             = 7
	CodeTimeout             = 28
	CodeTLSConnect          = 35
	CodeAborted             = 42
	CodeReceive             = 56
	CodePeerCertificate     = 60
)

// TransportError reports a request that produced no HTTP response at all.
type TransportError struct {
	Code    int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	return e.Message
}

func (e *TransportError) Unwrap() error { return e.Err }

// Classify wraps err into a *TransportError carrying a numeric code.
// An error that already is a *TransportError is returned unchanged.
func Classify(err error) *TransportError {
	if err == nil {
		return nil
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te
	}

	return &TransportError{
		Code:    classifyCode(err),
		Message: transportMessage(err),
		Err:     err,
	}
}

func classifyCode(err error) int {
	var (
		dnsErr     *net.DNSError
		netErr     net.Error
		opErr      *net.OpError
		certErr    *tls.CertificateVerificationError
		authErr    x509.UnknownAuthorityError
		hostErr    x509.HostnameError
		recordErr  tls.RecordHeaderError
		invalidErr x509.CertificateInvalidError
	)

	switch {
	case errors.Is(err, context.Canceled):
		return CodeAborted
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	case errors.As(err, &dnsErr):
		return CodeResolveHost
	case errors.As(err, &certErr), errors.As(err, &authErr), errors.As(err, &hostErr), errors.As(err, &invalidErr):
		return CodePeerCertificate
	case errors.As(err, &recordErr):
		return CodeTLSConnect
	case errors.As(err, &netErr) && netErr.Timeout():
		return CodeTimeout
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.EHOSTUNREACH), errors.Is(err, syscall.ENETUNREACH):
		return CodeConnect
	case errors.As(err, &opErr) && opErr.Op == "dial":
		return CodeConnect
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, syscall.ECONNRESET):
		return CodeReceive
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "unsupported protocol scheme"):
		return CodeUnsupportedProtocol
	case strings.Contains(msg, "no Host in request URL"), strings.Contains(msg, "invalid URL"):
		return CodeMalformedURL
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Op == "parse" {
		return CodeMalformedURL
	}
	return CodeUnknown
}

// transportMessage drops the method and URL prefix added by net/http; the
// URL carries the request signature.
func transportMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}
