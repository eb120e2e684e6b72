package errors

import (
	"context"
	stderrors "errors"
	"net"
	"strings"
)

// Transport failure labels used in logs and metrics.
const (
	KindTimeout   = "timeout"
	KindDNS       = "dns"
	KindConnReset = "conn_reset"
	KindCanceled  = "canceled"
	KindTLS       = "tls"
	KindOther     = "other"
)

// ClassifyTransport labels a transport-level error.
func ClassifyTransport(err error) string {
	if err == nil {
		return ""
	}
	if stderrors.Is(err, context.Canceled) {
		return KindCanceled
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var ne net.Error
	if stderrors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}
	var dnsErr *net.DNSError
	if stderrors.As(err, &dnsErr) {
		return KindDNS
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return KindTimeout
	case strings.Contains(msg, "no such host") || strings.Contains(msg, "name resolution"):
		return KindDNS
	case strings.Contains(msg, "connection reset") || strings.Contains(msg, "connection refused") || strings.Contains(msg, "eof"):
		return KindConnReset
	case strings.Contains(msg, "certificate") || strings.Contains(msg, "tls"):
		return KindTLS
	case strings.Contains(msg, "context canceled"):
		return KindCanceled
	default:
		return KindOther
	}
}

// TransportError wraps a transport failure with its label.
type TransportError struct {
	Kind string
	Err  error
}

func (e *TransportError) Error() string { return "transport " + e.Kind + ": " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }
