package adminapi

import (
	"context"
	"crypto/x509"
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"
)

const (
	msgTimeout     = "Request timeout - the admin API took too long to respond"
	msgCancelled   = "Request cancelled"
	msgRefused     = "Connection refused - check that the admin API is running and the base URL port is correct"
	msgReset       = "Connection reset by server - the admin API may have crashed"
	msgUnreachable = "Network unreachable - check network connection and firewall settings"
	msgDNS         = "DNS resolution failed - verify the base URL hostname"
)

// categorizeError turns a transport failure into an actionable message.
// Typed errors are checked first, then the error text.
func categorizeError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return msgTimeout
	}
	if errors.Is(err, context.Canceled) {
		return msgCancelled
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return msgTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return msgTimeout
		}
		var errno syscall.Errno
		if errors.As(opErr.Err, &errno) {
			switch errno {
			case syscall.ECONNREFUSED:
				return msgRefused
			case syscall.ECONNRESET:
				return msgReset
			case syscall.ENETUNREACH, syscall.EHOSTUNREACH:
				return msgUnreachable
			}
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return msgDNS
	}

	var authErr x509.UnknownAuthorityError
	if errors.As(err, &authErr) {
		return "TLS certificate signed by unknown authority"
	}

	return categorizeErrorText(err.Error())
}

// categorizeErrorText is the string fallback for wrapped errors that lost their type
func categorizeErrorText(errStr string) string {
	if errStr == "" {
		return ""
	}
	errLower := strings.ToLower(errStr)

	switch {
	case strings.Contains(errLower, "context canceled"):
		return msgCancelled
	case strings.Contains(errLower, "deadline exceeded"), strings.Contains(errLower, "timeout"):
		return msgTimeout
	case strings.Contains(errLower, "no such host"), strings.Contains(errLower, "dial tcp: lookup"):
		return msgDNS
	case strings.Contains(errLower, "connection refused"):
		return msgRefused
	case strings.Contains(errLower, "connection reset"):
		return msgReset
	case strings.Contains(errLower, "network is unreachable"), strings.Contains(errLower, "no route to host"):
		return msgUnreachable
	case strings.Contains(errLower, "x509"), strings.Contains(errLower, "certificate"), strings.Contains(errLower, "tls"):
		return "TLS error - check the admin API certificate: " + errStr
	case strings.Contains(errLower, "unsupported protocol"), strings.Contains(errLower, "invalid url"):
		return "Invalid base URL - verify the URL format and protocol (http/https)"
	case strings.Contains(errLower, "eof"):
		return "Connection closed unexpectedly by the admin API"
	}
	return "Request failed: " + errStr
}
