package errors

import (
	"context"
	goerrors "errors"
	"net"
	"reflect"
	"strings"
	"syscall"
)

// Classify returns a short error class suitable for tagging metrics and logs.
// Common transport failures get stable names; anything else is named after
// the innermost concrete error type in snake_case-ish form.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case goerrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case goerrors.Is(err, context.Canceled):
		return "canceled"
	case goerrors.Is(err, syscall.ECONNREFUSED):
		return "connection_refused"
	case goerrors.Is(err, syscall.ECONNRESET):
		return "connection_reset"
	}

	var netErr net.Error
	if goerrors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	var dnsErr *net.DNSError
	if goerrors.As(err, &dnsErr) {
		return "dns"
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	name := strings.ToLower(strings.ReplaceAll(t.String(), "*", ""))
	name = strings.ReplaceAll(name, ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}
