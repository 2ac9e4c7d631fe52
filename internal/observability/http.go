package observability

import (
	"net"
	"net/http"
	"strings"
)

// ClientIdentity describes the device behind a request.
type ClientIdentity struct {
	DeviceID string
	IP       string
}

func IdentityFromRequest(r *http.Request) ClientIdentity {
	return ClientIdentity{DeviceID: r.Header.Get("X-Device-Id"), IP: IPFromRequest(r)}
}

// RequestIDFromRequest prefers the id assigned by the request-id middleware.
func RequestIDFromRequest(r *http.Request) string {
	if id := RequestIDFromContext(r.Context()); id != "" {
		return id
	}
	return r.Header.Get("X-Request-ID")
}

func IPFromRequest(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
