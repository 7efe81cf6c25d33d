package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/ledgerio/internal/core"
)

// WithRequestMetadata adds the client IP to ctx for import logging.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithIPAddress(ctx, clientIP(r))
}

// clientIP returns the host part of RemoteAddr, already resolved by
// TrustedRealIP for proxied requests.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
