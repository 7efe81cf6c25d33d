package core

import "context"

type contextKey string

const (
	ctxKeyOwnerID   contextKey = "owner_id"
	ctxKeyIPAddress contextKey = "client_ip"
)

// ContextWithOwnerID scopes a context to the account that owns the data.
func ContextWithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ctxKeyOwnerID, ownerID)
}

// OwnerIDFromContext returns the owner set by ContextWithOwnerID, or "".
func OwnerIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyOwnerID).(string); ok {
		return v
	}
	return ""
}

// ContextWithIPAddress records the client address for import logs.
func ContextWithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKeyIPAddress, ip)
}

// IPAddressFromContext extracts the client address, or "".
func IPAddressFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyIPAddress).(string); ok {
		return v
	}
	return ""
}
