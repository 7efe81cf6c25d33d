package middleware

import (
	"net/http"
	"strings"

	"github.com/JonMunkholm/ledgerio/internal/core"
	"github.com/JonMunkholm/ledgerio/internal/logging"
)

// OwnerHeader carries the account ID resolved by the upstream auth layer.
const OwnerHeader = "X-Owner-ID"

// Owner scopes each request to the account named in OwnerHeader. Requests
// without one are rejected with 401. The owner is added to the core
// context and to every log entry of the request.
func Owner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := strings.TrimSpace(r.Header.Get(OwnerHeader))
		if owner == "" {
			reject(w, r, errMissingOwner, http.StatusUnauthorized)
			return
		}

		ctx := core.ContextWithOwnerID(r.Context(), owner)
		ctx = logging.ContextWithAttrs(ctx, "owner_id", owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
