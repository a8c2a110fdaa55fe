package httpapi

import (
	"net/http"
	"strings"

	"github.com/meridian-travel/itinerary-api/internal/domain"
)

// NewGatewayAuthMiddleware resolves the caller identity from gateway headers.
//
// The API sits behind an identity-aware gateway that authenticates the user
// and forwards the verified identity and privilege flag in the configured
// headers. This middleware trusts those headers; it must never be exposed
// directly to the public internet without the gateway in front.
func NewGatewayAuthMiddleware(callerHeader, privilegedHeader string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Health endpoint is used by infra checks and is unauthenticated.
			if r.URL.Path == "/healthz" {
				next.ServeHTTP(w, r)
				return
			}

			id := strings.TrimSpace(r.Header.Get(callerHeader))
			if id == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing caller identity", nil)
				return
			}

			c := Caller{ID: domain.UserID(id), Privileged: isTruthy(r.Header.Get(privilegedHeader))}
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), c)))
		})
	}
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
