// Package auth implements the admin gate: a single shared-secret check
// applied uniformly to every protected route.
//
// There are no sessions, no expiry and no per-admin identity — one bearer
// secret, checked statelessly on each request.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
)

// AdminTokenHeader carries the admin credential on protected requests.
const AdminTokenHeader = "X-Admin-Token"

// RequireAdmin returns a middleware that admits a request only when the
// request's admin token header matches the configured secret.
//
// An empty configured secret denies every request: the gate fails closed
// rather than open when the operator forgot to set ADMIN_TOKEN.
//
// On deny the chain short-circuits with 401 and downstream handlers never
// run. The credential value is never logged or echoed back.
func RequireAdmin(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" || !tokensEqual(r.Header.Get(AdminTokenHeader), secret) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid admin token required"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// tokensEqual compares the presented token against the secret in constant
// time. Hashing both sides first gives fixed-length inputs, so neither the
// comparison nor the length check leaks timing information about the secret.
func tokensEqual(presented, secret string) bool {
	a := sha256.Sum256([]byte(presented))
	b := sha256.Sum256([]byte(secret))
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}
