package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/firstlabs/accounts/internal/ctxkeys"
	"github.com/firstlabs/accounts/internal/repository"
	"github.com/firstlabs/accounts/internal/service"
	"github.com/firstlabs/accounts/internal/token"
)

// AuthGate resolves a presented session token into an authenticated user:
// the signature must verify, the subject must exist, and the exact token
// string must be in that user's active set. Every failure looks the same to
// the client; the gate never reveals whether the token was malformed, the
// account unknown, or the session revoked.
//
// On success the user and the raw token land in the request context (the
// token so logout can revoke exactly this session) and the cookie pair is
// re-issued, making the cookie lifetime a sliding window.
func AuthGate(users repository.UserRepository, sessions *service.SessionService, issuer *token.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := sessions.TokenFromRequest(r)
			if presented == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := issuer.Verify(presented)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			active, err := sessions.IsActive(userID, presented)
			if err != nil || !active {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.ByID(userID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			sessions.SetCookies(w, presented)

			ctx := ctxkeys.WithUser(r.Context(), user)
			ctx = ctxkeys.WithSessionToken(ctx, presented)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that did not authenticate, with one uniform
// body regardless of cause.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "you must login"})
			return
		}
		next.ServeHTTP(w, r)
	}
}
