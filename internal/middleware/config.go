package middleware

import (
	"net/http"

	"github.com/firstlabs/accounts/internal/config"
	"github.com/firstlabs/accounts/internal/ctxkeys"
)

// ConfigContext adds the sanitized app configuration to the request context.
// Secrets and credentials are excluded; handlers only ever see public fields.
func ConfigContext(cfg *config.Config) func(http.Handler) http.Handler {
	sanitized := cfg.Sanitized()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := ctxkeys.WithConfig(r.Context(), sanitized)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
