package middleware

import (
	"context"
	"net/http"

	"3tcapital/nfe_dados/internal/infrastructure/config"
)

// ExtendedTimeout wraps a handler to apply the extended batch timeout.
// A full-size batch is paced at one classification call per interval
// and can legitimately run for tens of minutes, far beyond the default
// WriteTimeout.
func ExtendedTimeout(cfg config.HTTPSettings) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), cfg.WriteTimeoutLote)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
