package middleware

import (
	"net/http"

	"github.com/payflow/gateway/internal/domain"
	"github.com/payflow/gateway/internal/handler"
)

// Sandbox gates the test-only endpoints. Outside test mode they do not
// exist, so callers see a plain 404 rather than a hint that the routes are
// mounted.
func Sandbox(testMode bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !testMode {
				handler.Error(w, domain.ErrNotFound("Not found"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
