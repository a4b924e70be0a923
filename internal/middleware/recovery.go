package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/payflow/gateway/internal/domain"
	"github.com/payflow/gateway/internal/handler"
	"go.uber.org/zap"
)

// Recovery catches panics and returns a 500 error instead of crashing the
// server.
func Recovery(log *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic recovered",
						zap.Any("panic", rec),
						zap.String("path", r.URL.Path),
						zap.ByteString("stack", debug.Stack()),
					)
					handler.Error(w, domain.ErrInternal("An internal error occurred", nil))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
