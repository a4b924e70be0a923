package middleware

import (
	"net/http"
	"strings"

	"github.com/payflow/gateway/internal/contextkeys"
	"github.com/payflow/gateway/internal/domain"
	"github.com/payflow/gateway/internal/handler"
	"github.com/payflow/gateway/internal/service"
)

// Auth authenticates merchant requests. Two schemes are accepted: the
// X-Api-Key/X-Api-Secret header pair used by server integrations, and a
// Bearer token issued at dashboard login. The merchant id lands on the
// request context either way.
func Auth(merchants *service.MerchantService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("X-Api-Key")
			apiSecret := r.Header.Get("X-Api-Secret")

			var (
				merchant *domain.Merchant
				err      error
			)
			switch {
			case apiKey != "" || apiSecret != "":
				merchant, err = merchants.VerifyCredentials(r.Context(), apiKey, apiSecret)
			default:
				token, ok := bearerToken(r)
				if !ok {
					handler.Error(w, domain.ErrAuthentication("Authentication required"))
					return
				}
				merchant, err = merchants.VerifyToken(r.Context(), token)
			}
			if err != nil {
				handler.Error(w, err)
				return
			}

			ctx := contextkeys.WithMerchantID(r.Context(), merchant.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
