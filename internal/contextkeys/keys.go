// Package contextkeys defines the request-scoped context keys shared by
// middleware and handlers.
package contextkeys

import "context"

type contextKey string

const merchantIDKey contextKey = "merchantID"

// WithMerchantID stores the authenticated merchant's id on the context.
func WithMerchantID(ctx context.Context, merchantID string) context.Context {
	return context.WithValue(ctx, merchantIDKey, merchantID)
}

// MerchantID returns the authenticated merchant's id, if any.
func MerchantID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(merchantIDKey).(string)
	return id, ok && id != ""
}
