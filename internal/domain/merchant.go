package domain

import "time"

// Merchant is an API consumer identified by an api_key/api_secret pair.
// Merchants are created at seeding time and are immutable afterwards except
// for deactivation.
type Merchant struct {
	ID         string
	Name       string
	Email      string
	APIKey     string
	APISecret  string
	WebhookURL *string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LoginRequest is the dashboard login payload.
type LoginRequest struct {
	Email string `json:"email" validate:"required"`
}

// LoginResponse returns the merchant profile together with the API
// credentials the dashboard uses for subsequent calls, plus a short-lived
// session token as an alternative to sending the secret on every request.
type LoginResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
	Token     string `json:"token"`
}

// MerchantStats aggregates a merchant's payment activity.
type MerchantStats struct {
	TotalTransactions int   `json:"total_transactions"`
	TotalAmount       int64 `json:"total_amount"`
	SuccessRate       int   `json:"success_rate"`
}

// SuccessRate computes the rounded success percentage, zero when there are
// no payments at all.
func SuccessRate(successful, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(successful)/float64(total)*100 + 0.5)
}
