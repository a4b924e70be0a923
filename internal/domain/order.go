package domain

import "time"

// Order statuses. An order starts as "created" and moves to "paid" exactly
// once, when a payment against it settles successfully. There is no reverse
// transition.
type OrderStatus string

const (
	OrderCreated OrderStatus = "created"
	OrderPaid    OrderStatus = "paid"
)

// MinOrderAmount is the floor for order amounts, in the smallest currency
// unit (paise for INR).
const MinOrderAmount = 100

// DefaultCurrency is assigned when an order omits the currency code.
const DefaultCurrency = "INR"

// Order is a merchant's request for payment. The amount is immutable after
// creation; only the Payment Engine mutates the status.
type Order struct {
	ID         string
	MerchantID string
	Amount     int64
	Currency   string
	Receipt    *string
	Notes      map[string]any
	Status     OrderStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateOrderRequest is the POST /orders payload.
type CreateOrderRequest struct {
	Amount   int64          `json:"amount" validate:"required"`
	Currency string         `json:"currency" validate:"omitempty,len=3"`
	Receipt  *string        `json:"receipt"`
	Notes    map[string]any `json:"notes"`
}

// OrderProjection is the merchant-facing view of an order. UpdatedAt is
// omitted from creation responses.
type OrderProjection struct {
	ID         string         `json:"id"`
	MerchantID string         `json:"merchant_id"`
	Amount     int64          `json:"amount"`
	Currency   string         `json:"currency"`
	Receipt    *string        `json:"receipt"`
	Notes      map[string]any `json:"notes"`
	Status     OrderStatus    `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  *time.Time     `json:"updated_at,omitempty"`
}

// PublicOrderProjection is the reduced view served to the checkout page:
// no receipt, notes, or update timestamp.
type PublicOrderProjection struct {
	ID         string      `json:"id"`
	MerchantID string      `json:"merchant_id"`
	Amount     int64       `json:"amount"`
	Currency   string      `json:"currency"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Projection builds the merchant-facing view. Nil notes render as {}.
func (o *Order) Projection(includeUpdated bool) OrderProjection {
	notes := o.Notes
	if notes == nil {
		notes = map[string]any{}
	}
	p := OrderProjection{
		ID:         o.ID,
		MerchantID: o.MerchantID,
		Amount:     o.Amount,
		Currency:   o.Currency,
		Receipt:    o.Receipt,
		Notes:      notes,
		Status:     o.Status,
		CreatedAt:  o.CreatedAt,
	}
	if includeUpdated {
		t := o.UpdatedAt
		p.UpdatedAt = &t
	}
	return p
}

// PublicProjection builds the reduced checkout view.
func (o *Order) PublicProjection() PublicOrderProjection {
	return PublicOrderProjection{
		ID:         o.ID,
		MerchantID: o.MerchantID,
		Amount:     o.Amount,
		Currency:   o.Currency,
		Status:     o.Status,
		CreatedAt:  o.CreatedAt,
	}
}
