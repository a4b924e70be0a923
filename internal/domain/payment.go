package domain

import "time"

// Payment methods accepted by the gateway.
type PaymentMethod string

const (
	MethodUPI  PaymentMethod = "upi"
	MethodCard PaymentMethod = "card"
)

// Payment statuses. "processing" is the only non-terminal state; exactly one
// settlement event moves a payment to "success" or "failed", permanently.
type PaymentStatus string

const (
	PaymentProcessing PaymentStatus = "processing"
	PaymentSuccess    PaymentStatus = "success"
	PaymentFailed     PaymentStatus = "failed"
)

// Settlement failure codes and their client-facing descriptions.
const (
	ErrCodeUPIFailed  = "UPI_TRANSACTION_FAILED"
	ErrCodeCardFailed = "CARD_TRANSACTION_FAILED"
	ErrCodeProcessing = "PROCESSING_ERROR"

	ErrDescUPIFailed  = "UPI transaction failed. Please try again."
	ErrDescCardFailed = "Card transaction declined by bank."
	ErrDescProcessing = "An error occurred while processing the payment"
)

// Payment records one attempt to pay an order. Amount, currency and merchant
// are copied from the order at creation. The raw card number and CVV are
// never stored; only the detected network and last four digits survive
// validation.
type Payment struct {
	ID               string
	OrderID          string
	MerchantID       string
	Amount           int64
	Currency         string
	Method           PaymentMethod
	Status           PaymentStatus
	VPA              *string
	CardNetwork      *string
	CardLast4        *string
	ErrorCode        *string
	ErrorDescription *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Terminal reports whether the payment has reached a final status.
func (p *Payment) Terminal() bool {
	return p.Status == PaymentSuccess || p.Status == PaymentFailed
}

// CardRequest carries raw card details for validation. The expiry fields are
// strings because checkout forms submit them as text ("09", "2030" or "30").
type CardRequest struct {
	Number      string `json:"number"`
	ExpiryMonth string `json:"expiry_month"`
	ExpiryYear  string `json:"expiry_year"`
	CVV         string `json:"cvv"`
	HolderName  string `json:"holder_name"`
}

// CreatePaymentRequest is the POST /payments payload. Exactly one of VPA or
// Card is consulted, depending on Method.
type CreatePaymentRequest struct {
	OrderID string       `json:"order_id"`
	Method  string       `json:"method"`
	VPA     string       `json:"vpa"`
	Card    *CardRequest `json:"card"`
}

// PaymentProjection is the wire view of a payment. Method-specific fields
// appear only for the matching method, and error fields only once the
// payment has failed.
type PaymentProjection struct {
	ID               string        `json:"id"`
	OrderID          string        `json:"order_id"`
	Amount           int64         `json:"amount"`
	Currency         string        `json:"currency"`
	Method           PaymentMethod `json:"method"`
	Status           PaymentStatus `json:"status"`
	VPA              *string       `json:"vpa,omitempty"`
	CardNetwork      *string       `json:"card_network,omitempty"`
	CardLast4        *string       `json:"card_last4,omitempty"`
	ErrorCode        *string       `json:"error_code,omitempty"`
	ErrorDescription *string       `json:"error_description,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        *time.Time    `json:"updated_at,omitempty"`
}

// Projection builds the wire view. UpdatedAt is omitted from creation
// responses.
func (p *Payment) Projection(includeUpdated bool) PaymentProjection {
	proj := PaymentProjection{
		ID:        p.ID,
		OrderID:   p.OrderID,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Method:    p.Method,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
	}
	switch p.Method {
	case MethodUPI:
		proj.VPA = p.VPA
	case MethodCard:
		proj.CardNetwork = p.CardNetwork
		proj.CardLast4 = p.CardLast4
	}
	if p.Status == PaymentFailed {
		proj.ErrorCode = p.ErrorCode
		proj.ErrorDescription = p.ErrorDescription
	}
	if includeUpdated {
		t := p.UpdatedAt
		proj.UpdatedAt = &t
	}
	return proj
}
