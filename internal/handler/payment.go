package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/payflow/gateway/internal/contextkeys"
	"github.com/payflow/gateway/internal/domain"
	"github.com/payflow/gateway/internal/service"
)

// PaymentHandler handles payment HTTP endpoints.
type PaymentHandler struct {
	svc *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// Create handles POST /api/v1/payments.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	merchantID, _ := contextkeys.MerchantID(r.Context())

	var req domain.CreatePaymentRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	payment, err := h.svc.Create(r.Context(), merchantID, &req)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusCreated, payment.Projection(false))
}

// CreatePublic handles POST /api/v1/payments/public, used by the hosted
// checkout page where no merchant credentials are present.
func (h *PaymentHandler) CreatePublic(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePaymentRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	payment, err := h.svc.CreatePublic(r.Context(), &req)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusCreated, payment.Projection(false))
}

// Get handles GET /api/v1/payments/{payment_id}.
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	merchantID, _ := contextkeys.MerchantID(r.Context())
	paymentID := chi.URLParam(r, "payment_id")

	payment, err := h.svc.GetByID(r.Context(), paymentID, merchantID)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, payment.Projection(true))
}

// GetPublic handles GET /api/v1/payments/{payment_id}/public. The checkout
// page polls this until the payment reaches a terminal status.
func (h *PaymentHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "payment_id")

	payment, err := h.svc.GetByIDPublic(r.Context(), paymentID)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, payment.Projection(true))
}

// List handles GET /api/v1/payments.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	merchantID, _ := contextkeys.MerchantID(r.Context())

	payments, err := h.svc.ListByMerchant(r.Context(), merchantID)
	if err != nil {
		Error(w, err)
		return
	}

	projections := make([]domain.PaymentProjection, 0, len(payments))
	for _, p := range payments {
		projections = append(projections, p.Projection(true))
	}
	JSON(w, http.StatusOK, map[string]any{"payments": projections})
}
