package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/payflow/gateway/internal/service"
)

// SandboxHandler serves the test-only endpoints used by integration
// tooling. The routes are mounted behind middleware that 404s them outside
// test mode.
type SandboxHandler struct {
	merchants      *service.MerchantService
	payments       *service.PaymentService
	testMerchantID string
}

// NewSandboxHandler creates a new SandboxHandler.
func NewSandboxHandler(merchants *service.MerchantService, payments *service.PaymentService, testMerchantID string) *SandboxHandler {
	return &SandboxHandler{merchants: merchants, payments: payments, testMerchantID: testMerchantID}
}

// TestMerchant handles GET /api/v1/test/merchant. It exposes the seeded
// merchant's credentials so test clients can authenticate without a manual
// setup step.
func (h *SandboxHandler) TestMerchant(w http.ResponseWriter, r *http.Request) {
	merchant, err := h.merchants.GetByID(r.Context(), h.testMerchantID)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]any{
		"id":         merchant.ID,
		"name":       merchant.Name,
		"email":      merchant.Email,
		"api_key":    merchant.APIKey,
		"api_secret": merchant.APISecret,
	})
}

// TestStats handles GET /api/v1/test/stats/{merchant_id}.
func (h *SandboxHandler) TestStats(w http.ResponseWriter, r *http.Request) {
	merchantID := chi.URLParam(r, "merchant_id")

	stats, err := h.payments.Stats(r.Context(), merchantID)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, stats)
}
