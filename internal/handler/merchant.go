package handler

import (
	"net/http"

	"github.com/payflow/gateway/internal/contextkeys"
	"github.com/payflow/gateway/internal/domain"
	"github.com/payflow/gateway/internal/service"
)

// MerchantHandler handles dashboard login and merchant stats.
type MerchantHandler struct {
	merchants *service.MerchantService
	payments  *service.PaymentService
}

// NewMerchantHandler creates a new MerchantHandler.
func NewMerchantHandler(merchants *service.MerchantService, payments *service.PaymentService) *MerchantHandler {
	return &MerchantHandler{merchants: merchants, payments: payments}
}

// Login handles POST /api/v1/merchant/login.
func (h *MerchantHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	resp, err := h.merchants.Login(r.Context(), &req)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, resp)
}

// Stats handles GET /api/v1/merchant/stats.
func (h *MerchantHandler) Stats(w http.ResponseWriter, r *http.Request) {
	merchantID, _ := contextkeys.MerchantID(r.Context())

	stats, err := h.payments.Stats(r.Context(), merchantID)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, stats)
}
