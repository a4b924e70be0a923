package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/payflow/gateway/internal/contextkeys"
	"github.com/payflow/gateway/internal/domain"
	"github.com/payflow/gateway/internal/service"
)

// OrderHandler handles order HTTP endpoints.
type OrderHandler struct {
	svc *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// Create handles POST /api/v1/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	merchantID, _ := contextkeys.MerchantID(r.Context())

	var req domain.CreateOrderRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	order, err := h.svc.Create(r.Context(), merchantID, &req)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusCreated, order.Projection(false))
}

// Get handles GET /api/v1/orders/{order_id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	merchantID, _ := contextkeys.MerchantID(r.Context())
	orderID := chi.URLParam(r, "order_id")

	order, err := h.svc.GetByID(r.Context(), orderID, merchantID)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, order.Projection(true))
}

// GetPublic handles GET /api/v1/orders/{order_id}/public, the checkout
// page's unauthenticated order lookup.
func (h *OrderHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")

	order, err := h.svc.GetByIDPublic(r.Context(), orderID)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, order.PublicProjection())
}

// List handles GET /api/v1/orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	merchantID, _ := contextkeys.MerchantID(r.Context())

	orders, err := h.svc.ListByMerchant(r.Context(), merchantID)
	if err != nil {
		Error(w, err)
		return
	}

	projections := make([]domain.OrderProjection, 0, len(orders))
	for _, o := range orders {
		projections = append(projections, o.Projection(true))
	}
	JSON(w, http.StatusOK, map[string]any{"orders": projections})
}
