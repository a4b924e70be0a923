// Package ws streams payment status over WebSocket so the checkout page can
// watch a settlement instead of polling.
package ws

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/payflow/gateway/internal/service"
	"go.uber.org/zap"
)

// pollInterval is how often the stream re-reads the payment while it is
// still processing.
const pollInterval = 500 * time.Millisecond

// streamTimeout caps how long a connection can watch a single payment. It
// comfortably exceeds the maximum settlement delay plus the sweeper's grace
// period.
const streamTimeout = 2 * time.Minute

// PaymentStreamHandler pushes payment status updates to a checkout client.
// Upgrades honor the same allowed-origin list as the HTTP CORS layer.
type PaymentStreamHandler struct {
	payments *service.PaymentService
	origins  []string
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewPaymentStreamHandler creates a new PaymentStreamHandler.
func NewPaymentStreamHandler(payments *service.PaymentService, origins []string, log *zap.Logger) *PaymentStreamHandler {
	h := &PaymentStreamHandler{payments: payments, origins: origins, log: log}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

// checkOrigin allows same-origin requests (no Origin header) and any origin
// on the configured allow list.
func (h *PaymentStreamHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.origins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// Handle upgrades GET /ws/payments/{payment_id} and writes the public
// payment projection whenever the status changes, closing after a terminal
// status is delivered.
func (h *PaymentStreamHandler) Handle(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "payment_id")

	payment, err := h.payments.GetByIDPublic(r.Context(), paymentID)
	if err != nil {
		http.Error(w, "payment not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(payment.Projection(true)); err != nil {
		return
	}
	if payment.Terminal() {
		return
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(streamTimeout)
	defer deadline.Stop()

	lastStatus := payment.Status
	for {
		select {
		case <-r.Context().Done():
			return
		case <-deadline.C:
			return
		case <-ticker.C:
		}

		payment, err = h.payments.GetByIDPublic(r.Context(), paymentID)
		if err != nil {
			return
		}
		if payment.Status == lastStatus {
			continue
		}
		lastStatus = payment.Status

		if err := conn.WriteJSON(payment.Projection(true)); err != nil {
			return
		}
		if payment.Terminal() {
			return
		}
	}
}
