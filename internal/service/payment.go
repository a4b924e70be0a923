package service

import (
	"context"
	"errors"
	"time"

	"github.com/payflow/gateway/internal/domain"
	"github.com/payflow/gateway/internal/metrics"
	"github.com/payflow/gateway/internal/validation"
	"github.com/payflow/gateway/pkg/identifier"
	"go.uber.org/zap"
)

// PaymentStore is the slice of the persistence layer the payment service
// uses.
type PaymentStore interface {
	Insert(ctx context.Context, p *domain.Payment) error
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	FindByIDForMerchant(ctx context.Context, id, merchantID string) (*domain.Payment, error)
	ListByMerchant(ctx context.Context, merchantID string) ([]*domain.Payment, error)
	MerchantStats(ctx context.Context, merchantID string) (*domain.MerchantStats, error)
}

// Settler schedules asynchronous settlement of a created payment.
type Settler interface {
	Submit(paymentID, orderID string, method domain.PaymentMethod)
}

// PaymentService implements payment creation, retrieval and stats.
type PaymentService struct {
	payments PaymentStore
	orders   OrderStore
	settler  Settler
	metrics  *metrics.Metrics
	log      *zap.Logger
	now      func() time.Time
}

// NewPaymentService creates a PaymentService.
func NewPaymentService(payments PaymentStore, orders OrderStore, settler Settler, m *metrics.Metrics, log *zap.Logger) *PaymentService {
	return &PaymentService{
		payments: payments,
		orders:   orders,
		settler:  settler,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// Create starts a payment against one of the merchant's own orders. The
// payment is returned in "processing"; settlement happens asynchronously.
func (s *PaymentService) Create(ctx context.Context, merchantID string, req *domain.CreatePaymentRequest) (*domain.Payment, error) {
	return s.create(ctx, req, merchantID)
}

// CreatePublic starts a payment from the hosted checkout page, where no
// merchant credentials are present. The paying merchant is taken from the
// order itself.
func (s *PaymentService) CreatePublic(ctx context.Context, req *domain.CreatePaymentRequest) (*domain.Payment, error) {
	return s.create(ctx, req, "")
}

func (s *PaymentService) create(ctx context.Context, req *domain.CreatePaymentRequest, merchantID string) (*domain.Payment, error) {
	order, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, domain.ErrInternal("Failed to retrieve order", err)
	}
	if order == nil {
		return nil, domain.ErrNotFound("Order not found")
	}
	// Authenticated callers may only pay their own orders. An order owned by
	// someone else looks like a missing one.
	if merchantID != "" && order.MerchantID != merchantID {
		return nil, domain.ErrNotFound("Order not found")
	}
	if order.Status == domain.OrderPaid {
		return nil, domain.ErrBadRequest("Order has already been paid")
	}

	method := domain.PaymentMethod(req.Method)
	if method != domain.MethodUPI && method != domain.MethodCard {
		return nil, domain.ErrBadRequest(`Invalid payment method. Must be "upi" or "card"`)
	}

	now := s.now()
	payment := &domain.Payment{
		OrderID:    order.ID,
		MerchantID: order.MerchantID,
		Amount:     order.Amount,
		Currency:   order.Currency,
		Method:     method,
		Status:     domain.PaymentProcessing,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	switch method {
	case domain.MethodUPI:
		if verr := validation.ValidateVPA(req.VPA); verr != nil {
			return nil, domain.ErrValidation(verr.Code, verr.Message)
		}
		vpa := req.VPA
		payment.VPA = &vpa
	case domain.MethodCard:
		if req.Card == nil {
			return nil, domain.ErrValidation(validation.CodeInvalidCard, "Card details are required")
		}
		info, verr := validation.ValidateCard(validation.CardDetails{
			Number:      req.Card.Number,
			ExpiryMonth: req.Card.ExpiryMonth,
			ExpiryYear:  req.Card.ExpiryYear,
			CVV:         req.Card.CVV,
			HolderName:  req.Card.HolderName,
		}, now)
		if verr != nil {
			return nil, domain.ErrValidation(verr.Code, verr.Message)
		}
		payment.CardNetwork = &info.Network
		payment.CardLast4 = &info.Last4
	}

	if err := s.insertWithFreshID(ctx, payment); err != nil {
		return nil, err
	}

	s.metrics.PaymentCreated(string(method))
	s.log.Info("payment created",
		zap.String("payment_id", payment.ID),
		zap.String("order_id", order.ID),
		zap.String("method", string(method)),
	)
	s.settler.Submit(payment.ID, order.ID, method)
	return payment, nil
}

func (s *PaymentService) insertWithFreshID(ctx context.Context, payment *domain.Payment) error {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		payment.ID = identifier.Generate("pay_")
		err := s.payments.Insert(ctx, payment)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrDuplicateID) {
			continue
		}
		return domain.ErrInternal("Failed to create payment", err)
	}
	return domain.ErrInternal("Failed to create payment", domain.ErrDuplicateID)
}

// GetByID returns a merchant's payment.
func (s *PaymentService) GetByID(ctx context.Context, paymentID, merchantID string) (*domain.Payment, error) {
	payment, err := s.payments.FindByIDForMerchant(ctx, paymentID, merchantID)
	if err != nil {
		return nil, domain.ErrInternal("Failed to retrieve payment", err)
	}
	if payment == nil {
		return nil, domain.ErrNotFound("Payment not found")
	}
	return payment, nil
}

// GetByIDPublic returns a payment without an ownership check. The checkout
// page polls this while the payment is processing.
func (s *PaymentService) GetByIDPublic(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, domain.ErrInternal("Failed to retrieve payment", err)
	}
	if payment == nil {
		return nil, domain.ErrNotFound("Payment not found")
	}
	return payment, nil
}

// ListByMerchant returns the merchant's payments, newest first.
func (s *PaymentService) ListByMerchant(ctx context.Context, merchantID string) ([]*domain.Payment, error) {
	payments, err := s.payments.ListByMerchant(ctx, merchantID)
	if err != nil {
		return nil, domain.ErrInternal("Failed to retrieve payments", err)
	}
	return payments, nil
}

// Stats aggregates the merchant's transaction counts, captured amount and
// success rate.
func (s *PaymentService) Stats(ctx context.Context, merchantID string) (*domain.MerchantStats, error) {
	stats, err := s.payments.MerchantStats(ctx, merchantID)
	if err != nil {
		return nil, domain.ErrInternal("Failed to retrieve stats", err)
	}
	return stats, nil
}
