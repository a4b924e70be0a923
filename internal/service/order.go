package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/payflow/gateway/internal/domain"
	"github.com/payflow/gateway/internal/metrics"
	"github.com/payflow/gateway/pkg/identifier"
	"go.uber.org/zap"
)

// maxIDAttempts bounds identifier regeneration on insert conflicts. The id
// space makes more than one retry essentially impossible; the cap only
// guards against looping forever on a misbehaving store.
const maxIDAttempts = 25

var validate = validator.New(validator.WithRequiredStructEnabled())

// OrderStore is the slice of the persistence layer the order service uses.
type OrderStore interface {
	Insert(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	ListByMerchant(ctx context.Context, merchantID string) ([]*domain.Order, error)
}

// OrderService implements order creation and retrieval.
type OrderService struct {
	orders  OrderStore
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewOrderService creates an OrderService.
func NewOrderService(orders OrderStore, m *metrics.Metrics, log *zap.Logger) *OrderService {
	return &OrderService{orders: orders, metrics: m, log: log}
}

// Create validates and persists a new order for the merchant. The amount is
// an integer in the smallest currency unit and must be at least 100.
func (s *OrderService) Create(ctx context.Context, merchantID string, req *domain.CreateOrderRequest) (*domain.Order, error) {
	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 && fieldErrs[0].Field() == "Currency" {
			return nil, domain.ErrBadRequest("currency must be a 3-letter code")
		}
		return nil, domain.ErrBadRequest("amount must be at least 100")
	}
	if req.Amount < domain.MinOrderAmount {
		return nil, domain.ErrBadRequest("amount must be at least 100")
	}

	currency := req.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	now := time.Now()
	order := &domain.Order{
		MerchantID: merchantID,
		Amount:     req.Amount,
		Currency:   currency,
		Receipt:    req.Receipt,
		Notes:      req.Notes,
		Status:     domain.OrderCreated,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.insertWithFreshID(ctx, order); err != nil {
		return nil, err
	}

	s.metrics.OrderCreated()
	s.log.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("merchant_id", merchantID),
		zap.Int64("amount", order.Amount),
	)
	return order, nil
}

// insertWithFreshID assigns a generated id and inserts, regenerating on a
// primary-key conflict. The insert itself is the uniqueness check, so two
// concurrent requests can never both claim the same id.
func (s *OrderService) insertWithFreshID(ctx context.Context, order *domain.Order) error {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		order.ID = identifier.Generate("order_")
		err := s.orders.Insert(ctx, order)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrDuplicateID) {
			continue
		}
		return domain.ErrInternal("Failed to create order", err)
	}
	return domain.ErrInternal("Failed to create order", domain.ErrDuplicateID)
}

// GetByID returns a merchant's order. Orders belonging to other merchants
// are indistinguishable from missing ones.
func (s *OrderService) GetByID(ctx context.Context, orderID, merchantID string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, domain.ErrInternal("Failed to retrieve order", err)
	}
	if order == nil || order.MerchantID != merchantID {
		return nil, domain.ErrNotFound("Order not found")
	}
	return order, nil
}

// GetByIDPublic returns an order without an ownership check, for the
// checkout page.
func (s *OrderService) GetByIDPublic(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, domain.ErrInternal("Failed to retrieve order", err)
	}
	if order == nil {
		return nil, domain.ErrNotFound("Order not found")
	}
	return order, nil
}

// ListByMerchant returns the merchant's orders, newest first.
func (s *OrderService) ListByMerchant(ctx context.Context, merchantID string) ([]*domain.Order, error) {
	orders, err := s.orders.ListByMerchant(ctx, merchantID)
	if err != nil {
		return nil, domain.ErrInternal("Failed to retrieve orders", err)
	}
	return orders, nil
}
