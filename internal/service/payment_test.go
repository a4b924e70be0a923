package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/payflow/gateway/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type paymentFixture struct {
	svc      *PaymentService
	orders   *fakeOrderStore
	payments *fakePaymentStore
	settler  *fakeSettler
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		orders:   newFakeOrderStore(),
		payments: newFakePaymentStore(),
		settler:  &fakeSettler{},
	}
	f.svc = NewPaymentService(f.payments, f.orders, f.settler, nil, zap.NewNop())
	return f
}

func (f *paymentFixture) seedOrder(status domain.OrderStatus) *domain.Order {
	o := &domain.Order{
		ID:         "order_test1234567890",
		MerchantID: "m_1",
		Amount:     25000,
		Currency:   "INR",
		Status:     status,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	f.orders.put(o)
	return o
}

func TestCreateUPIPayment(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(domain.OrderCreated)

	payment, err := f.svc.Create(context.Background(), "m_1", &domain.CreatePaymentRequest{
		OrderID: order.ID,
		Method:  "upi",
		VPA:     "alice@okhdfc",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(payment.ID, "pay_"))
	assert.Equal(t, domain.PaymentProcessing, payment.Status)
	assert.Equal(t, order.Amount, payment.Amount, "amount copied from the order")
	assert.Equal(t, order.Currency, payment.Currency)
	require.NotNil(t, payment.VPA)
	assert.Equal(t, "alice@okhdfc", *payment.VPA)
	assert.Nil(t, payment.CardNetwork)

	require.Len(t, f.settler.submissions, 1)
	assert.Equal(t, payment.ID, f.settler.submissions[0].paymentID)
	assert.Equal(t, order.ID, f.settler.submissions[0].orderID)
	assert.Equal(t, domain.MethodUPI, f.settler.submissions[0].method)
}

func TestCreateCardPayment(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(domain.OrderCreated)

	payment, err := f.svc.Create(context.Background(), "m_1", &domain.CreatePaymentRequest{
		OrderID: order.ID,
		Method:  "card",
		Card: &domain.CardRequest{
			Number:      "4111 1111 1111 1111",
			ExpiryMonth: "12",
			ExpiryYear:  "2031",
			CVV:         "123",
			HolderName:  "Alice Kumar",
		},
	})
	require.NoError(t, err)

	require.NotNil(t, payment.CardNetwork)
	assert.Equal(t, "visa", *payment.CardNetwork)
	require.NotNil(t, payment.CardLast4)
	assert.Equal(t, "1111", *payment.CardLast4)
	assert.Nil(t, payment.VPA)
	require.Len(t, f.settler.submissions, 1)
}

func TestCreatePaymentRejectsPaidOrder(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(domain.OrderPaid)

	_, err := f.svc.Create(context.Background(), "m_1", &domain.CreatePaymentRequest{
		OrderID: order.ID,
		Method:  "upi",
		VPA:     "alice@okhdfc",
	})
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Order has already been paid", appErr.Description)
	assert.Empty(t, f.settler.submissions)
}

func TestCreatePaymentRejectsUnknownMethod(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(domain.OrderCreated)

	_, err := f.svc.Create(context.Background(), "m_1", &domain.CreatePaymentRequest{
		OrderID: order.ID,
		Method:  "netbanking",
	})
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeBadRequest, appErr.Code)
}

func TestCreatePaymentInvalidVPA(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(domain.OrderCreated)

	_, err := f.svc.Create(context.Background(), "m_1", &domain.CreatePaymentRequest{
		OrderID: order.ID,
		Method:  "upi",
		VPA:     "not a vpa",
	})
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, domain.CodeInvalidVPA, appErr.Code)
	assert.Empty(t, f.settler.submissions, "invalid payments never reach settlement")
}

func TestCreatePaymentExpiredCard(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(domain.OrderCreated)

	_, err := f.svc.Create(context.Background(), "m_1", &domain.CreatePaymentRequest{
		OrderID: order.ID,
		Method:  "card",
		Card: &domain.CardRequest{
			Number:      "4111111111111111",
			ExpiryMonth: "01",
			ExpiryYear:  "2020",
			CVV:         "123",
			HolderName:  "Alice Kumar",
		},
	})
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeExpiredCard, appErr.Code)
}

func TestCreatePaymentMissingCardDetails(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(domain.OrderCreated)

	_, err := f.svc.Create(context.Background(), "m_1", &domain.CreatePaymentRequest{
		OrderID: order.ID,
		Method:  "card",
	})
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeInvalidCard, appErr.Code)
	assert.Equal(t, "Card details are required", appErr.Description)
}

func TestCreatePaymentOrderOwnership(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(domain.OrderCreated)

	_, err := f.svc.Create(context.Background(), "m_other", &domain.CreatePaymentRequest{
		OrderID: order.ID,
		Method:  "upi",
		VPA:     "alice@okhdfc",
	})
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
}

func TestCreatePaymentPublicUsesOrderMerchant(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(domain.OrderCreated)

	payment, err := f.svc.CreatePublic(context.Background(), &domain.CreatePaymentRequest{
		OrderID: order.ID,
		Method:  "upi",
		VPA:     "alice@okhdfc",
	})
	require.NoError(t, err)
	assert.Equal(t, "m_1", payment.MerchantID)
}

func TestCreatePaymentUnknownOrder(t *testing.T) {
	f := newPaymentFixture()

	_, err := f.svc.CreatePublic(context.Background(), &domain.CreatePaymentRequest{
		OrderID: "order_missing",
		Method:  "upi",
		VPA:     "alice@okhdfc",
	})
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "Order not found", appErr.Description)
}

func TestCreatePaymentRetriesOnDuplicateID(t *testing.T) {
	f := newPaymentFixture()
	order := f.seedOrder(domain.OrderCreated)
	f.payments.dupRemaining = 1

	payment, err := f.svc.Create(context.Background(), "m_1", &domain.CreatePaymentRequest{
		OrderID: order.ID,
		Method:  "upi",
		VPA:     "alice@okhdfc",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, payment.ID)
}

func TestGetPaymentScopedToMerchant(t *testing.T) {
	f := newPaymentFixture()
	f.payments.payments["pay_x"] = &domain.Payment{ID: "pay_x", MerchantID: "m_1", Status: domain.PaymentProcessing}
	f.svc = NewPaymentService(f.payments, f.orders, f.settler, nil, zap.NewNop())

	payment, err := f.svc.GetByID(context.Background(), "pay_x", "m_1")
	require.NoError(t, err)
	assert.Equal(t, "pay_x", payment.ID)

	_, err = f.svc.GetByID(context.Background(), "pay_x", "m_2")
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "Payment not found", appErr.Description)
}

func TestStats(t *testing.T) {
	f := newPaymentFixture()
	f.payments.stats = &domain.MerchantStats{TotalTransactions: 10, TotalAmount: 120000, SuccessRate: 90}

	stats, err := f.svc.Stats(context.Background(), "m_1")
	require.NoError(t, err)
	assert.Equal(t, 10, stats.TotalTransactions)
	assert.Equal(t, int64(120000), stats.TotalAmount)
	assert.Equal(t, 90, stats.SuccessRate)
}
