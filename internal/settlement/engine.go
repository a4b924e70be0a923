// Package settlement runs the asynchronous bank-processing simulation that
// resolves every payment from "processing" to a terminal state.
package settlement

import (
	"context"
	"sync"
	"time"

	"github.com/payflow/gateway/internal/domain"
	"github.com/payflow/gateway/internal/metrics"
	"go.uber.org/zap"
)

// PaymentStore is the slice of the persistence layer the engine writes to.
type PaymentStore interface {
	// SettleSuccess marks the payment successful and its order paid.
	SettleSuccess(ctx context.Context, paymentID, orderID string) error
	// SettleFailure marks the payment failed with an error code/description.
	SettleFailure(ctx context.Context, paymentID, code, description string) error
}

// Engine settles payments in the background. Submit returns immediately;
// each settlement runs in its own goroutine, sleeps for the bank's delay,
// and persists a terminal status. Tasks are never cancelled once started;
// Drain lets shutdown (and tests) wait for in-flight settlements.
type Engine struct {
	bank     Bank
	payments PaymentStore
	log      *zap.Logger
	metrics  *metrics.Metrics
	wg       sync.WaitGroup
}

// NewEngine creates a settlement engine.
func NewEngine(bank Bank, payments PaymentStore, log *zap.Logger, m *metrics.Metrics) *Engine {
	return &Engine{bank: bank, payments: payments, log: log, metrics: m}
}

// Submit schedules the settlement of a freshly created payment. The caller
// receives no synchronous signal; clients observe the outcome by reading
// the payment back.
func (e *Engine) Submit(paymentID, orderID string, method domain.PaymentMethod) {
	e.wg.Add(1)
	go e.settle(paymentID, orderID, method)
}

// Drain blocks until every submitted settlement has finished.
func (e *Engine) Drain() {
	e.wg.Wait()
}

func (e *Engine) settle(paymentID, orderID string, method domain.PaymentMethod) {
	defer e.wg.Done()

	// Settlements always run to completion, even during shutdown, so the
	// request context is deliberately not inherited here.
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			e.log.Error("settlement panicked",
				zap.String("payment_id", paymentID),
				zap.Any("panic", r),
			)
			e.fail(ctx, paymentID, method, domain.ErrCodeProcessing, domain.ErrDescProcessing)
		}
	}()

	delay := e.bank.Delay(method)
	e.log.Debug("settlement scheduled",
		zap.String("payment_id", paymentID),
		zap.String("order_id", orderID),
		zap.Duration("delay", delay),
	)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	<-timer.C

	if !e.bank.Approve(method) {
		code, desc := failureFor(method)
		e.fail(ctx, paymentID, method, code, desc)
		return
	}

	if err := e.payments.SettleSuccess(ctx, paymentID, orderID); err != nil {
		e.log.Error("settlement write failed",
			zap.String("payment_id", paymentID),
			zap.Error(err),
		)
		// A fault must still resolve the payment to a terminal state.
		e.fail(ctx, paymentID, method, domain.ErrCodeProcessing, domain.ErrDescProcessing)
		return
	}

	e.metrics.PaymentSettled(string(method), string(domain.PaymentSuccess))
	e.log.Info("payment settled",
		zap.String("payment_id", paymentID),
		zap.String("order_id", orderID),
		zap.String("status", string(domain.PaymentSuccess)),
	)
}

func (e *Engine) fail(ctx context.Context, paymentID string, method domain.PaymentMethod, code, desc string) {
	if err := e.payments.SettleFailure(ctx, paymentID, code, desc); err != nil {
		// Nothing left to do but log; the sweeper will pick the payment up.
		e.log.Error("failed to record settlement failure",
			zap.String("payment_id", paymentID),
			zap.Error(err),
		)
		return
	}
	e.metrics.PaymentSettled(string(method), string(domain.PaymentFailed))
	e.log.Info("payment settled",
		zap.String("payment_id", paymentID),
		zap.String("status", string(domain.PaymentFailed)),
		zap.String("error_code", code),
	)
}

func failureFor(method domain.PaymentMethod) (code, desc string) {
	if method == domain.MethodUPI {
		return domain.ErrCodeUPIFailed, domain.ErrDescUPIFailed
	}
	return domain.ErrCodeCardFailed, domain.ErrDescCardFailed
}
