package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payflow/gateway/internal/domain"
)

const paymentColumns = `id, order_id, merchant_id, amount, currency, method, status,
	vpa, card_network, card_last4, error_code, error_description, created_at, updated_at`

// PaymentRepository handles database operations for payments.
type PaymentRepository struct {
	db *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Insert persists a new payment row. A primary-key conflict surfaces as
// domain.ErrDuplicateID so the caller can regenerate the id and retry.
func (r *PaymentRepository) Insert(ctx context.Context, p *domain.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, merchant_id, amount, currency, method, status,
			vpa, card_network, card_last4, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.OrderID, p.MerchantID, p.Amount, p.Currency, p.Method, p.Status,
		p.VPA, p.CardNetwork, p.CardLast4, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateID
		}
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID, &p.OrderID, &p.MerchantID, &p.Amount, &p.Currency, &p.Method, &p.Status,
		&p.VPA, &p.CardNetwork, &p.CardLast4, &p.ErrorCode, &p.ErrorDescription,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}
	return &p, nil
}

// FindByID returns a payment by ID regardless of owner (public lookup).
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return scanPayment(r.db.QueryRow(ctx, query, id))
}

// FindByIDForMerchant returns a payment by ID scoped to its owning merchant.
func (r *PaymentRepository) FindByIDForMerchant(ctx context.Context, id, merchantID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 AND merchant_id = $2`
	return scanPayment(r.db.QueryRow(ctx, query, id, merchantID))
}

// ListByMerchant returns a merchant's payments, newest first.
func (r *PaymentRepository) ListByMerchant(ctx context.Context, merchantID string) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE merchant_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// SettleSuccess marks a payment successful and its order paid in one
// transaction, so a crash between the two writes cannot leave a successful
// payment against an unpaid order. Only a payment still processing can be
// settled: with both the engine and the sweeper writing terminal states,
// the status guard makes the first writer win and turns the loser's update
// into a no-op.
func (r *PaymentRepository) SettleSuccess(ctx context.Context, paymentID, orderID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin settlement transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE payments SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		domain.PaymentSuccess, paymentID, domain.PaymentProcessing,
	)
	if err != nil {
		return fmt.Errorf("failed to mark payment successful: %w", err)
	}
	// Another writer already resolved this payment; the order must not be
	// marked paid on top of a failed payment.
	if tag.RowsAffected() == 0 {
		return nil
	}

	if _, err := tx.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		domain.OrderPaid, orderID,
	); err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit settlement: %w", err)
	}
	return nil
}

// SettleFailure marks a payment failed with the given error code and
// description. Like SettleSuccess, it only moves a payment out of
// "processing"; a payment already terminal is left untouched.
func (r *PaymentRepository) SettleFailure(ctx context.Context, paymentID, code, description string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE payments SET status = $1, error_code = $2, error_description = $3, updated_at = NOW()
		 WHERE id = $4 AND status = $5`,
		domain.PaymentFailed, code, description, paymentID, domain.PaymentProcessing,
	)
	if err != nil {
		return fmt.Errorf("failed to mark payment failed: %w", err)
	}
	return nil
}

// FailStuckBefore force-fails payments still processing that were created
// before the cutoff. Used by the sweeper to resolve payments orphaned by a
// restart mid-settlement.
func (r *PaymentRepository) FailStuckBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE payments SET status = $1, error_code = $2, error_description = $3, updated_at = NOW()
		 WHERE status = $4 AND created_at < $5`,
		domain.PaymentFailed, domain.ErrCodeProcessing, domain.ErrDescProcessing,
		domain.PaymentProcessing, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to fail stuck payments: %w", err)
	}
	return tag.RowsAffected(), nil
}

// MerchantStats aggregates transaction counts and successful volume for a
// merchant. The success rate is a rounded percentage, zero when there are
// no payments at all.
func (r *PaymentRepository) MerchantStats(ctx context.Context, merchantID string) (*domain.MerchantStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'success' THEN amount ELSE 0 END), 0),
			COUNT(CASE WHEN status = 'success' THEN 1 END)
		FROM payments WHERE merchant_id = $1
	`
	var total, successful int
	var amount int64
	if err := r.db.QueryRow(ctx, query, merchantID).Scan(&total, &amount, &successful); err != nil {
		return nil, fmt.Errorf("failed to aggregate merchant stats: %w", err)
	}

	return &domain.MerchantStats{
		TotalTransactions: total,
		TotalAmount:       amount,
		SuccessRate:       domain.SuccessRate(successful, total),
	}, nil
}
