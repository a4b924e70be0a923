package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payflow/gateway/internal/domain"
)

// uniqueViolation is the SQLSTATE raised when an insert hits a unique
// constraint (the generated-id collision path).
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

const orderColumns = `id, merchant_id, amount, currency, receipt, notes, status, created_at, updated_at`

// OrderRepository handles database operations for orders.
type OrderRepository struct {
	db *pgxpool.Pool
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

// Insert persists a new order. The insert itself enforces id uniqueness:
// a primary-key conflict surfaces as domain.ErrDuplicateID so the caller
// can regenerate and retry without a check-then-insert race.
func (r *OrderRepository) Insert(ctx context.Context, o *domain.Order) error {
	var notes any
	if o.Notes != nil {
		raw, err := json.Marshal(o.Notes)
		if err != nil {
			return fmt.Errorf("failed to encode order notes: %w", err)
		}
		notes = raw
	}

	query := `
		INSERT INTO orders (id, merchant_id, amount, currency, receipt, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		o.ID, o.MerchantID, o.Amount, o.Currency, o.Receipt, notes,
		o.Status, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateID
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var notes []byte
	err := row.Scan(
		&o.ID, &o.MerchantID, &o.Amount, &o.Currency, &o.Receipt, &notes,
		&o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	if len(notes) > 0 {
		if err := json.Unmarshal(notes, &o.Notes); err != nil {
			return nil, fmt.Errorf("failed to decode order notes: %w", err)
		}
	}
	return &o, nil
}

// FindByID returns an order by ID, or nil when it does not exist.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(r.db.QueryRow(ctx, query, id))
}

// ListByMerchant returns a merchant's orders, newest first.
func (r *OrderRepository) ListByMerchant(ctx context.Context, merchantID string) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE merchant_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
