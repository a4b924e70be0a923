package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payflow/gateway/internal/domain"
)

// Test merchant seeded on first startup, used by the dashboard and the
// integration test-bed.
const (
	TestMerchantID     = "550e8400-e29b-41d4-a716-446655440000"
	TestMerchantEmail  = "test@example.com"
	TestMerchantKey    = "key_test_abc123"
	TestMerchantSecret = "secret_test_xyz789"
)

const merchantColumns = `id, name, email, api_key, api_secret, webhook_url, is_active, created_at, updated_at`

// MerchantRepository handles database operations for merchants.
type MerchantRepository struct {
	db *pgxpool.Pool
}

// NewMerchantRepository creates a new MerchantRepository.
func NewMerchantRepository(db *pgxpool.Pool) *MerchantRepository {
	return &MerchantRepository{db: db}
}

func scanMerchant(row pgx.Row) (*domain.Merchant, error) {
	var m domain.Merchant
	err := row.Scan(
		&m.ID, &m.Name, &m.Email, &m.APIKey, &m.APISecret,
		&m.WebhookURL, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan merchant: %w", err)
	}
	return &m, nil
}

// FindByEmail returns a merchant by email address.
func (r *MerchantRepository) FindByEmail(ctx context.Context, email string) (*domain.Merchant, error) {
	query := `SELECT ` + merchantColumns + ` FROM merchants WHERE email = $1`
	return scanMerchant(r.db.QueryRow(ctx, query, email))
}

// FindByID returns a merchant by ID.
func (r *MerchantRepository) FindByID(ctx context.Context, id string) (*domain.Merchant, error) {
	query := `SELECT ` + merchantColumns + ` FROM merchants WHERE id = $1`
	return scanMerchant(r.db.QueryRow(ctx, query, id))
}

// FindByCredentials returns the merchant matching an api_key/api_secret
// pair, or nil when the pair is unknown.
func (r *MerchantRepository) FindByCredentials(ctx context.Context, apiKey, apiSecret string) (*domain.Merchant, error) {
	query := `SELECT ` + merchantColumns + ` FROM merchants WHERE api_key = $1 AND api_secret = $2`
	return scanMerchant(r.db.QueryRow(ctx, query, apiKey, apiSecret))
}

// SeedTestMerchant inserts the well-known test merchant if it is absent.
func (r *MerchantRepository) SeedTestMerchant(ctx context.Context) error {
	query := `
		INSERT INTO merchants (id, name, email, api_key, api_secret)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query,
		TestMerchantID, "Test Merchant", TestMerchantEmail, TestMerchantKey, TestMerchantSecret,
	)
	if err != nil {
		return fmt.Errorf("failed to seed test merchant: %w", err)
	}
	return nil
}
