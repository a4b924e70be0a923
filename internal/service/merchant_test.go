package service

import (
	"context"
	"testing"

	"github.com/payflow/gateway/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testJWTSecret = "unit-test-secret"

func newMerchantFixture(merchants ...*domain.Merchant) *MerchantService {
	return NewMerchantService(&fakeMerchantStore{merchants: merchants}, testJWTSecret, zap.NewNop())
}

func activeMerchant() *domain.Merchant {
	return &domain.Merchant{
		ID:        "m_1",
		Name:      "Test Merchant",
		Email:     "test@example.com",
		APIKey:    "key_abc",
		APISecret: "secret_xyz",
		IsActive:  true,
	}
}

func TestLoginReturnsCredentialsAndToken(t *testing.T) {
	svc := newMerchantFixture(activeMerchant())

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{Email: "test@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "m_1", resp.ID)
	assert.Equal(t, "key_abc", resp.APIKey)
	assert.Equal(t, "secret_xyz", resp.APISecret)
	assert.NotEmpty(t, resp.Token)

	// The issued token must round-trip through verification.
	merchant, err := svc.VerifyToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "m_1", merchant.ID)
}

func TestLoginRequiresEmail(t *testing.T) {
	svc := newMerchantFixture(activeMerchant())

	_, err := svc.Login(context.Background(), &domain.LoginRequest{})
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Email is required", appErr.Description)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newMerchantFixture(activeMerchant())

	_, err := svc.Login(context.Background(), &domain.LoginRequest{Email: "nobody@example.com"})
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.Status)
	assert.Equal(t, domain.CodeAuthentication, appErr.Code)
}

func TestLoginInactiveMerchant(t *testing.T) {
	m := activeMerchant()
	m.IsActive = false
	svc := newMerchantFixture(m)

	_, err := svc.Login(context.Background(), &domain.LoginRequest{Email: m.Email})
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.Status)
	assert.Equal(t, "Merchant account is inactive", appErr.Description)
}

func TestVerifyCredentials(t *testing.T) {
	svc := newMerchantFixture(activeMerchant())

	merchant, err := svc.VerifyCredentials(context.Background(), "key_abc", "secret_xyz")
	require.NoError(t, err)
	assert.Equal(t, "m_1", merchant.ID)

	tests := []struct {
		name   string
		key    string
		secret string
	}{
		{"wrong secret", "key_abc", "nope"},
		{"wrong key", "nope", "secret_xyz"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.VerifyCredentials(context.Background(), tt.key, tt.secret)
			appErr, ok := domain.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, 401, appErr.Status)
			assert.Equal(t, "Invalid API credentials", appErr.Description)
		})
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc := newMerchantFixture(activeMerchant())

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.VerifyToken(context.Background(), token)
		appErr, ok := domain.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 401, appErr.Status)
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	issuer := newMerchantFixture(activeMerchant())
	resp, err := issuer.Login(context.Background(), &domain.LoginRequest{Email: "test@example.com"})
	require.NoError(t, err)

	verifier := NewMerchantService(&fakeMerchantStore{merchants: []*domain.Merchant{activeMerchant()}}, "other-secret", zap.NewNop())
	_, err = verifier.VerifyToken(context.Background(), resp.Token)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.Status)
}
