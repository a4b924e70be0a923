package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/payflow/gateway/internal/contextkeys"
	"github.com/payflow/gateway/internal/domain"
	"github.com/payflow/gateway/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticMerchants struct {
	merchant *domain.Merchant
}

func (s *staticMerchants) FindByEmail(_ context.Context, email string) (*domain.Merchant, error) {
	if s.merchant != nil && s.merchant.Email == email {
		return s.merchant, nil
	}
	return nil, nil
}

func (s *staticMerchants) FindByID(_ context.Context, id string) (*domain.Merchant, error) {
	if s.merchant != nil && s.merchant.ID == id {
		return s.merchant, nil
	}
	return nil, nil
}

func (s *staticMerchants) FindByCredentials(_ context.Context, apiKey, apiSecret string) (*domain.Merchant, error) {
	if s.merchant != nil && s.merchant.APIKey == apiKey && s.merchant.APISecret == apiSecret {
		return s.merchant, nil
	}
	return nil, nil
}

func authFixture(t *testing.T) (*service.MerchantService, http.Handler, *string) {
	t.Helper()
	merchants := service.NewMerchantService(&staticMerchants{merchant: &domain.Merchant{
		ID:        "m_1",
		Email:     "test@example.com",
		APIKey:    "key_abc",
		APISecret: "secret_xyz",
		IsActive:  true,
	}}, "test-secret", zap.NewNop())

	var seenMerchant string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := contextkeys.MerchantID(r.Context())
		seenMerchant = id
		w.WriteHeader(http.StatusOK)
	})
	return merchants, Auth(merchants)(next), &seenMerchant
}

func TestAuthWithAPICredentials(t *testing.T) {
	_, h, seen := authFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("X-Api-Key", "key_abc")
	req.Header.Set("X-Api-Secret", "secret_xyz")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "m_1", *seen)
}

func TestAuthRejectsWrongCredentials(t *testing.T) {
	_, h, _ := authFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("X-Api-Key", "key_abc")
	req.Header.Set("X-Api-Secret", "wrong")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body struct {
		Error struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.CodeAuthentication, body.Error.Code)
	assert.Equal(t, "Invalid API credentials", body.Error.Description)
}

func TestAuthWithBearerToken(t *testing.T) {
	merchants, h, seen := authFixture(t)

	resp, err := merchants.Login(context.Background(), &domain.LoginRequest{Email: "test@example.com"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "m_1", *seen)
}

func TestAuthRejectsMissingCredentials(t *testing.T) {
	_, h, _ := authFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSandboxGate(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/test/merchant", nil)

	rec := httptest.NewRecorder()
	Sandbox(true)(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	Sandbox(false)(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
