package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/payflow/gateway/internal/domain"
	"go.uber.org/zap"
)

const tokenTTL = 24 * time.Hour

// MerchantStore is the slice of the persistence layer the merchant service
// uses.
type MerchantStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.Merchant, error)
	FindByID(ctx context.Context, id string) (*domain.Merchant, error)
	FindByCredentials(ctx context.Context, apiKey, apiSecret string) (*domain.Merchant, error)
}

// MerchantService implements dashboard login and the two credential checks
// the auth middleware relies on.
type MerchantService struct {
	merchants MerchantStore
	jwtSecret []byte
	log       *zap.Logger
}

// NewMerchantService creates a MerchantService.
func NewMerchantService(merchants MerchantStore, jwtSecret string, log *zap.Logger) *MerchantService {
	return &MerchantService{merchants: merchants, jwtSecret: []byte(jwtSecret), log: log}
}

// Login authenticates a merchant by email and returns their API credentials
// along with a session token for the dashboard.
func (s *MerchantService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	if req.Email == "" {
		return nil, domain.ErrBadRequest("Email is required")
	}

	merchant, err := s.merchants.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, domain.ErrInternal("Failed to log in", err)
	}
	if merchant == nil {
		return nil, domain.ErrAuthentication("Invalid credentials")
	}
	if !merchant.IsActive {
		return nil, domain.ErrAuthentication("Merchant account is inactive")
	}

	token, err := s.issueToken(merchant)
	if err != nil {
		return nil, domain.ErrInternal("Failed to log in", err)
	}

	s.log.Info("merchant logged in", zap.String("merchant_id", merchant.ID))
	return &domain.LoginResponse{
		ID:        merchant.ID,
		Name:      merchant.Name,
		Email:     merchant.Email,
		APIKey:    merchant.APIKey,
		APISecret: merchant.APISecret,
		Token:     token,
	}, nil
}

// VerifyCredentials resolves an API key/secret pair to an active merchant.
func (s *MerchantService) VerifyCredentials(ctx context.Context, apiKey, apiSecret string) (*domain.Merchant, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, domain.ErrAuthentication("Invalid API credentials")
	}
	merchant, err := s.merchants.FindByCredentials(ctx, apiKey, apiSecret)
	if err != nil {
		return nil, domain.ErrInternal("Failed to authenticate", err)
	}
	if merchant == nil {
		return nil, domain.ErrAuthentication("Invalid API credentials")
	}
	if !merchant.IsActive {
		return nil, domain.ErrAuthentication("Merchant account is inactive")
	}
	return merchant, nil
}

// VerifyToken resolves a dashboard session token to an active merchant.
func (s *MerchantService) VerifyToken(ctx context.Context, tokenString string) (*domain.Merchant, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, domain.ErrAuthentication("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrAuthentication("Invalid or expired token")
	}
	merchantID, err := claims.GetSubject()
	if err != nil || merchantID == "" {
		return nil, domain.ErrAuthentication("Invalid or expired token")
	}

	merchant, lookupErr := s.merchants.FindByID(ctx, merchantID)
	if lookupErr != nil {
		return nil, domain.ErrInternal("Failed to authenticate", lookupErr)
	}
	if merchant == nil || !merchant.IsActive {
		return nil, domain.ErrAuthentication("Invalid or expired token")
	}
	return merchant, nil
}

// GetByID returns a merchant by id, active or not.
func (s *MerchantService) GetByID(ctx context.Context, id string) (*domain.Merchant, error) {
	merchant, err := s.merchants.FindByID(ctx, id)
	if err != nil {
		return nil, domain.ErrInternal("Failed to retrieve merchant", err)
	}
	if merchant == nil {
		return nil, domain.ErrNotFound("Merchant not found")
	}
	return merchant, nil
}

func (s *MerchantService) issueToken(m *domain.Merchant) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   m.ID,
		"email": m.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
	})
	return token.SignedString(s.jwtSecret)
}
