package service

import (
	"context"
	"sync"

	"github.com/payflow/gateway/internal/domain"
)

// In-memory stores backing the service tests.

type fakeOrderStore struct {
	mu           sync.Mutex
	orders       map[string]*domain.Order
	insertErr    error
	dupRemaining int // Insert returns ErrDuplicateID this many times first
	inserts      int
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[string]*domain.Order)}
}

func (s *fakeOrderStore) Insert(_ context.Context, o *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	if s.insertErr != nil {
		return s.insertErr
	}
	if s.dupRemaining > 0 {
		s.dupRemaining--
		return domain.ErrDuplicateID
	}
	cp := *o
	s.orders[o.ID] = &cp
	return nil
}

func (s *fakeOrderStore) FindByID(_ context.Context, id string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (s *fakeOrderStore) ListByMerchant(_ context.Context, merchantID string) ([]*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Order
	for _, o := range s.orders {
		if o.MerchantID == merchantID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) put(o *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
}

type fakePaymentStore struct {
	mu           sync.Mutex
	payments     map[string]*domain.Payment
	dupRemaining int
	stats        *domain.MerchantStats
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{payments: make(map[string]*domain.Payment)}
}

func (s *fakePaymentStore) Insert(_ context.Context, p *domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dupRemaining > 0 {
		s.dupRemaining--
		return domain.ErrDuplicateID
	}
	cp := *p
	s.payments[p.ID] = &cp
	return nil
}

func (s *fakePaymentStore) FindByID(_ context.Context, id string) (*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *fakePaymentStore) FindByIDForMerchant(_ context.Context, id, merchantID string) (*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok || p.MerchantID != merchantID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *fakePaymentStore) ListByMerchant(_ context.Context, merchantID string) ([]*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Payment
	for _, p := range s.payments {
		if p.MerchantID == merchantID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakePaymentStore) MerchantStats(_ context.Context, _ string) (*domain.MerchantStats, error) {
	if s.stats != nil {
		return s.stats, nil
	}
	return &domain.MerchantStats{}, nil
}

type submission struct {
	paymentID string
	orderID   string
	method    domain.PaymentMethod
}

type fakeSettler struct {
	mu          sync.Mutex
	submissions []submission
}

func (s *fakeSettler) Submit(paymentID, orderID string, method domain.PaymentMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, submission{paymentID, orderID, method})
}

type fakeMerchantStore struct {
	merchants []*domain.Merchant
}

func (s *fakeMerchantStore) FindByEmail(_ context.Context, email string) (*domain.Merchant, error) {
	for _, m := range s.merchants {
		if m.Email == email {
			return m, nil
		}
	}
	return nil, nil
}

func (s *fakeMerchantStore) FindByID(_ context.Context, id string) (*domain.Merchant, error) {
	for _, m := range s.merchants {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (s *fakeMerchantStore) FindByCredentials(_ context.Context, apiKey, apiSecret string) (*domain.Merchant, error) {
	for _, m := range s.merchants {
		if m.APIKey == apiKey && m.APISecret == apiSecret {
			return m, nil
		}
	}
	return nil, nil
}
