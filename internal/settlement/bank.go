package settlement

import (
	"math/rand/v2"
	"time"

	"github.com/payflow/gateway/internal/domain"
)

// Bank decides how long a settlement takes and whether it is approved.
// The engine is written against this interface so tests can plug in a
// fully deterministic implementation.
type Bank interface {
	Delay(method domain.PaymentMethod) time.Duration
	Approve(method domain.PaymentMethod) bool
}

// Config controls the simulated bank. In test mode the delay is fixed and
// the outcome forced; otherwise the delay is sampled uniformly from
// [MinDelay, MaxDelay] and the outcome is a Bernoulli trial with the
// method's success rate.
type Config struct {
	TestMode     bool
	FixedDelay   time.Duration
	ForceSuccess bool

	MinDelay        time.Duration
	MaxDelay        time.Duration
	UPISuccessRate  float64
	CardSuccessRate float64
}

// DefaultConfig mirrors the production defaults: 5-10s delays, 90% UPI and
// 95% card approval.
func DefaultConfig() Config {
	return Config{
		ForceSuccess:    true,
		FixedDelay:      time.Second,
		MinDelay:        5 * time.Second,
		MaxDelay:        10 * time.Second,
		UPISuccessRate:  0.90,
		CardSuccessRate: 0.95,
	}
}

// SimulatedBank is the stand-in for a real acquiring bank.
type SimulatedBank struct {
	cfg Config
}

// NewSimulatedBank creates a bank with the given timing/outcome config.
func NewSimulatedBank(cfg Config) *SimulatedBank {
	return &SimulatedBank{cfg: cfg}
}

// Delay returns the processing time for one settlement.
func (b *SimulatedBank) Delay(domain.PaymentMethod) time.Duration {
	if b.cfg.TestMode {
		return b.cfg.FixedDelay
	}
	span := b.cfg.MaxDelay - b.cfg.MinDelay
	if span <= 0 {
		return b.cfg.MinDelay
	}
	return b.cfg.MinDelay + time.Duration(rand.Int64N(int64(span)+1))
}

// Approve decides the settlement outcome for one payment.
func (b *SimulatedBank) Approve(method domain.PaymentMethod) bool {
	if b.cfg.TestMode {
		return b.cfg.ForceSuccess
	}
	rate := b.cfg.UPISuccessRate
	if method == domain.MethodCard {
		rate = b.cfg.CardSuccessRate
	}
	return rand.Float64() < rate
}
