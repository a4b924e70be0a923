package settlement

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StuckStore force-fails processing payments older than a cutoff.
type StuckStore interface {
	FailStuckBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper periodically resolves payments left in "processing" longer than
// the maximum settlement delay plus a grace period. In normal operation it
// finds nothing; after a crash it is what guarantees no payment stays
// non-terminal forever.
type Sweeper struct {
	payments StuckStore
	maxAge   time.Duration
	interval time.Duration
	log      *zap.Logger
}

// NewSweeper creates a sweeper that fails payments stuck for maxAge,
// checking every interval.
func NewSweeper(payments StuckStore, maxAge, interval time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{payments: payments, maxAge: maxAge, interval: interval, log: log}
}

// Start begins the sweep loop in a background goroutine. The loop stops
// when ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		s.sweep(ctx)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.maxAge)
	n, err := s.payments.FailStuckBefore(ctx, cutoff)
	if err != nil {
		s.log.Error("sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Warn("resolved stuck payments", zap.Int64("count", n))
	}
}
