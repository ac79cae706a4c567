// Package maintenance runs the periodic retention sweep that purges
// canceled reservations past their retention window.
package maintenance

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// Sweeper deletes canceled reservations older than Retention each
// Interval, and drops refresh-token rows that expired before the same
// cutoff. The sweep keeps the calendar honest over time without staff
// intervention; completed and no-show rows are history and are never
// touched.
type Sweeper struct {
	Reservations *repository.ReservationRepo
	Tokens       *repository.TokenRepo
	Interval     time.Duration
	Retention    time.Duration
}

// NewSweeper builds a Sweeper from config values. retentionDays <= 0
// disables the sweep entirely.
func NewSweeper(reservations *repository.ReservationRepo, tokens *repository.TokenRepo, interval time.Duration, retentionDays int) *Sweeper {
	return &Sweeper{
		Reservations: reservations,
		Tokens:       tokens,
		Interval:     interval,
		Retention:    time.Duration(retentionDays) * 24 * time.Hour,
	}
}

// Run blocks until ctx is done, sweeping once immediately and then on
// every tick. Intended to be started in its own goroutine.
func (s *Sweeper) Run(ctx context.Context) {
	if s.Retention <= 0 || s.Interval <= 0 {
		log.Printf("retention-sweep: disabled")
		return
	}
	s.sweep(ctx)
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	cctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	cutoff := time.Now().UTC().Add(-s.Retention)
	n, err := s.Reservations.DeleteCanceledBefore(cctx, cutoff)
	if err != nil {
		log.Printf("retention-sweep: purge failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("retention-sweep: purged %d canceled reservations older than %s", n, cutoff.Format(time.RFC3339))
	}
	if s.Tokens != nil {
		nt, err := s.Tokens.DeleteExpiredBefore(cctx, cutoff)
		if err != nil {
			log.Printf("retention-sweep: token purge failed: %v", err)
			return
		}
		if nt > 0 {
			log.Printf("retention-sweep: purged %d expired refresh tokens", nt)
		}
	}
}
