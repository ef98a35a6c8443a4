package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/classforge/enroll/internal/enroll/metrics"
	"github.com/classforge/enroll/internal/enroll/store"
)

// HousekeepingService periodically sweeps expired invitations across every
// organization so the invitations table does not grow without bound when
// admins never trigger a cleanup themselves.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// Now overrides the clock in tests. Defaults to time.Now in UTC.
	Now func() time.Time

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given
// interval. If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs the sweep.
// This is non-blocking and should be called after the database is ready.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress sweep.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

// run is the main background worker loop.
func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run a sweep immediately on startup
	s.Sweep(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Sweep removes every expired invitation regardless of organization. A
// failed sweep is logged and retried on the next tick; rows left behind are
// already invisible to the pending-gated operations.
func (s *HousekeepingService) Sweep(ctx context.Context) {
	removed, err := s.Store.Invitations().SweepExpired(ctx, s.now())
	if err != nil {
		s.Logger.Error("housekeeping sweep failed", "error", err)
		return
	}

	if removed > 0 {
		metrics.CleanupRemoved.Add(float64(removed))
	}
	s.Logger.Info("housekeeping sweep completed", "removed", removed)
}

func (s *HousekeepingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
