package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// maxSweepRounds bounds how many full batches one tick may clear.
const maxSweepRounds = 10

// TrackingFacade exposes the subset of application functionality required by the sweeper.
type TrackingFacade interface {
	SweepExpiredTracking(ctx context.Context, retention time.Duration, limit int) (int, error)
}

// TrackingSweeper periodically removes tracking tokens that expired long ago.
type TrackingSweeper struct {
	facade    TrackingFacade
	interval  time.Duration
	retention time.Duration
	batchSize int
	logger    *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewTrackingSweeper constructs the sweeper.
func NewTrackingSweeper(facade TrackingFacade, interval, retention time.Duration, batchSize int, logger *slog.Logger) *TrackingSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if retention < 0 {
		retention = 0
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &TrackingSweeper{
		facade:    facade,
		interval:  interval,
		retention: retention,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Start launches background sweeping.
func (s *TrackingSweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(runCtx)
}

// Stop waits for the running sweep to finish.
func (s *TrackingSweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *TrackingSweeper) loop(ctx context.Context) {
	defer s.wg.Done()
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
}

func (s *TrackingSweeper) sweep(ctx context.Context) {
	total := 0
	for round := 0; round < maxSweepRounds; round++ {
		if ctx.Err() != nil {
			return
		}
		cleared, err := s.facade.SweepExpiredTracking(ctx, s.retention, s.batchSize)
		if err != nil {
			s.logger.Error("sweep expired tracking tokens failed", slog.String("error", err.Error()))
			return
		}
		total += cleared
		if cleared < s.batchSize {
			break
		}
	}
	if total > 0 {
		s.logger.Info("expired tracking tokens cleared", slog.Int("count", total))
	}
}
