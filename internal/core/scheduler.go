package core

// scheduler.go runs the periodic reference reload. A failed reload is
// logged and the previous table stays published; the loop keeps going.

import (
	"context"
	"log/slog"
	"time"
)

// StartReloadScheduler reloads the reference table every interval until ctx
// is cancelled. It returns immediately when interval is not positive. Run it
// in its own goroutine.
func (s *Service) StartReloadScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		slog.Debug("reload scheduler disabled")
		return
	}

	slog.Info("reload scheduler started", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("reload scheduler stopped")
			return
		case <-ticker.C:
			s.runReloadJob(ctx)
		}
	}
}

// runReloadJob performs one reload cycle.
func (s *Service) runReloadJob(ctx context.Context) {
	start := time.Now()
	t, err := s.Reload(ctx)
	if err != nil {
		slog.Warn("scheduled reload failed",
			"error", err,
			"code", MapError(err).Code,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return
	}
	slog.Debug("scheduled reload completed",
		"version", t.Version,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
