package core

// export_limiter.go bounds how many plan exports render at once. When all
// slots are taken a request waits up to maxWait before failing with
// ErrExportBusy.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrExportBusy is returned when no export slot frees up in time.
var ErrExportBusy = errors.New("too many concurrent exports, please try again later")

const (
	DefaultMaxConcurrentExports = 8
	DefaultExportWait           = 5 * time.Second
)

// ExportLimiter is a semaphore over export rendering.
type ExportLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// NewExportLimiter allows at most maxConcurrent exports at a time.
func NewExportLimiter(maxConcurrent int, maxWait time.Duration) *ExportLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentExports
	}
	if maxWait <= 0 {
		maxWait = DefaultExportWait
	}
	return &ExportLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot. The caller must call Release when done.
func (l *ExportLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrExportBusy
	}
}

// Release frees a slot taken by Acquire.
func (l *ExportLimiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// Active returns the number of exports in progress.
func (l *ExportLimiter) Active() int {
	return int(l.active.Load())
}

// Available returns the number of free slots.
func (l *ExportLimiter) Available() int {
	return cap(l.slots) - len(l.slots)
}

// WaitForDrain blocks until no export is in progress or ctx is done. Used on
// shutdown.
func (l *ExportLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.Active() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
