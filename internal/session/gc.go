package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ExpiredDeleter removes sessions that are past their expiry.
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// GarbageCollector periodically deletes expired sessions.
type GarbageCollector struct {
	deleter  ExpiredDeleter
	interval time.Duration
	log      *zap.Logger
}

func NewGarbageCollector(deleter ExpiredDeleter, interval time.Duration, log *zap.Logger) *GarbageCollector {
	return &GarbageCollector{
		deleter:  deleter,
		interval: interval,
		log:      log,
	}
}

// Start runs the GC loop until ctx is cancelled.
func (gc *GarbageCollector) Start(ctx context.Context) error {
	ticker := time.NewTicker(gc.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := gc.Collect(ctx); err != nil {
				gc.log.Error("session_gc_failed", zap.Error(err))
			}
		}
	}
}

// Collect runs one pass and returns the number of deleted sessions.
func (gc *GarbageCollector) Collect(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	n, err := gc.deleter.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("session purge: %w", err)
	}
	if n > 0 {
		gc.log.Info("session_gc_purged", zap.Int64("count", n))
	}
	return n, nil
}
