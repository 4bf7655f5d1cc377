package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/taherahmed/portfolio-api/internal/shared"
)

// StartTTLWorker runs a background goroutine that periodically sweeps the
// store for sessions idle longer than ttl. It closes the unbounded-growth
// gap of the original session map: one record per distinct session ID would
// otherwise accumulate for the life of the process.
func StartTTLWorker(ctx context.Context, store Store, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Session TTL worker started", "interval", interval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				sweepExpiredSessions(ctx, store, ttl)
			case <-ctx.Done():
				slog.Info("Session TTL worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func sweepExpiredSessions(ctx context.Context, store Store, ttl time.Duration) {
	removed, err := deleteExpiredWithRetry(ctx, store, ttl)
	if err != nil {
		slog.Error("Session TTL sweep failed", "error", err)
		return
	}
	if removed > 0 {
		slog.Info("Session TTL sweep completed", "removed", removed)
	}
}

// deleteExpiredWithRetry retries the sweep with exponential backoff when the
// SQLite store reports SQLITE_BUSY (a chat turn holding the write lock).
func deleteExpiredWithRetry(ctx context.Context, store Store, ttl time.Duration) (int64, error) {
	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	var removed int64
	var err error
	for i := 0; i < maxRetries; i++ {
		removed, err = store.DeleteExpired(ctx, ttl)
		if err == nil {
			return removed, nil
		}
		if !shared.IsSQLiteBusyError(err) || i == maxRetries-1 {
			break
		}
		delay := baseDelay * time.Duration(1<<i)
		slog.Debug("Session sweep hit SQLITE_BUSY, retrying", "attempt", i+1, "delay", delay)
		time.Sleep(delay)
	}
	return removed, err
}
