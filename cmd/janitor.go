package cmd

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const JanitorInterval = time.Hour

// SessionCleaner removes sessions that expired or were revoked long ago.
type SessionCleaner interface {
	CleanExpiredSessions(ctx context.Context) (int64, error)
}

// SessionJanitor runs the cleaner every interval until ctx is done.
func SessionJanitor(ctx context.Context, cleaner SessionCleaner, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep(ctx, cleaner, logger)
		}
	}
}

func sweep(ctx context.Context, cleaner SessionCleaner, logger *zap.Logger) {
	runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	n, err := cleaner.CleanExpiredSessions(runCtx)
	if err != nil {
		logger.Warn("Session cleanup failed", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info("Cleaned expired sessions", zap.Int64("count", n))
	}
}
