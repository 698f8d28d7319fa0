package service

import (
	"context"
	"time"

	ctxutil "github.com/photoshare/api/pkg/context"
	"github.com/photoshare/api/pkg/logger"
)

// Pruner is the housekeeping side of the blacklist.
type Pruner interface {
	Prune(ctx context.Context) (int64, error)
}

// Janitor runs Prune on a fixed interval until its context is cancelled.
type Janitor struct {
	pruner   Pruner
	interval time.Duration
}

// NewJanitor returns a janitor; an interval <= 0 disables it.
func NewJanitor(pruner Pruner, interval time.Duration) *Janitor {
	return &Janitor{pruner: pruner, interval: interval}
}

// Start blocks until ctx is done.
func (j *Janitor) Start(ctx context.Context) {
	ctx = ctxutil.WithOperation(ctx, "service", "Janitor.Start")
	if j.interval <= 0 {
		logger.InfoWithContext(ctx, "Blacklist janitor disabled").Log()
		return
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	logger.InfoWithContext(ctx, "Blacklist janitor started").
		String("interval", j.interval.String()).
		Log()

	for {
		select {
		case <-ctx.Done():
			logger.InfoWithContext(ctx, "Blacklist janitor stopped").Log()
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *Janitor) runOnce(ctx context.Context) {
	if _, err := j.pruner.Prune(ctx); err != nil {
		logger.ErrorWithContext(ctx, "Blacklist prune failed").
			Err(err).
			Log()
	}
}
