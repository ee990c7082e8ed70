package jobs

import (
	"context"
	"sync"
	"time"

	"escrow-broker.backend/pkg/logger"
	"go.uber.org/zap"
)

const expiryBatchSize = 100

type escrowExpirer interface {
	ExpireOverdue(ctx context.Context, limit int) (int, error)
}

// EscrowExpiryJob cancels escrows whose confirmation deadline passed
type EscrowExpiryJob struct {
	expirer  escrowExpirer
	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

func NewEscrowExpiryJob(expirer escrowExpirer, interval time.Duration) *EscrowExpiryJob {
	if interval <= 0 {
		interval = time.Minute
	}
	return &EscrowExpiryJob{
		expirer:  expirer,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (j *EscrowExpiryJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting escrow expiry job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Escrow expiry job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Escrow expiry job stopped")
			return
		case <-ticker.C:
			j.expireOverdue(ctx)
		}
	}
}

func (j *EscrowExpiryJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

func (j *EscrowExpiryJob) expireOverdue(ctx context.Context) {
	n, err := j.expirer.ExpireOverdue(ctx, expiryBatchSize)
	if err != nil {
		logger.Error(ctx, "Error expiring overdue escrows", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info(ctx, "Expired overdue escrows", zap.Int("count", n))
	}
}
