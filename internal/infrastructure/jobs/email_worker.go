package jobs

import (
	"context"
	"sync"

	"escrow-broker.backend/pkg/logger"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type taskServer interface {
	Start(handler asynq.Handler) error
	Shutdown()
}

// EmailWorker runs the asynq server that processes queued emails
type EmailWorker struct {
	server   taskServer
	handler  asynq.Handler
	stop     chan struct{}
	stopOnce sync.Once
}

func NewEmailWorker(opt asynq.RedisConnOpt, handler asynq.Handler, queue string, concurrency int) *EmailWorker {
	if concurrency <= 0 {
		concurrency = 5
	}
	server := asynq.NewServer(opt, asynq.Config{
		Concurrency:  concurrency,
		Queues:       map[string]int{queue: 1},
		Logger:       logger.GetLogger().Sugar(),
		ErrorHandler: asynq.ErrorHandlerFunc(reportTaskError),
	})
	return newEmailWorker(server, handler)
}

func newEmailWorker(server taskServer, handler asynq.Handler) *EmailWorker {
	return &EmailWorker{
		server:  server,
		handler: handler,
		stop:    make(chan struct{}),
	}
}

// Start blocks until ctx is cancelled or Stop is called.
func (w *EmailWorker) Start(ctx context.Context) {
	logger.Info(ctx, "Starting email worker")
	if err := w.server.Start(w.handler); err != nil {
		logger.Error(ctx, "Email worker failed to start", zap.Error(err))
		return
	}

	select {
	case <-ctx.Done():
		logger.Info(ctx, "Email worker stopping (context cancelled)")
	case <-w.stop:
		logger.Info(ctx, "Email worker stopping")
	}
	w.server.Shutdown()
}

func (w *EmailWorker) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
}

func reportTaskError(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	logger.Error(ctx, "Email task failed",
		zap.String("type", task.Type()),
		zap.Int("retried", retried),
		zap.Int("maxRetry", maxRetry),
		zap.Error(err),
	)
}
