package email

import (
	"context"
	"encoding/json"
	"fmt"

	"escrow-broker.backend/internal/config"
	"escrow-broker.backend/internal/domain/entities"
	"escrow-broker.backend/pkg/logger"
	"escrow-broker.backend/pkg/metrics"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	// TaskSendEmail is the task type carrying one queued message.
	TaskSendEmail = "email:send"
	// Queue is the asynq queue email tasks are placed on.
	Queue = "emails"
	// MaxAttempts bounds delivery attempts of a queued message.
	MaxAttempts = 3
)

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Outbox queues messages as asynq tasks and delivers them when the worker
// processes the task. Without a queue it delivers directly through the mailer.
type Outbox struct {
	mailer Mailer
	queue  taskEnqueuer
}

// NewOutbox creates a new outbox. A nil client disables queueing.
func NewOutbox(mailer Mailer, client *asynq.Client) *Outbox {
	o := &Outbox{mailer: mailer}
	if client != nil {
		o.queue = client
	}
	return o
}

// RedisConnOpt builds asynq connection options from the Redis settings.
func RedisConnOpt(cfg config.RedisConfig) (asynq.RedisConnOpt, error) {
	opt, err := asynq.ParseRedisURI(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if c, ok := opt.(asynq.RedisClientOpt); ok && cfg.Password != "" {
		c.Password = cfg.Password
		return c, nil
	}
	return opt, nil
}

// Send enqueues msg, falling back to direct delivery when the queue is unavailable.
func (o *Outbox) Send(ctx context.Context, msg *entities.EmailMessage) error {
	if o.queue == nil {
		return o.deliver(ctx, msg)
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode email: %w", err)
	}
	task := asynq.NewTask(TaskSendEmail, payload)
	if _, err := o.queue.EnqueueContext(ctx, task, asynq.Queue(Queue), asynq.MaxRetry(MaxAttempts-1)); err != nil {
		logger.Warn(ctx, "Email queue unavailable, delivering directly", zap.Error(err))
		return o.deliver(ctx, msg)
	}
	return nil
}

// ProcessTask delivers a queued message. Returning an error lets asynq retry it.
func (o *Outbox) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var msg entities.EmailMessage
	if err := json.Unmarshal(task.Payload(), &msg); err != nil || msg.To == "" {
		logger.Error(ctx, "Dropping malformed email task", zap.ByteString("payload", task.Payload()))
		return fmt.Errorf("malformed email task: %w", asynq.SkipRetry)
	}
	return o.deliver(ctx, &msg)
}

// ServeMux routes email tasks to the outbox.
func (o *Outbox) ServeMux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TaskSendEmail, o)
	return mux
}

func (o *Outbox) deliver(ctx context.Context, msg *entities.EmailMessage) error {
	err := o.mailer.Deliver(ctx, msg)
	metrics.RecordEmail(string(msg.Kind), err == nil)
	return err
}
