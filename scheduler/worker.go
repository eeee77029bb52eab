package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Handler processes one fired trigger. Errors are terminal for that
// firing; the worker never retries.
type Handler func(task Task)

// Worker consumes fired triggers from the queue and runs the handler.
type Worker struct {
	queue  *RedisQueue
	handle Handler
}

func NewWorker(queue *RedisQueue, handle Handler) *Worker {
	return &Worker{queue: queue, handle: handle}
}

// Run blocks until ctx is canceled.
func (w *Worker) Run(ctx context.Context) {
	zap.L().Info("sms worker ready")
	for {
		task, err := w.queue.Dequeue(ctx, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				zap.L().Info("sms worker stopping")
				return
			}
			if errors.Is(err, redis.Nil) {
				continue
			}
			zap.L().Error("dequeue failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		w.handle(task)
	}
}
