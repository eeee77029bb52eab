package scheduler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// queueKey is the Redis list fired triggers travel through.
const queueKey = "sms-push"

// RedisQueue carries fired triggers from the cron runner to the worker
// over a Redis list, so the dispatch side can live in a separate process.
type RedisQueue struct {
	rdb *redis.Client
}

func NewRedisQueue(rdb *redis.Client) *RedisQueue {
	return &RedisQueue{rdb: rdb}
}

func (q *RedisQueue) Enqueue(ctx context.Context, task Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, queueKey, data).Err()
}

// Dequeue blocks up to timeout for the next task. Returns redis.Nil
// when the timeout elapses with an empty queue.
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (Task, error) {
	res, err := q.rdb.BRPop(ctx, timeout, queueKey).Result()
	if err != nil {
		return Task{}, err
	}
	var task Task
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		return Task{}, err
	}
	return task, nil
}
