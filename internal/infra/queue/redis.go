package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"li-insights/internal/domain"
)

// RedisAnalysisQueue реализует очередь задач на базе Redis lists.
type RedisAnalysisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisAnalysisQueue создаёт очередь по указанному ключу.
func NewRedisAnalysisQueue(client *redis.Client, key string) *RedisAnalysisQueue {
	return &RedisAnalysisQueue{client: client, key: key}
}

// Enqueue публикует задачу в очередь.
func (q *RedisAnalysisQueue) Enqueue(ctx context.Context, job domain.AnalysisJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("push job: %w", err)
	}
	return nil
}

// Pop блокирующе читает задачу из очереди.
func (q *RedisAnalysisQueue) Pop(ctx context.Context) (domain.AnalysisJob, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.AnalysisJob{}, err
		}

		res, err := q.client.BRPop(ctx, time.Second, q.key).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				if ctx.Err() != nil {
					return domain.AnalysisJob{}, ctx.Err()
				}
				continue
			}
			if errors.Is(err, redis.Nil) {
				continue
			}
			return domain.AnalysisJob{}, err
		}
		if len(res) != 2 {
			return domain.AnalysisJob{}, errors.New("redis queue: unexpected response")
		}
		var job domain.AnalysisJob
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			return domain.AnalysisJob{}, fmt.Errorf("decode job: %w", err)
		}
		return job, nil
	}
}
