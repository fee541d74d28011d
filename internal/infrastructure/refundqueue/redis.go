// Package refundqueue adapts the refund processor's queue membership to the
// predicate the account core consumes.
package refundqueue

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/colabore/colabore-api/internal/application"
	"github.com/colabore/colabore-api/internal/domain/entity"
)

const setKey = "refund:queued"

// RedisQueue reads the shared set the refund processor maintains of payment
// ids it has already picked up.
type RedisQueue struct {
	RDB *redis.Client
}

func New(rdb *redis.Client) *RedisQueue {
	return &RedisQueue{RDB: rdb}
}

func (q *RedisQueue) AlreadyQueued(ctx context.Context, p entity.Payment) (bool, error) {
	if q.RDB == nil {
		return false, nil
	}
	return q.RDB.SIsMember(ctx, setKey, p.ID).Result()
}

var _ application.RefundQueue = (*RedisQueue)(nil)
