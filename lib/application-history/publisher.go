package applicationhistoryhandler

import (
	"context"

	"github.com/redis/go-redis/v9"
)

type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

func NewRedisPublisher(rdb *redis.Client) Publisher {
	return redisPublisher{rdb: rdb}
}

type redisPublisher struct {
	rdb *redis.Client
}

func (p redisPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.rdb.Publish(ctx, channel, payload).Err()
}
