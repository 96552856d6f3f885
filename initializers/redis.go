package initializers

import (
	"context"
	"time"

	"ats-backend/config"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

var RedisClient *redis.Client

func InitRedis(ctx context.Context) {
	opts, err := redis.ParseURL(config.Conf.Redis.URL)
	if err != nil {
		panic(err.Error())
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = client.Ping(pingCtx).Err(); err != nil {
		// события аудита будут теряться, но сервис работает
		log.WithError(err).Error("Redis недоступен, события смены статуса не будут публиковаться")
	} else {
		log.Info("Сервис успешно подключен к Redis")
	}
	RedisClient = client
}
