package initializers

import (
	"context"

	"ats-backend/config"
	"ats-backend/fiberlog"
	"ats-backend/lib/application"
	applicationhistoryhandler "ats-backend/lib/application-history"
	applicationbulk "ats-backend/lib/application/bulk"
	applicationreloadworker "ats-backend/lib/application/reload-worker"
	"ats-backend/lib/candidate"
	xlsexport "ats-backend/lib/export/xls"

	log "github.com/sirupsen/logrus"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitRedis(ctx)
	InitS3(ctx)
	candidate.NewHandler()
	applicationhistoryhandler.NewHandler(applicationhistoryhandler.NewRedisPublisher(RedisClient), config.Conf.Redis.AuditChannel)
	application.NewHandler()
	applicationbulk.NewHandler(application.Instance)
	xlsexport.NewHandler()

	count, err := application.Instance.Reload(ctx)
	if err != nil {
		panic(err.Error())
	}
	log.WithField("count", count).Info("заявки загружены")
	initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	// Задача сверки кэша заявок с БД
	applicationreloadworker.StartWorker(ctx, application.Instance, config.Conf.ReloadInterval())
}
