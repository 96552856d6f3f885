package applicationreloadworker

import (
	"context"
	"time"

	baseworker "ats-backend/lib/utils/base-worker"
)

type Reloader interface {
	Reload(ctx context.Context) (count int, err error)
}

// StartWorker периодически перечитывает заявки из БД, кэш в памяти считается устаревающим
func StartWorker(ctx context.Context, reloader Reloader, interval time.Duration) {
	i := &impl{
		BaseImpl: *baseworker.NewInstance("ApplicationReloadWorker", interval, interval),
		reloader: reloader,
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	reloader Reloader
}

func (i impl) handle(ctx context.Context) {
	count, err := i.reloader.Reload(ctx)
	if err != nil {
		i.GetLogger().WithError(err).Error("ошибка перезагрузки заявок")
		return
	}
	i.GetLogger().WithField("count", count).Debug("заявки перезагружены")
}
