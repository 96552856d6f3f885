// Package applicationrepository связывает кэш заявок в памяти с БД.
// Любая запись сначала подтверждается БД и только потом попадает в кэш.
package applicationrepository

import (
	"context"
	"sync"
	"time"

	applicationentitystore "ats-backend/lib/application/entity-store"
	applicationstore "ats-backend/lib/application/store"
	"ats-backend/models"
	dbmodels "ats-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Get(id string) (dbmodels.Application, error)
	List(predicate applicationentitystore.Predicate) []dbmodels.Application
	Create(ctx context.Context, rec dbmodels.Application) (dbmodels.Application, error)
	Save(ctx context.Context, rec dbmodels.Application) (dbmodels.Application, error)
	Remove(ctx context.Context, id string) error
	Reload(ctx context.Context) (int, error)
}

func NewInstance(store applicationstore.Provider, cache applicationentitystore.Provider, now func() time.Time) Provider {
	if now == nil {
		now = time.Now
	}
	return &impl{
		store: store,
		cache: cache,
		now:   now,
	}
}

type impl struct {
	store    applicationstore.Provider
	cache    applicationentitystore.Provider
	now      func() time.Time
	reloadMu sync.Mutex
}

func (i *impl) Get(id string) (dbmodels.Application, error) {
	return i.cache.Get(id)
}

func (i *impl) List(predicate applicationentitystore.Predicate) []dbmodels.Application {
	return i.cache.List(predicate)
}

func (i *impl) Create(ctx context.Context, rec dbmodels.Application) (dbmodels.Application, error) {
	if err := i.store.Create(ctx, rec); err != nil {
		return dbmodels.Application{}, errors.Wrap(err, "ошибка сохранения заявки")
	}
	return i.cache.Upsert(rec), nil
}

// Save сохраняет запись с временем изменения, проставленным вызывающим
func (i *impl) Save(ctx context.Context, rec dbmodels.Application) (dbmodels.Application, error) {
	if rec.LastUpdated.IsZero() {
		rec.LastUpdated = i.now()
	}
	if err := i.store.Save(ctx, rec); err != nil {
		if models.IsNotFound(err) {
			// в БД записи уже нет, кэш устарел
			_ = i.cache.Remove(rec.ID)
			return dbmodels.Application{}, err
		}
		return dbmodels.Application{}, errors.Wrap(err, "ошибка обновления заявки")
	}
	return i.cache.Upsert(rec), nil
}

func (i *impl) Remove(ctx context.Context, id string) error {
	if _, err := i.cache.Get(id); err != nil {
		return err
	}
	if err := i.store.Delete(ctx, id); err != nil {
		if models.IsNotFound(err) {
			_ = i.cache.Remove(id)
			return err
		}
		return errors.Wrap(err, "ошибка удаления заявки")
	}
	return i.cache.Remove(id)
}

// Reload перечитывает все заявки из БД в кэш.
// Изменения, подтвержденные во время чтения снимка, не затираются
func (i *impl) Reload(ctx context.Context) (int, error) {
	i.reloadMu.Lock()
	defer i.reloadMu.Unlock()

	since := i.cache.Generation()
	list, err := i.store.List(ctx, dbmodels.ApplicationFilter{})
	if err != nil {
		return 0, errors.Wrap(err, "ошибка загрузки заявок из БД")
	}
	i.cache.Merge(since, list)
	log.WithField("count", len(list)).Info("кэш заявок перезагружен")
	return len(list), nil
}
