// Package applicationentitystore хранит в памяти текущий известный набор заявок.
// Источник истины - БД, содержимое хранилища считается кэшем и перезагружается через Load.
package applicationentitystore

import (
	"sort"
	"sync"
	"time"

	"ats-backend/models"
	dbmodels "ats-backend/models/db"
)

type Predicate func(rec dbmodels.Application) bool

type Provider interface {
	Get(id string) (dbmodels.Application, error)
	Upsert(rec dbmodels.Application) dbmodels.Application
	Remove(id string) error
	List(predicate Predicate) []dbmodels.Application
	Load(list []dbmodels.Application)
	Generation() uint64
	Merge(since uint64, list []dbmodels.Application)
	Count() int
}

func NewInstance(now func() time.Time) Provider {
	if now == nil {
		now = time.Now
	}
	return &impl{
		items:   map[string]dbmodels.Application{},
		written: map[string]uint64{},
		now:     now,
	}
}

type impl struct {
	mu    sync.RWMutex
	items map[string]dbmodels.Application
	// gen растет на каждом Upsert/Remove, written хранит поколение последней записи по id
	// (для удаленных id это отметка об удалении)
	gen     uint64
	written map[string]uint64
	now     func() time.Time
}

func (i *impl) Get(id string) (dbmodels.Application, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	rec, ok := i.items[id]
	if !ok {
		return dbmodels.Application{}, models.NotFoundError{ID: id}
	}
	return rec.Clone(), nil
}

// Upsert вставляет или заменяет запись по id.
// LastUpdated ставится в now, только если вызывающий не проставил время изменения сам
func (i *impl) Upsert(rec dbmodels.Application) dbmodels.Application {
	i.mu.Lock()
	defer i.mu.Unlock()
	stored := rec.Clone()
	if stored.LastUpdated.IsZero() {
		stored.LastUpdated = i.now()
	}
	i.items[stored.ID] = stored
	i.touch(stored.ID)
	return stored.Clone()
}

func (i *impl) Remove(id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.items[id]; !ok {
		return models.NotFoundError{ID: id}
	}
	delete(i.items, id)
	i.touch(id)
	return nil
}

func (i *impl) touch(id string) {
	i.gen++
	i.written[id] = i.gen
}

// List возвращает снимок, отсортированный по дате подачи (новые первыми)
func (i *impl) List(predicate Predicate) []dbmodels.Application {
	i.mu.RLock()
	result := make([]dbmodels.Application, 0, len(i.items))
	for _, rec := range i.items {
		if predicate != nil && !predicate(rec) {
			continue
		}
		result = append(result, rec.Clone())
	}
	i.mu.RUnlock()

	sort.SliceStable(result, func(a, b int) bool {
		if result[a].SubmittedAt.Equal(result[b].SubmittedAt) {
			return result[a].ID < result[b].ID
		}
		return result[a].SubmittedAt.After(result[b].SubmittedAt)
	})
	return result
}

// Load полностью заменяет содержимое, временные метки не меняются
func (i *impl) Load(list []dbmodels.Application) {
	items := make(map[string]dbmodels.Application, len(list))
	for _, rec := range list {
		items[rec.ID] = rec.Clone()
	}
	i.mu.Lock()
	i.items = items
	i.written = map[string]uint64{}
	i.mu.Unlock()
}

// Generation - текущее поколение записей, берется до чтения снимка из БД
func (i *impl) Generation() uint64 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.gen
}

// Merge накладывает снимок из БД, прочитанный после Generation() == since.
// Записи и удаления, сделанные в кэше после since, новее снимка и сохраняются.
// Вызовы Merge не должны пересекаться
func (i *impl) Merge(since uint64, list []dbmodels.Application) {
	items := make(map[string]dbmodels.Application, len(list))
	for _, rec := range list {
		items[rec.ID] = rec.Clone()
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	for id, gen := range i.written {
		if gen <= since {
			delete(i.written, id)
			continue
		}
		if rec, ok := i.items[id]; ok {
			items[id] = rec
		} else {
			delete(items, id)
		}
	}
	i.items = items
}

func (i *impl) Count() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.items)
}
