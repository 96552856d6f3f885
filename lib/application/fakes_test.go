package application

import (
	"context"
	"sync"
	"time"

	applicationhistoryhandler "ats-backend/lib/application-history"
	applicationapproval "ats-backend/lib/application/approval"
	applicationentitystore "ats-backend/lib/application/entity-store"
	applicationrepository "ats-backend/lib/application/repository"
	"ats-backend/models"
	candidateapimodels "ats-backend/models/api/candidate"
	dbmodels "ats-backend/models/db"
)

type memStore struct {
	mu    sync.Mutex
	items map[string]dbmodels.Application
}

func (s *memStore) Create(_ context.Context, rec dbmodels.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[rec.ID] = rec.Clone()
	return nil
}

func (s *memStore) Save(_ context.Context, rec dbmodels.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[rec.ID]; !ok {
		return models.NotFoundError{ID: rec.ID}
	}
	s.items[rec.ID] = rec.Clone()
	return nil
}

func (s *memStore) GetByID(_ context.Context, id string) (*dbmodels.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	rec = rec.Clone()
	return &rec, nil
}

func (s *memStore) List(_ context.Context, filter dbmodels.ApplicationFilter) ([]dbmodels.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []dbmodels.Application{}
	for _, rec := range s.items {
		if filter.Match(rec) {
			result = append(result, rec.Clone())
		}
	}
	return result, nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return models.NotFoundError{ID: id}
	}
	delete(s.items, id)
	return nil
}

type memCandidates struct {
	mu      sync.Mutex
	created map[string]candidateapimodels.CandidateData
}

func (c *memCandidates) Create(_ context.Context, data candidateapimodels.CandidateData) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := "cand-" + data.SourceApplicationID
	c.created[id] = data
	return id, nil
}

func (c *memCandidates) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.created, id)
	return nil
}

type memAudit struct {
	mu      sync.Mutex
	records []applicationhistoryhandler.AuditRecord
	err     error
}

func (a *memAudit) Emit(_ context.Context, rec applicationhistoryhandler.AuditRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return models.AuditEmissionError{ApplicationID: rec.ApplicationID, Err: a.err}
	}
	a.records = append(a.records, rec)
	return nil
}

type testEnv struct {
	handler    Provider
	db         *memStore
	candidates *memCandidates
	audit      *memAudit
}

func newTestEnv(now time.Time, list ...dbmodels.Application) testEnv {
	return newTestEnvWithClock(func() time.Time { return now }, list...)
}

func newTestEnvWithClock(clock func() time.Time, list ...dbmodels.Application) testEnv {
	db := &memStore{items: map[string]dbmodels.Application{}}
	cache := applicationentitystore.NewInstance(clock)
	for _, rec := range list {
		db.items[rec.ID] = rec.Clone()
	}
	cache.Load(list)
	repo := applicationrepository.NewInstance(db, cache, clock)
	candidates := &memCandidates{created: map[string]candidateapimodels.CandidateData{}}
	audit := &memAudit{}
	return testEnv{
		handler:    NewInstance(repo, applicationapproval.NewInstance(repo, candidates, clock), audit, time.Second, clock),
		db:         db,
		candidates: candidates,
		audit:      audit,
	}
}
