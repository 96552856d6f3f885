package applicationapproval

import (
	"context"
	"testing"
	"time"

	applicationentitystore "ats-backend/lib/application/entity-store"
	applicationrepository "ats-backend/lib/application/repository"
	applicationtransition "ats-backend/lib/application/transition"
	"ats-backend/models"
	candidateapimodels "ats-backend/models/api/candidate"
	dbmodels "ats-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeCandidates struct {
	created   []candidateapimodels.CandidateData
	deleted   []string
	createErr error
	// onCreate вызывается после создания кандидата
	onCreate func()
}

func (f *fakeCandidates) Create(_ context.Context, data candidateapimodels.CandidateData) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, data)
	if f.onCreate != nil {
		f.onCreate()
	}
	return "C" + data.SourceApplicationID, nil
}

func (f *fakeCandidates) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeRepo сохраняет в кэш, saveErr имитирует ошибку БД
type fakeRepo struct {
	applicationrepository.Provider
	cache   applicationentitystore.Provider
	saveErr error
}

func (r fakeRepo) Save(ctx context.Context, rec dbmodels.Application) (dbmodels.Application, error) {
	if err := ctx.Err(); err != nil {
		return dbmodels.Application{}, err
	}
	if r.saveErr != nil {
		return dbmodels.Application{}, r.saveErr
	}
	return r.cache.Upsert(rec), nil
}

func newApplication(cache applicationentitystore.Provider, status models.ApplicationStatus) dbmodels.Application {
	return cache.Upsert(dbmodels.Application{
		ID:        "A1",
		JobID:     "job-1",
		FirstName: "Иван",
		LastName:  "Петров",
		Email:     "ivan@example.com",
		Phone:     "+79990000000",
		ResumeRef: "resumes/a1.pdf",
		Skills:    []string{"go", "postgres"},
		Status:    status,
	})
}

func TestApprove(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run(`одобрение создает кандидата и связывает заявку`, func(t *testing.T) {
		cache := applicationentitystore.NewInstance(clock)
		rec := newApplication(cache, models.ApplicationStatusUnderReview)
		candidates := &fakeCandidates{}
		converter := NewInstance(fakeRepo{cache: cache}, candidates, clock)

		res, err := converter.Approve(ctx, "u1", rec, applicationtransition.Payload{JobID: "job-42"})
		require.NoError(t, err)
		require.Equal(t, models.ApplicationStatusApproved, res.Status)
		require.NotNil(t, res.CandidateID)
		require.Equal(t, "CA1", *res.CandidateID)

		require.Len(t, candidates.created, 1)
		data := candidates.created[0]
		require.Equal(t, "job-42", data.JobID)
		require.Equal(t, "Иван", data.FirstName)
		require.Equal(t, "Петров", data.LastName)
		require.Equal(t, "ivan@example.com", data.Email)
		require.Equal(t, []string{"go", "postgres"}, data.Skills)
		require.Equal(t, "resumes/a1.pdf", data.ResumeRef)
		require.Equal(t, "A1", data.SourceApplicationID)

		cached, err := cache.Get("A1")
		require.NoError(t, err)
		require.Equal(t, models.ApplicationStatusApproved, cached.Status)
		require.True(t, cached.HasCandidateLink())
	})

	t.Run(`без вакансии кандидат не создается`, func(t *testing.T) {
		cache := applicationentitystore.NewInstance(clock)
		rec := newApplication(cache, models.ApplicationStatusPending)
		candidates := &fakeCandidates{}
		converter := NewInstance(fakeRepo{cache: cache}, candidates, clock)

		_, err := converter.Approve(ctx, "u1", rec, applicationtransition.Payload{})
		require.Equal(t, models.ErrCodeMissingJobAssignment, models.ErrorCode(err))
		require.Empty(t, candidates.created)
	})

	t.Run(`ошибка создания кандидата оставляет заявку как была`, func(t *testing.T) {
		cache := applicationentitystore.NewInstance(clock)
		rec := newApplication(cache, models.ApplicationStatusPending)
		candidates := &fakeCandidates{createErr: errors.New("candidates service unavailable")}
		converter := NewInstance(fakeRepo{cache: cache}, candidates, clock)

		_, err := converter.Approve(ctx, "u1", rec, applicationtransition.Payload{JobID: "job-42"})
		var convErr models.ConversionError
		require.ErrorAs(t, err, &convErr)
		require.Equal(t, "A1", convErr.ApplicationID)

		cached, err := cache.Get("A1")
		require.NoError(t, err)
		require.Equal(t, models.ApplicationStatusPending, cached.Status)
		require.Nil(t, cached.CandidateID)
	})

	t.Run(`ошибка сохранения удаляет созданного кандидата`, func(t *testing.T) {
		cache := applicationentitystore.NewInstance(clock)
		rec := newApplication(cache, models.ApplicationStatusUnderReview)
		candidates := &fakeCandidates{}
		converter := NewInstance(fakeRepo{cache: cache, saveErr: errors.New("db down")}, candidates, clock)

		_, err := converter.Approve(ctx, "u1", rec, applicationtransition.Payload{JobID: "job-42"})
		require.Equal(t, models.ErrCodeConversionFailed, models.ErrorCode(err))
		require.Equal(t, []string{"CA1"}, candidates.deleted)

		cached, err := cache.Get("A1")
		require.NoError(t, err)
		require.Equal(t, models.ApplicationStatusUnderReview, cached.Status)
		require.False(t, cached.HasCandidateLink())
	})

	t.Run(`отмена запроса после создания кандидата не оставляет его`, func(t *testing.T) {
		cache := applicationentitystore.NewInstance(clock)
		rec := newApplication(cache, models.ApplicationStatusUnderReview)
		reqCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		candidates := &fakeCandidates{onCreate: cancel}
		converter := NewInstance(fakeRepo{cache: cache}, candidates, clock)

		_, err := converter.Approve(reqCtx, "u1", rec, applicationtransition.Payload{JobID: "job-42"})
		require.Equal(t, models.ErrCodeConversionFailed, models.ErrorCode(err))
		require.ErrorIs(t, err, context.Canceled)
		require.Len(t, candidates.created, 1)
		require.Equal(t, []string{"CA1"}, candidates.deleted)

		cached, err := cache.Get("A1")
		require.NoError(t, err)
		require.Equal(t, models.ApplicationStatusUnderReview, cached.Status)
		require.Nil(t, cached.CandidateID)
	})

	t.Run(`одобренную заявку одобрить повторно нельзя`, func(t *testing.T) {
		cache := applicationentitystore.NewInstance(clock)
		rec := newApplication(cache, models.ApplicationStatusApproved)
		candidates := &fakeCandidates{}
		converter := NewInstance(fakeRepo{cache: cache}, candidates, clock)

		_, err := converter.Approve(ctx, "u1", rec, applicationtransition.Payload{JobID: "job-42"})
		require.Equal(t, models.ErrCodeInvalidTransition, models.ErrorCode(err))
		require.Empty(t, candidates.created)
	})
}
