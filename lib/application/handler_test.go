package application

import (
	"context"
	"testing"
	"time"

	applicationtransition "ats-backend/lib/application/transition"
	"ats-backend/models"
	apimodels "ats-backend/models/api"
	applicationapimodels "ats-backend/models/api/application"
	dbmodels "ats-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func pendingApplication(id string) dbmodels.Application {
	return dbmodels.Application{
		ID:          id,
		JobID:       "job-1",
		FirstName:   "Анна",
		LastName:    "Смирнова",
		Email:       "anna@example.com",
		Skills:      []string{"go"},
		Source:      models.ApplicationSourceCareerPage,
		Priority:    models.ApplicationPriorityNormal,
		Status:      models.ApplicationStatusPending,
		SubmittedAt: testNow.Add(-time.Hour),
		LastUpdated: testNow.Add(-time.Hour),
	}
}

func TestTransitionScenario(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(testNow, pendingApplication("A1"))
	h := env.handler

	_, err := h.Transition(ctx, "u1", "A1", models.ApplicationStatusRejected, applicationtransition.Payload{})
	require.Equal(t, models.ErrCodeMissingRejection, models.ErrorCode(err))

	view, err := h.Transition(ctx, "u1", "A1", models.ApplicationStatusRejected, applicationtransition.Payload{RejectionReason: "Not enough experience"})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusRejected, view.Status)
	require.NotNil(t, view.ReviewedAt)
	require.Equal(t, "Not enough experience", *view.RejectionReason)

	view, err = h.Transition(ctx, "u1", "A1", models.ApplicationStatusUnderReview, applicationtransition.Payload{})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusUnderReview, view.Status)

	view, err = h.Transition(ctx, "u2", "A1", models.ApplicationStatusApproved, applicationtransition.Payload{JobID: "job-42"})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusApproved, view.Status)
	require.NotNil(t, view.CandidateID)
	require.Contains(t, env.candidates.created, *view.CandidateID)
	require.Equal(t, "job-42", env.candidates.created[*view.CandidateID].JobID)

	_, err = h.Transition(ctx, "u1", "A1", models.ApplicationStatusRejected, applicationtransition.Payload{RejectionReason: "x"})
	var transitionErr models.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	require.Equal(t, models.ApplicationStatusApproved, transitionErr.From)

	// в БД то же, что и в кэше
	dbRec, _ := env.db.GetByID(ctx, "A1")
	require.Equal(t, models.ApplicationStatusApproved, dbRec.Status)
	require.Equal(t, *view.CandidateID, *dbRec.CandidateID)

	require.Len(t, env.audit.records, 3)
	last := env.audit.records[2]
	require.Equal(t, models.ApplicationStatusUnderReview, last.FromStatus)
	require.Equal(t, models.ApplicationStatusApproved, last.ToStatus)
	require.Equal(t, "u2", last.ActorID)
	require.Equal(t, *view.CandidateID, last.CandidateID)
}

func TestTransition(t *testing.T) {
	ctx := context.Background()

	t.Run(`повтор статуса без изменений и без аудита`, func(t *testing.T) {
		env := newTestEnv(testNow, pendingApplication("A1"))
		before, err := env.handler.Get("A1")
		require.NoError(t, err)

		view, err := env.handler.Transition(ctx, "u1", "A1", models.ApplicationStatusPending, applicationtransition.Payload{})
		require.NoError(t, err)
		require.Equal(t, before, view)
		require.Empty(t, env.audit.records)
	})

	t.Run(`ошибка аудита не откатывает смену статуса`, func(t *testing.T) {
		env := newTestEnv(testNow, pendingApplication("A1"))
		env.audit.err = errors.New("redis: connection refused")

		view, err := env.handler.Transition(ctx, "u1", "A1", models.ApplicationStatusWithdrawn, applicationtransition.Payload{})
		require.NoError(t, err)
		require.Equal(t, models.ApplicationStatusWithdrawn, view.Status)

		stored, err := env.handler.Get("A1")
		require.NoError(t, err)
		require.Equal(t, models.ApplicationStatusWithdrawn, stored.Status)
	})

	t.Run(`одно время изменения в кэше и в БД`, func(t *testing.T) {
		// часы идут вперед при каждом вызове
		tick := testNow
		env := newTestEnvWithClock(func() time.Time {
			tick = tick.Add(time.Second)
			return tick
		}, pendingApplication("A1"))
		view, err := env.handler.Transition(ctx, "u1", "A1", models.ApplicationStatusUnderReview, applicationtransition.Payload{})
		require.NoError(t, err)
		require.Equal(t, view.LastUpdated, *view.ReviewedAt)

		dbRec, _ := env.db.GetByID(ctx, "A1")
		require.Equal(t, view.LastUpdated, dbRec.LastUpdated)

		_, err = env.handler.Reload(ctx)
		require.NoError(t, err)
		reloaded, err := env.handler.Get("A1")
		require.NoError(t, err)
		require.Equal(t, view.LastUpdated, reloaded.LastUpdated)
	})

	t.Run(`неизвестная заявка`, func(t *testing.T) {
		env := newTestEnv(testNow)
		_, err := env.handler.Transition(ctx, "u1", "nope", models.ApplicationStatusUnderReview, applicationtransition.Payload{})
		require.True(t, models.IsNotFound(err))
	})

	t.Run(`неизвестный статус`, func(t *testing.T) {
		env := newTestEnv(testNow, pendingApplication("A1"))
		_, err := env.handler.Transition(ctx, "u1", "A1", "hired", applicationtransition.Payload{})
		require.Equal(t, models.ErrCodeUnknownStatus, models.ErrorCode(err))
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(testNow, pendingApplication("A1"))

	t.Run(`пустой запрос`, func(t *testing.T) {
		_, err := env.handler.Update(ctx, "u1", "A1", applicationapimodels.ApplicationPatch{})
		require.Equal(t, models.ErrCodeInvalidApplicationData, models.ErrorCode(err))
	})

	t.Run(`неизвестный приоритет`, func(t *testing.T) {
		_, err := env.handler.Update(ctx, "u1", "A1", applicationapimodels.ApplicationPatch{Priority: "asap"})
		require.Equal(t, models.ErrCodeInvalidPriority, models.ErrorCode(err))
	})

	t.Run(`ошибка проверки статуса не сохраняет приоритет`, func(t *testing.T) {
		_, err := env.handler.Update(ctx, "u1", "A1", applicationapimodels.ApplicationPatch{
			Priority: models.ApplicationPriorityUrgent,
			Status:   models.ApplicationStatusRejected,
		})
		require.Equal(t, models.ErrCodeMissingRejection, models.ErrorCode(err))

		view, err := env.handler.Get("A1")
		require.NoError(t, err)
		require.Equal(t, models.ApplicationPriorityNormal, view.Priority)
		require.Equal(t, models.ApplicationStatusPending, view.Status)
		dbRec, _ := env.db.GetByID(ctx, "A1")
		require.Equal(t, models.ApplicationPriorityNormal, dbRec.Priority)
		require.Empty(t, env.audit.records)
	})

	t.Run(`неизвестный статус не сохраняет приоритет`, func(t *testing.T) {
		_, err := env.handler.Update(ctx, "u1", "A1", applicationapimodels.ApplicationPatch{
			Priority: models.ApplicationPriorityHigh,
			Status:   "hired",
		})
		require.Equal(t, models.ErrCodeUnknownStatus, models.ErrorCode(err))
		dbRec, _ := env.db.GetByID(ctx, "A1")
		require.Equal(t, models.ApplicationPriorityNormal, dbRec.Priority)
	})

	t.Run(`приоритет и статус одним запросом`, func(t *testing.T) {
		view, err := env.handler.Update(ctx, "u1", "A1", applicationapimodels.ApplicationPatch{
			Priority: models.ApplicationPriorityUrgent,
			Status:   models.ApplicationStatusUnderReview,
			Notes:    "сильный кандидат",
		})
		require.NoError(t, err)
		require.Equal(t, models.ApplicationPriorityUrgent, view.Priority)
		require.Equal(t, models.ApplicationStatusUnderReview, view.Status)
		require.Equal(t, "сильный кандидат", *view.ReviewNotes)
		require.Len(t, env.audit.records, 1)
		require.Equal(t, models.ApplicationStatusPending, env.audit.records[0].FromStatus)

		dbRec, _ := env.db.GetByID(ctx, "A1")
		require.Equal(t, models.ApplicationPriorityUrgent, dbRec.Priority)
		require.Equal(t, models.ApplicationStatusUnderReview, dbRec.Status)
	})

	t.Run(`только приоритет`, func(t *testing.T) {
		view, err := env.handler.Update(ctx, "u1", "A1", applicationapimodels.ApplicationPatch{Priority: models.ApplicationPriorityLow})
		require.NoError(t, err)
		require.Equal(t, models.ApplicationPriorityLow, view.Priority)
		require.Equal(t, models.ApplicationStatusUnderReview, view.Status)
		require.Len(t, env.audit.records, 1)
	})
}

func TestCreateListDelete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(testNow)

	t.Run(`ручное создание`, func(t *testing.T) {
		_, err := env.handler.Create(ctx, "u1", applicationapimodels.ApplicationData{FirstName: "Олег"})
		require.Equal(t, models.ErrCodeInvalidApplicationData, models.ErrorCode(err))

		for _, name := range []string{"Иванов", "Петров", "Сидоров"} {
			view, err := env.handler.Create(ctx, "u1", applicationapimodels.ApplicationData{
				FirstName: "Олег",
				LastName:  name,
				Email:     "oleg@example.com",
				Skills:    []string{"go", " Go ", ""},
			})
			require.NoError(t, err)
			require.Equal(t, models.ApplicationStatusPending, view.Status)
			require.Equal(t, models.ApplicationSourceManual, view.Source)
			require.Equal(t, models.ApplicationPriorityNormal, view.Priority)
			require.Equal(t, []string{"go"}, view.Skills)
			require.Nil(t, view.CandidateID)
		}
	})

	t.Run(`список с фильтром и пагинацией`, func(t *testing.T) {
		list, rowCount, err := env.handler.List(applicationapimodels.ApplicationFilter{
			Pagination: apimodels.Pagination{Page: 1, Limit: 2},
		})
		require.NoError(t, err)
		require.Equal(t, int64(3), rowCount)
		require.Len(t, list, 2)

		list, rowCount, err = env.handler.List(applicationapimodels.ApplicationFilter{Search: "петр"})
		require.NoError(t, err)
		require.Equal(t, int64(1), rowCount)
		require.Equal(t, "Петров", list[0].LastName)

		list, _, err = env.handler.List(applicationapimodels.ApplicationFilter{
			Pagination: apimodels.Pagination{Page: 5, Limit: 2},
		})
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run(`удаление`, func(t *testing.T) {
		list := env.handler.ListAll(applicationapimodels.ApplicationFilter{})
		require.NoError(t, env.handler.Delete(ctx, "u1", list[0].ID))
		require.True(t, models.IsNotFound(env.handler.Delete(ctx, "u1", list[0].ID)))
		require.Len(t, env.handler.ListAll(applicationapimodels.ApplicationFilter{}), 2)
	})

	t.Run(`перезагрузка кэша`, func(t *testing.T) {
		rec := pendingApplication("external")
		env.db.items[rec.ID] = rec
		count, err := env.handler.Reload(ctx)
		require.NoError(t, err)
		require.Equal(t, 3, count)
		_, err = env.handler.Get("external")
		require.NoError(t, err)
	})
}
