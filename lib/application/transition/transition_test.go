package applicationtransition

import (
	"testing"
	"time"

	"ats-backend/models"
	dbmodels "ats-backend/models/db"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	full := Payload{RejectionReason: "мало опыта", JobID: "job-42"}

	t.Run(`матрица переходов`, func(t *testing.T) {
		allowed := map[models.ApplicationStatus]map[models.ApplicationStatus]bool{
			models.ApplicationStatusPending: {
				models.ApplicationStatusUnderReview: true,
				models.ApplicationStatusApproved:    true,
				models.ApplicationStatusRejected:    true,
				models.ApplicationStatusWithdrawn:   true,
			},
			models.ApplicationStatusUnderReview: {
				models.ApplicationStatusApproved:  true,
				models.ApplicationStatusRejected:  true,
				models.ApplicationStatusWithdrawn: true,
			},
			models.ApplicationStatusRejected: {
				models.ApplicationStatusUnderReview: true,
			},
		}
		for _, from := range models.ApplicationStatuses {
			for _, to := range models.ApplicationStatuses {
				noop, err := Validate(from, to, full)
				switch {
				case IsTerminal(from):
					require.Error(t, err, "%s -> %s", from, to)
					require.Equal(t, models.ErrCodeInvalidTransition, models.ErrorCode(err))
				case from == to:
					require.NoError(t, err, "%s -> %s", from, to)
					require.True(t, noop)
				case allowed[from][to]:
					require.NoError(t, err, "%s -> %s", from, to)
					require.False(t, noop)
				default:
					require.Error(t, err, "%s -> %s", from, to)
					require.Equal(t, models.ErrCodeInvalidTransition, models.ErrorCode(err))
				}
			}
		}
	})

	t.Run(`из конечного статуса перейти нельзя`, func(t *testing.T) {
		for _, from := range []models.ApplicationStatus{models.ApplicationStatusApproved, models.ApplicationStatusWithdrawn} {
			for _, to := range models.ApplicationStatuses {
				_, err := Validate(from, to, full)
				var transitionErr models.InvalidTransitionError
				require.ErrorAs(t, err, &transitionErr)
				require.Equal(t, from, transitionErr.From)
				require.Equal(t, to, transitionErr.To)
			}
		}
	})

	t.Run(`повторный переход в тот же статус ничего не меняет`, func(t *testing.T) {
		for _, st := range []models.ApplicationStatus{models.ApplicationStatusPending, models.ApplicationStatusUnderReview, models.ApplicationStatusRejected} {
			noop, err := Validate(st, st, Payload{})
			require.NoError(t, err)
			require.True(t, noop)
		}
	})

	t.Run(`отказ без причины`, func(t *testing.T) {
		_, err := Validate(models.ApplicationStatusPending, models.ApplicationStatusRejected, Payload{RejectionReason: "  "})
		require.Equal(t, models.ErrCodeMissingRejection, models.ErrorCode(err))
		require.Contains(t, err.Error(), "ValidationError: missing_rejection_reason")
	})

	t.Run(`одобрение без вакансии`, func(t *testing.T) {
		_, err := Validate(models.ApplicationStatusUnderReview, models.ApplicationStatusApproved, Payload{})
		require.Equal(t, models.ErrCodeMissingJobAssignment, models.ErrorCode(err))
	})

	t.Run(`запрещенный переход проверяется раньше полей`, func(t *testing.T) {
		_, err := Validate(models.ApplicationStatusRejected, models.ApplicationStatusApproved, Payload{})
		require.Equal(t, models.ErrCodeInvalidTransition, models.ErrorCode(err))
	})

	t.Run(`неизвестный статус`, func(t *testing.T) {
		_, err := Validate(models.ApplicationStatusPending, "hired", full)
		require.Equal(t, models.ErrCodeUnknownStatus, models.ErrorCode(err))

		_, err = ParseStatus("under_review")
		require.NoError(t, err)
	})
}

func TestApply(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rec := dbmodels.Application{
		ID:          "A1",
		Status:      models.ApplicationStatusPending,
		Skills:      []string{"go"},
		LastUpdated: now.Add(-time.Hour),
	}

	t.Run(`отказ сохраняет причину и проверяющего`, func(t *testing.T) {
		res := Apply(rec, models.ApplicationStatusRejected, Payload{RejectionReason: " Not enough experience ", Notes: "созвон"}, "u1", now)
		require.Equal(t, models.ApplicationStatusRejected, res.Status)
		require.Equal(t, "Not enough experience", *res.RejectionReason)
		require.Equal(t, "u1", *res.ReviewedBy)
		require.Equal(t, now, *res.ReviewedAt)
		require.Equal(t, now, res.LastUpdated)
		require.Equal(t, "созвон", *res.ReviewNotes)
		// исходная запись не меняется
		require.Equal(t, models.ApplicationStatusPending, rec.Status)
		require.Nil(t, rec.RejectionReason)
	})

	t.Run(`повторное открытие очищает причину отказа`, func(t *testing.T) {
		rejected := Apply(rec, models.ApplicationStatusRejected, Payload{RejectionReason: "x"}, "u1", now)
		reopened := Apply(rejected, models.ApplicationStatusUnderReview, Payload{}, "u2", now.Add(time.Minute))
		require.Equal(t, models.ApplicationStatusUnderReview, reopened.Status)
		require.Nil(t, reopened.RejectionReason)
		require.Equal(t, "u2", *reopened.ReviewedBy)
	})
}
