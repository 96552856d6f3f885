// Package applicationapproval одобряет заявку и создает по ней кандидата.
// Одобренная заявка без candidateId наружу не попадает: при ошибке сохранения созданный кандидат удаляется.
package applicationapproval

import (
	"context"
	"time"

	applicationrepository "ats-backend/lib/application/repository"
	applicationtransition "ats-backend/lib/application/transition"
	"ats-backend/models"
	candidateapimodels "ats-backend/models/api/candidate"
	dbmodels "ats-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// compensationTimeout ограничивает удаление кандидата, запускаемое без отмены запроса
const compensationTimeout = 10 * time.Second

type CandidateCreator interface {
	Create(ctx context.Context, data candidateapimodels.CandidateData) (id string, err error)
	Delete(ctx context.Context, id string) error
}

type Provider interface {
	Approve(ctx context.Context, actorID string, rec dbmodels.Application, payload applicationtransition.Payload) (dbmodels.Application, error)
}

func NewInstance(repo applicationrepository.Provider, candidates CandidateCreator, now func() time.Time) Provider {
	if now == nil {
		now = time.Now
	}
	return impl{
		repo:       repo,
		candidates: candidates,
		now:        now,
	}
}

type impl struct {
	repo       applicationrepository.Provider
	candidates CandidateCreator
	now        func() time.Time
}

func (i impl) Approve(ctx context.Context, actorID string, rec dbmodels.Application, payload applicationtransition.Payload) (dbmodels.Application, error) {
	logger := log.WithField("application_id", rec.ID).
		WithField("actor_id", actorID).
		WithField("job_id", payload.JobID)

	noop, err := applicationtransition.Validate(rec.Status, models.ApplicationStatusApproved, payload)
	if err != nil {
		return dbmodels.Application{}, err
	}
	if noop {
		// approved конечный, сюда попасть нельзя
		return rec, nil
	}
	if rec.JobID != "" && rec.JobID != payload.JobID {
		logger.WithField("applied_job_id", rec.JobID).
			Warn("кандидат создается на вакансию, отличную от указанной в заявке")
	}

	candidateID, err := i.candidates.Create(ctx, candidateapimodels.CandidateData{
		JobID:               payload.JobID,
		FirstName:           rec.FirstName,
		LastName:            rec.LastName,
		Email:               rec.Email,
		Phone:               rec.Phone,
		Skills:              append([]string{}, rec.Skills...),
		ResumeRef:           rec.ResumeRef,
		SourceApplicationID: rec.ID,
	})
	if err != nil {
		logger.WithError(err).Error("ошибка создания кандидата по заявке")
		return dbmodels.Application{}, models.ConversionError{ApplicationID: rec.ID, Err: err}
	}
	if candidateID == "" {
		return dbmodels.Application{}, models.ConversionError{ApplicationID: rec.ID, Err: errors.New("не получен идентификатор кандидата")}
	}

	updated := applicationtransition.Apply(rec, models.ApplicationStatusApproved, payload, actorID, i.now())
	updated.CandidateID = &candidateID
	saved, err := i.repo.Save(ctx, updated)
	if err != nil {
		logger = logger.WithField("candidate_id", candidateID)
		logger.WithError(err).Error("ошибка сохранения одобренной заявки, удаляем кандидата")
		if delErr := i.deleteCandidate(ctx, candidateID); delErr != nil {
			logger.WithError(delErr).Error("ошибка удаления кандидата после неудачного одобрения")
			err = errors.Wrapf(err, "кандидат %s не удален: %v", candidateID, delErr)
		}
		return dbmodels.Application{}, models.ConversionError{ApplicationID: rec.ID, Err: err}
	}
	logger.WithField("candidate_id", candidateID).Info("заявка одобрена, кандидат создан")
	return saved, nil
}

// deleteCandidate не зависит от отмены запроса: клиент мог уйти, а кандидат уже создан
func (i impl) deleteCandidate(ctx context.Context, candidateID string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()
	return i.candidates.Delete(ctx, candidateID)
}
