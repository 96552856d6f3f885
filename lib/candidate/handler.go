package candidate

import (
	"context"

	"ats-backend/db"
	candidatestore "ats-backend/lib/candidate/store"
	"ats-backend/models"
	candidateapimodels "ats-backend/models/api/candidate"
	dbmodels "ats-backend/models/db"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(ctx context.Context, data candidateapimodels.CandidateData) (id string, err error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (candidateapimodels.CandidateView, error)
	List(ctx context.Context, jobID string) ([]candidateapimodels.CandidateView, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(candidatestore.NewInstance(db.DB))
}

func NewInstance(store candidatestore.Provider) Provider {
	return impl{
		store: store,
	}
}

type impl struct {
	store candidatestore.Provider
}

func (i impl) Create(ctx context.Context, data candidateapimodels.CandidateData) (string, error) {
	if err := data.Validate(); err != nil {
		return "", err
	}
	logger := log.
		WithField("job_id", data.JobID).
		WithField("application_id", data.SourceApplicationID)
	rec := dbmodels.Candidate{
		BaseModel: dbmodels.BaseModel{
			ID: uuid.NewString(),
		},
		JobID:               data.JobID,
		FirstName:           data.FirstName,
		LastName:            data.LastName,
		Email:               data.Email,
		Phone:               data.Phone,
		Skills:              append([]string{}, data.Skills...),
		ResumeRef:           data.ResumeRef,
		Status:              models.CandidateStatusNew,
		SourceApplicationID: data.SourceApplicationID,
	}
	id, err := i.store.Create(ctx, rec)
	if err != nil {
		logger.WithError(err).Error("ошибка создания кандидата")
		return "", errors.Wrap(err, "ошибка создания кандидата")
	}
	logger.WithField("candidate_id", id).Info("создан кандидат")
	return id, nil
}

func (i impl) Delete(ctx context.Context, id string) error {
	if err := i.store.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "ошибка удаления кандидата")
	}
	log.WithField("candidate_id", id).Info("кандидат удален")
	return nil
}

func (i impl) Get(ctx context.Context, id string) (candidateapimodels.CandidateView, error) {
	rec, err := i.store.GetByID(ctx, id)
	if err != nil {
		return candidateapimodels.CandidateView{}, err
	}
	if rec == nil {
		return candidateapimodels.CandidateView{}, models.NotFoundError{Entity: "кандидат", ID: id}
	}
	return candidateapimodels.CandidateConvert(*rec), nil
}

func (i impl) List(ctx context.Context, jobID string) ([]candidateapimodels.CandidateView, error) {
	list, err := i.store.List(ctx, jobID)
	if err != nil {
		return nil, err
	}
	result := make([]candidateapimodels.CandidateView, 0, len(list))
	for _, rec := range list {
		result = append(result, candidateapimodels.CandidateConvert(rec))
	}
	return result, nil
}
