package applicationhistoryhandler

import (
	"context"
	"encoding/json"
	"time"

	"ats-backend/db"
	applicationhistorystore "ats-backend/lib/application-history/store"
	"ats-backend/models"
	applicationapimodels "ats-backend/models/api/application"
	dbmodels "ats-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// AuditRecord - запись о смене статуса заявки, уходит во внешний сервис уведомлений
type AuditRecord struct {
	ApplicationID string                   `json:"applicationId"`
	FromStatus    models.ApplicationStatus `json:"fromStatus"`
	ToStatus      models.ApplicationStatus `json:"toStatus"`
	ActorID       string                   `json:"actorId"`
	Timestamp     time.Time                `json:"timestamp"`
	Notes         string                   `json:"notes,omitempty"`
	CandidateID   string                   `json:"candidateId,omitempty"`
}

type Provider interface {
	Emit(ctx context.Context, rec AuditRecord) error
	List(ctx context.Context, applicationID string, filter applicationapimodels.ApplicationHistoryFilter) ([]applicationapimodels.ApplicationHistoryView, int64, error)
}

var Instance Provider

func NewHandler(publisher Publisher, channel string) {
	Instance = NewInstance(applicationhistorystore.NewInstance(db.DB), publisher, channel)
}

func NewInstance(store applicationhistorystore.Provider, publisher Publisher, channel string) Provider {
	return impl{
		store:     store,
		publisher: publisher,
		channel:   channel,
	}
}

type impl struct {
	store     applicationhistorystore.Provider
	publisher Publisher
	channel   string
}

// Emit сохраняет запись в журнал и публикует событие.
// Ошибка возвращается как AuditEmissionError и не должна отменять основную операцию.
func (i impl) Emit(ctx context.Context, rec AuditRecord) error {
	logger := log.WithField("application_id", rec.ApplicationID).
		WithField("actor_id", rec.ActorID).
		WithField("from_status", rec.FromStatus).
		WithField("to_status", rec.ToStatus)

	var emitErr error
	historyRec := dbmodels.ApplicationHistory{
		ApplicationID: rec.ApplicationID,
		ActionType:    dbmodels.ActionTypeFor(rec.ToStatus),
		FromStatus:    rec.FromStatus,
		ToStatus:      rec.ToStatus,
		Changes: dbmodels.ApplicationChanges{
			Description: rec.Notes,
			Data: []dbmodels.ApplicationChange{
				{Field: "status", OldValue: rec.FromStatus, NewValue: rec.ToStatus},
			},
		},
	}
	if rec.ActorID != "" {
		actorID := rec.ActorID
		historyRec.UserID = &actorID
	}
	if rec.CandidateID != "" {
		historyRec.Changes.Data = append(historyRec.Changes.Data,
			dbmodels.ApplicationChange{Field: "candidate_id", OldValue: nil, NewValue: rec.CandidateID})
	}
	if _, err := i.store.Create(ctx, historyRec); err != nil {
		logger.WithError(err).Error("ошибка сохранения истории действий по заявке")
		emitErr = errors.Wrap(err, "ошибка сохранения истории действий")
	}

	if i.publisher != nil {
		payload, err := json.Marshal(rec)
		if err == nil {
			err = i.publisher.Publish(ctx, i.channel, payload)
		}
		if err != nil {
			logger.WithError(err).Error("ошибка публикации события смены статуса")
			if emitErr == nil {
				emitErr = errors.Wrap(err, "ошибка публикации события")
			}
		}
	}

	if emitErr != nil {
		return models.AuditEmissionError{ApplicationID: rec.ApplicationID, Err: emitErr}
	}
	return nil
}

func (i impl) List(ctx context.Context, applicationID string, filter applicationapimodels.ApplicationHistoryFilter) ([]applicationapimodels.ApplicationHistoryView, int64, error) {
	rowCount, err := i.store.ListCount(ctx, applicationID)
	if err != nil {
		return nil, 0, err
	}

	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []applicationapimodels.ApplicationHistoryView{}, rowCount, nil
	}

	list, err := i.store.List(ctx, applicationID, page, limit)
	if err != nil {
		log.WithError(err).Error("ошибка получения списка действий")
		return nil, 0, errors.New("ошибка получения списка действий")
	}
	result := make([]applicationapimodels.ApplicationHistoryView, 0, len(list))
	for _, rec := range list {
		result = append(result, applicationapimodels.HistoryConvert(rec))
	}
	return result, rowCount, nil
}
