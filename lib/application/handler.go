package application

import (
	"context"
	"strings"
	"time"

	"ats-backend/config"
	"ats-backend/db"
	applicationhistoryhandler "ats-backend/lib/application-history"
	applicationapproval "ats-backend/lib/application/approval"
	applicationentitystore "ats-backend/lib/application/entity-store"
	applicationrepository "ats-backend/lib/application/repository"
	applicationstore "ats-backend/lib/application/store"
	applicationtransition "ats-backend/lib/application/transition"
	"ats-backend/lib/candidate"
	botnotify "ats-backend/lib/utils/bot-notify"
	"ats-backend/lib/utils/lock"
	"ats-backend/models"
	applicationapimodels "ats-backend/models/api/application"
	dbmodels "ats-backend/models/db"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(ctx context.Context, actorID string, data applicationapimodels.ApplicationData) (applicationapimodels.ApplicationView, error)
	Get(id string) (applicationapimodels.ApplicationView, error)
	List(filter applicationapimodels.ApplicationFilter) (list []applicationapimodels.ApplicationView, rowCount int64, err error)
	ListAll(filter applicationapimodels.ApplicationFilter) []applicationapimodels.ApplicationView
	Transition(ctx context.Context, actorID, id string, status models.ApplicationStatus, payload applicationtransition.Payload) (applicationapimodels.ApplicationView, error)
	SetPriority(ctx context.Context, actorID, id string, priority models.ApplicationPriority) (applicationapimodels.ApplicationView, error)
	Update(ctx context.Context, actorID, id string, patch applicationapimodels.ApplicationPatch) (applicationapimodels.ApplicationView, error)
	Delete(ctx context.Context, actorID, id string) error
	Reload(ctx context.Context) (count int, err error)
}

type AuditEmitter interface {
	Emit(ctx context.Context, rec applicationhistoryhandler.AuditRecord) error
}

var Instance Provider

func NewHandler() {
	repo := applicationrepository.NewInstance(
		applicationstore.NewInstance(db.DB),
		applicationentitystore.NewInstance(time.Now),
		time.Now,
	)
	Instance = NewInstance(
		repo,
		applicationapproval.NewInstance(repo, candidate.Instance, time.Now),
		applicationhistoryhandler.Instance,
		config.Conf.LockWait(),
		time.Now,
	)
}

func NewInstance(repo applicationrepository.Provider, approver applicationapproval.Provider, audit AuditEmitter, lockWait time.Duration, now func() time.Time) Provider {
	if now == nil {
		now = time.Now
	}
	if lockWait <= 0 {
		lockWait = 5 * time.Second
	}
	return impl{
		repo:     repo,
		approver: approver,
		audit:    audit,
		lockWait: lockWait,
		now:      now,
	}
}

type impl struct {
	repo     applicationrepository.Provider
	approver applicationapproval.Provider
	audit    AuditEmitter
	lockWait time.Duration
	now      func() time.Time
}

func (i impl) getLogger(actorID, id string) *log.Entry {
	logger := log.WithField("actor_id", actorID)
	if id != "" {
		logger = logger.WithField("application_id", id)
	}
	return logger
}

func (i impl) Create(ctx context.Context, actorID string, data applicationapimodels.ApplicationData) (applicationapimodels.ApplicationView, error) {
	if err := data.Validate(); err != nil {
		return applicationapimodels.ApplicationView{}, err
	}
	now := i.now()
	rec := dbmodels.Application{
		ID:          uuid.NewString(),
		JobID:       strings.TrimSpace(data.JobID),
		FirstName:   strings.TrimSpace(data.FirstName),
		LastName:    strings.TrimSpace(data.LastName),
		Email:       strings.TrimSpace(data.Email),
		Phone:       strings.TrimSpace(data.Phone),
		ResumeRef:   data.ResumeRef,
		CoverLetter: data.CoverLetter,
		Skills:      data.NormalizedSkills(),
		Source:      data.Source,
		Priority:    models.ApplicationPriorityNormal,
		Status:      models.ApplicationStatusPending,
		SubmittedAt: now,
		LastUpdated: now,
	}
	if rec.Source == "" {
		rec.Source = models.ApplicationSourceManual
	}
	saved, err := i.repo.Create(ctx, rec)
	if err != nil {
		i.getLogger(actorID, rec.ID).WithError(err).Error("ошибка создания заявки")
		return applicationapimodels.ApplicationView{}, err
	}
	i.getLogger(actorID, rec.ID).Info("заявка создана")
	return applicationapimodels.ApplicationConvert(saved), nil
}

func (i impl) Get(id string) (applicationapimodels.ApplicationView, error) {
	rec, err := i.repo.Get(id)
	if err != nil {
		return applicationapimodels.ApplicationView{}, err
	}
	return applicationapimodels.ApplicationConvert(rec), nil
}

func (i impl) List(filter applicationapimodels.ApplicationFilter) ([]applicationapimodels.ApplicationView, int64, error) {
	list := i.ListAll(filter)
	rowCount := int64(len(list))
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if offset >= len(list) {
		return []applicationapimodels.ApplicationView{}, rowCount, nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end], rowCount, nil
}

// ListAll - весь отфильтрованный список без пагинации, для выгрузки
func (i impl) ListAll(filter applicationapimodels.ApplicationFilter) []applicationapimodels.ApplicationView {
	list := i.repo.List(filter.ToDB().Match)
	result := make([]applicationapimodels.ApplicationView, 0, len(list))
	for _, rec := range list {
		result = append(result, applicationapimodels.ApplicationConvert(rec))
	}
	return result
}

func (i impl) Transition(ctx context.Context, actorID, id string, status models.ApplicationStatus, payload applicationtransition.Payload) (applicationapimodels.ApplicationView, error) {
	logger := i.getLogger(actorID, id).WithField("to_status", status)
	if _, err := applicationtransition.ParseStatus(string(status)); err != nil {
		logger.WithError(err).Warn("смена статуса заявки не выполнена")
		return applicationapimodels.ApplicationView{}, err
	}
	result, err := i.change(ctx, actorID, id, status, "", payload)
	if err != nil {
		logger.WithError(err).WithField("code", models.ErrorCode(err)).Warn("смена статуса заявки не выполнена")
		return applicationapimodels.ApplicationView{}, err
	}
	logger.WithField("status", result.Status).Info("статус заявки обновлен")
	return applicationapimodels.ApplicationConvert(result), nil
}

func (i impl) SetPriority(ctx context.Context, actorID, id string, priority models.ApplicationPriority) (applicationapimodels.ApplicationView, error) {
	if !priority.IsValid() {
		return applicationapimodels.ApplicationView{}, models.NewValidationError(models.ErrCodeInvalidPriority, "неизвестный приоритет "+string(priority))
	}
	result, err := i.change(ctx, actorID, id, "", priority, applicationtransition.Payload{})
	if err != nil {
		return applicationapimodels.ApplicationView{}, err
	}
	i.getLogger(actorID, id).WithField("priority", priority).Info("приоритет заявки изменен")
	return applicationapimodels.ApplicationConvert(result), nil
}

// Update меняет приоритет и статус одной записью: при ошибке проверки ничего не сохраняется
func (i impl) Update(ctx context.Context, actorID, id string, patch applicationapimodels.ApplicationPatch) (applicationapimodels.ApplicationView, error) {
	if patch.IsEmpty() {
		return applicationapimodels.ApplicationView{}, models.NewValidationError(models.ErrCodeInvalidApplicationData, "не указаны статус или приоритет")
	}
	if patch.Priority != "" && !patch.Priority.IsValid() {
		return applicationapimodels.ApplicationView{}, models.NewValidationError(models.ErrCodeInvalidPriority, "неизвестный приоритет "+string(patch.Priority))
	}
	if patch.Status != "" {
		if _, err := applicationtransition.ParseStatus(string(patch.Status)); err != nil {
			return applicationapimodels.ApplicationView{}, err
		}
	}
	logger := i.getLogger(actorID, id).
		WithField("to_status", patch.Status).
		WithField("priority", patch.Priority)
	result, err := i.change(ctx, actorID, id, patch.Status, patch.Priority, applicationtransition.Payload{
		RejectionReason: patch.RejectionReason,
		JobID:           patch.JobID,
		Notes:           patch.Notes,
	})
	if err != nil {
		logger.WithError(err).WithField("code", models.ErrorCode(err)).Warn("изменение заявки не выполнено")
		return applicationapimodels.ApplicationView{}, err
	}
	logger.WithField("status", result.Status).Info("заявка изменена")
	return applicationapimodels.ApplicationConvert(result), nil
}

// change под блокировкой заявки проверяет переход и сохраняет статус и приоритет одной записью.
// Пустой status - без смены статуса, пустой priority - без смены приоритета
func (i impl) change(ctx context.Context, actorID, id string, status models.ApplicationStatus, priority models.ApplicationPriority, payload applicationtransition.Payload) (dbmodels.Application, error) {
	var result dbmodels.Application
	err := i.withLock(ctx, id, func() error {
		rec, err := i.repo.Get(id)
		if err != nil {
			return err
		}
		fromStatus := rec.Status
		transition := false
		if status != "" {
			noop, err := applicationtransition.Validate(rec.Status, status, payload)
			if err != nil {
				return err
			}
			transition = !noop
		}
		priorityChanged := priority != "" && priority != rec.Priority
		if priorityChanged {
			rec.Priority = priority
		}

		var saved dbmodels.Application
		switch {
		case transition && status == models.ApplicationStatusApproved:
			saved, err = i.approver.Approve(ctx, actorID, rec, payload)
		case transition:
			saved, err = i.repo.Save(ctx, applicationtransition.Apply(rec, status, payload, actorID, i.now()))
		case priorityChanged:
			rec.LastUpdated = i.now()
			saved, err = i.repo.Save(ctx, rec)
		default:
			result = rec
			return nil
		}
		if err != nil {
			return err
		}
		result = saved
		if !transition {
			return nil
		}

		auditRec := applicationhistoryhandler.AuditRecord{
			ApplicationID: id,
			FromStatus:    fromStatus,
			ToStatus:      saved.Status,
			ActorID:       actorID,
			Timestamp:     saved.LastUpdated,
			Notes:         strings.TrimSpace(payload.Notes),
		}
		if saved.CandidateID != nil {
			auditRec.CandidateID = *saved.CandidateID
		}
		i.emitAudit(ctx, auditRec)
		return nil
	})
	return result, err
}

func (i impl) Delete(ctx context.Context, actorID, id string) error {
	err := i.withLock(ctx, id, func() error {
		return i.repo.Remove(ctx, id)
	})
	if err != nil {
		return err
	}
	i.getLogger(actorID, id).Info("заявка удалена")
	return nil
}

func (i impl) Reload(ctx context.Context) (int, error) {
	return i.repo.Reload(ctx)
}

func (i impl) withLock(ctx context.Context, id string, fn func() error) error {
	ok, err := lock.WithDelay(ctx, lock.ApplicationKey(id), i.lockWait, fn)
	if err != nil {
		return err
	}
	if !ok {
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), "операция с заявкой отменена")
		}
		return errors.Errorf("заявка %s занята другой операцией", id)
	}
	return nil
}

// emitAudit не возвращает ошибку: статус уже сохранен и не откатывается
func (i impl) emitAudit(ctx context.Context, rec applicationhistoryhandler.AuditRecord) {
	if i.audit == nil {
		return
	}
	err := i.audit.Emit(ctx, rec)
	if err == nil {
		return
	}
	logger := i.getLogger(rec.ActorID, rec.ApplicationID).
		WithField("code", models.ErrorCode(err))
	logger.WithError(err).Error("ошибка записи аудита смены статуса")
	botnotify.SendAuditFailure(rec.ApplicationID, rec.ActorID, err.Error(), logger)
}
