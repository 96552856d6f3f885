// Package applicationbulk применяет одну операцию к набору заявок.
// Ошибка по одной заявке не прерывает обработку остальных, заявки обрабатываются в порядке запроса.
package applicationbulk

import (
	"context"
	"strings"

	applicationtransition "ats-backend/lib/application/transition"
	"ats-backend/models"
	applicationapimodels "ats-backend/models/api/application"

	log "github.com/sirupsen/logrus"
)

type Lifecycle interface {
	Transition(ctx context.Context, actorID, id string, status models.ApplicationStatus, payload applicationtransition.Payload) (applicationapimodels.ApplicationView, error)
	SetPriority(ctx context.Context, actorID, id string, priority models.ApplicationPriority) (applicationapimodels.ApplicationView, error)
	Delete(ctx context.Context, actorID, id string) error
}

type Provider interface {
	Execute(ctx context.Context, actorID string, request applicationapimodels.BulkRequest) (applicationapimodels.BulkOperationResult, error)
}

var Instance Provider

func NewHandler(lifecycle Lifecycle) {
	Instance = NewInstance(lifecycle)
}

func NewInstance(lifecycle Lifecycle) Provider {
	return impl{
		lifecycle: lifecycle,
	}
}

type impl struct {
	lifecycle Lifecycle
}

func (i impl) Execute(ctx context.Context, actorID string, request applicationapimodels.BulkRequest) (applicationapimodels.BulkOperationResult, error) {
	if len(request.ApplicationIDs) == 0 {
		return applicationapimodels.BulkOperationResult{}, models.EmptySelectionError{}
	}
	apply, err := i.operation(actorID, request)
	if err != nil {
		return applicationapimodels.BulkOperationResult{}, err
	}

	logger := log.WithField("actor_id", actorID).
		WithField("operation", request.Operation)
	result := applicationapimodels.BulkOperationResult{
		Total:     len(request.ApplicationIDs),
		Succeeded: []string{},
		Failed:    []applicationapimodels.BulkItemFailure{},
	}
	for _, id := range request.ApplicationIDs {
		if err := apply(ctx, id); err != nil {
			logger.WithField("application_id", id).WithError(err).Warn("операция над заявкой не выполнена")
			result.Failed = append(result.Failed, applicationapimodels.BulkItemFailure{
				ID:     id,
				Code:   models.ErrorCode(err),
				Reason: err.Error(),
			})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	logger.WithField("total", result.Total).
		WithField("succeeded", len(result.Succeeded)).
		WithField("failed", len(result.Failed)).
		Info("массовая операция выполнена")
	return result, nil
}

func (i impl) operation(actorID string, request applicationapimodels.BulkRequest) (func(ctx context.Context, id string) error, error) {
	payload := applicationtransition.Payload{
		RejectionReason: request.RejectionReason,
		JobID:           request.JobID,
		Notes:           request.Notes,
	}
	switch models.BulkOperation(strings.TrimSpace(string(request.Operation))) {
	case models.BulkOperationApprove:
		return func(ctx context.Context, id string) error {
			_, err := i.lifecycle.Transition(ctx, actorID, id, models.ApplicationStatusApproved, payload)
			return err
		}, nil
	case models.BulkOperationReject:
		return func(ctx context.Context, id string) error {
			_, err := i.lifecycle.Transition(ctx, actorID, id, models.ApplicationStatusRejected, payload)
			return err
		}, nil
	case models.BulkOperationSetPriority:
		if !request.Priority.IsValid() {
			return nil, models.NewValidationError(models.ErrCodeInvalidPriority, "неизвестный приоритет "+string(request.Priority))
		}
		return func(ctx context.Context, id string) error {
			_, err := i.lifecycle.SetPriority(ctx, actorID, id, request.Priority)
			return err
		}, nil
	case models.BulkOperationDelete:
		return func(ctx context.Context, id string) error {
			return i.lifecycle.Delete(ctx, actorID, id)
		}, nil
	}
	return nil, models.NewValidationError(models.ErrCodeUnknownOperation, "неизвестная операция "+string(request.Operation))
}
