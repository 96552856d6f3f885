// Package applicationtransition описывает граф статусов заявки.
//
//	pending      ──► under_review, approved, rejected, withdrawn
//	under_review ──► approved, rejected, withdrawn
//	rejected     ──► under_review (повторное открытие)
//
// approved и withdrawn - конечные статусы.
package applicationtransition

import (
	"strings"
	"time"

	"ats-backend/models"
	dbmodels "ats-backend/models/db"
)

type Payload struct {
	RejectionReason string
	JobID           string
	Notes           string
}

var validTransitions = map[models.ApplicationStatus][]models.ApplicationStatus{
	models.ApplicationStatusPending: {
		models.ApplicationStatusUnderReview,
		models.ApplicationStatusApproved,
		models.ApplicationStatusRejected,
		models.ApplicationStatusWithdrawn,
	},
	models.ApplicationStatusUnderReview: {
		models.ApplicationStatusApproved,
		models.ApplicationStatusRejected,
		models.ApplicationStatusWithdrawn,
	},
	models.ApplicationStatusRejected: {
		models.ApplicationStatusUnderReview,
	},
	// approved и withdrawn без исходящих переходов
}

func ParseStatus(s string) (models.ApplicationStatus, error) {
	st := models.ApplicationStatus(s)
	for _, known := range models.ApplicationStatuses {
		if st == known {
			return st, nil
		}
	}
	return "", models.NewValidationError(models.ErrCodeUnknownStatus, "неизвестный статус заявки "+s)
}

func IsTerminal(s models.ApplicationStatus) bool {
	return s == models.ApplicationStatusApproved || s == models.ApplicationStatusWithdrawn
}

func IsTransitionAllowed(from, to models.ApplicationStatus) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Validate проверяет переход current -> requested.
// noop=true означает, что статус не меняется и запись трогать не нужно.
func Validate(current, requested models.ApplicationStatus, payload Payload) (noop bool, err error) {
	if _, err = ParseStatus(string(requested)); err != nil {
		return false, err
	}
	if IsTerminal(current) {
		return false, models.InvalidTransitionError{From: current, To: requested}
	}
	if current == requested {
		return true, nil
	}
	if !IsTransitionAllowed(current, requested) {
		return false, models.InvalidTransitionError{From: current, To: requested}
	}
	switch requested {
	case models.ApplicationStatusRejected:
		if strings.TrimSpace(payload.RejectionReason) == "" {
			return false, models.NewValidationError(models.ErrCodeMissingRejection, "не указана причина отказа")
		}
	case models.ApplicationStatusApproved:
		if strings.TrimSpace(payload.JobID) == "" {
			return false, models.NewValidationError(models.ErrCodeMissingJobAssignment, "не указана вакансия для кандидата")
		}
	}
	return false, nil
}

// Apply переводит копию заявки в новый статус и проставляет данные проверяющего.
// Вызывается только после успешного Validate с noop=false.
func Apply(rec dbmodels.Application, requested models.ApplicationStatus, payload Payload, actorID string, now time.Time) dbmodels.Application {
	result := rec.Clone()
	result.Status = requested
	result.ReviewedBy = &actorID
	reviewedAt := now
	result.ReviewedAt = &reviewedAt
	result.LastUpdated = now
	if notes := strings.TrimSpace(payload.Notes); notes != "" {
		result.ReviewNotes = &notes
	}
	if requested == models.ApplicationStatusRejected {
		reason := strings.TrimSpace(payload.RejectionReason)
		result.RejectionReason = &reason
	} else {
		result.RejectionReason = nil
	}
	return result
}
