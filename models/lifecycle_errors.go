package models

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	ErrCodeNotFound               = "not_found"
	ErrCodeInvalidTransition      = "invalid_transition"
	ErrCodeEmptySelection         = "empty_selection"
	ErrCodeConversionFailed       = "conversion_failed"
	ErrCodeAuditEmissionFailed    = "audit_emission_failed"
	ErrCodeInternal               = "internal"
	ErrCodeMissingRejection       = "missing_rejection_reason"
	ErrCodeMissingJobAssignment   = "missing_job_assignment"
	ErrCodeUnknownStatus          = "unknown_status"
	ErrCodeInvalidPriority        = "invalid_priority"
	ErrCodeUnknownOperation       = "unknown_operation"
	ErrCodeInvalidApplicationData = "invalid_application_data"
)

// NotFoundError - запись с указанным идентификатором отсутствует.
// Entity пустой для заявок
type NotFoundError struct {
	Entity string
	ID     string
}

func (e NotFoundError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("%s %s не найден", e.Entity, e.ID)
	}
	return fmt.Sprintf("заявка %s не найдена", e.ID)
}

func (e NotFoundError) Code() string { return ErrCodeNotFound }

// ValidationError - в запросе не хватает обязательного для перехода поля
type ValidationError struct {
	Reason  string
	Message string
}

func NewValidationError(reason, message string) ValidationError {
	return ValidationError{Reason: reason, Message: message}
}

func (e ValidationError) Error() string {
	if e.Message == "" {
		return "ValidationError: " + e.Reason
	}
	return fmt.Sprintf("ValidationError: %s (%s)", e.Reason, e.Message)
}

func (e ValidationError) Code() string { return e.Reason }

// InvalidTransitionError содержит пару статусов, для которой переход запрещен
type InvalidTransitionError struct {
	From ApplicationStatus
	To   ApplicationStatus
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("переход %s -> %s недопустим", e.From, e.To)
}

func (e InvalidTransitionError) Code() string { return ErrCodeInvalidTransition }

type EmptySelectionError struct{}

func (e EmptySelectionError) Error() string {
	return "не выбрано ни одной заявки"
}

func (e EmptySelectionError) Code() string { return ErrCodeEmptySelection }

// ConversionError - не удалось создать кандидата при одобрении, статус заявки не изменен
type ConversionError struct {
	ApplicationID string
	Err           error
}

func (e ConversionError) Error() string {
	return fmt.Sprintf("ошибка создания кандидата по заявке %s: %v", e.ApplicationID, e.Err)
}

func (e ConversionError) Unwrap() error { return e.Err }

func (e ConversionError) Code() string { return ErrCodeConversionFailed }

// AuditEmissionError не откатывает основную операцию, только логируется
type AuditEmissionError struct {
	ApplicationID string
	Err           error
}

func (e AuditEmissionError) Error() string {
	return fmt.Sprintf("ошибка записи аудита по заявке %s: %v", e.ApplicationID, e.Err)
}

func (e AuditEmissionError) Unwrap() error { return e.Err }

func (e AuditEmissionError) Code() string { return ErrCodeAuditEmissionFailed }

type coder interface {
	Code() string
}

// ErrorCode возвращает машинный код ошибки, для неизвестных ошибок - internal
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ErrCodeInternal
}

func IsNotFound(err error) bool {
	var e NotFoundError
	return errors.As(err, &e)
}
