package applicationapimodels

import (
	"net/mail"
	"strings"
	"time"

	"ats-backend/models"
	apimodels "ats-backend/models/api"
	dbmodels "ats-backend/models/db"
)

type ApplicationData struct {
	JobID       string                   `json:"jobId"`       // Идентификатор вакансии, пусто - общая заявка
	FirstName   string                   `json:"firstName"`   // Имя
	LastName    string                   `json:"lastName"`    // Фамилия
	Email       string                   `json:"email"`       // Емайл
	Phone       string                   `json:"phone"`       // Телефон
	ResumeRef   string                   `json:"resumeRef"`   // Ссылка на файл резюме
	CoverLetter string                   `json:"coverLetter"` // Сопроводительное письмо
	Skills      []string                 `json:"skills"`      // Навыки
	Source      models.ApplicationSource `json:"source"`      // Источник заявки
}

func (a ApplicationData) Validate() error {
	if strings.TrimSpace(a.FirstName) == "" || strings.TrimSpace(a.LastName) == "" {
		return models.NewValidationError(models.ErrCodeInvalidApplicationData, "не указаны имя и фамилия")
	}
	if a.Email != "" {
		if _, err := mail.ParseAddress(a.Email); err != nil {
			return models.NewValidationError(models.ErrCodeInvalidApplicationData, "некорректный email")
		}
	}
	if a.Source != "" && !a.Source.IsValid() {
		return models.NewValidationError(models.ErrCodeInvalidApplicationData, "неизвестный источник заявки")
	}
	return nil
}

// NormalizedSkills убирает пустые и повторяющиеся навыки, порядок сохраняется
func (a ApplicationData) NormalizedSkills() []string {
	result := make([]string, 0, len(a.Skills))
	seen := make(map[string]struct{}, len(a.Skills))
	for _, skill := range a.Skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, skill)
	}
	return result
}

type ApplicationView struct {
	ApplicationData
	ID              string                     `json:"id"`
	Priority        models.ApplicationPriority `json:"priority"`
	Status          models.ApplicationStatus   `json:"status"`
	ReviewedBy      *string                    `json:"reviewedBy"`
	ReviewedAt      *time.Time                 `json:"reviewedAt"`
	ReviewNotes     *string                    `json:"reviewNotes"`
	RejectionReason *string                    `json:"rejectionReason"`
	CandidateID     *string                    `json:"candidateId"`
	SubmittedAt     time.Time                  `json:"submittedAt"`
	LastUpdated     time.Time                  `json:"lastUpdated"`
	FullName        string                     `json:"fullName"`
}

func ApplicationConvert(rec dbmodels.Application) ApplicationView {
	skills := make([]string, len(rec.Skills))
	copy(skills, rec.Skills)
	return ApplicationView{
		ApplicationData: ApplicationData{
			JobID:       rec.JobID,
			FirstName:   rec.FirstName,
			LastName:    rec.LastName,
			Email:       rec.Email,
			Phone:       rec.Phone,
			ResumeRef:   rec.ResumeRef,
			CoverLetter: rec.CoverLetter,
			Skills:      skills,
			Source:      rec.Source,
		},
		ID:              rec.ID,
		Priority:        rec.Priority,
		Status:          rec.Status,
		ReviewedBy:      rec.ReviewedBy,
		ReviewedAt:      rec.ReviewedAt,
		ReviewNotes:     rec.ReviewNotes,
		RejectionReason: rec.RejectionReason,
		CandidateID:     rec.CandidateID,
		SubmittedAt:     rec.SubmittedAt,
		LastUpdated:     rec.LastUpdated,
		FullName:        rec.GetFullName(),
	}
}

type ApplicationFilter struct {
	apimodels.Pagination
	Status models.ApplicationStatus `json:"status" query:"status"` // Статус
	JobID  string                   `json:"jobId" query:"jobId"`   // Вакансия
	Source models.ApplicationSource `json:"source" query:"source"` // Источник
	Search string                   `json:"search" query:"search"` // Поиск по ФИО, телефону, email
}

func (f ApplicationFilter) ToDB() dbmodels.ApplicationFilter {
	return dbmodels.ApplicationFilter{
		Status: f.Status,
		JobID:  f.JobID,
		Source: f.Source,
		Search: strings.TrimSpace(f.Search),
	}
}

// ApplicationPatch - запрос на смену статуса и/или приоритета
type ApplicationPatch struct {
	Status          models.ApplicationStatus   `json:"status"`          // Новый статус
	RejectionReason string                     `json:"rejectionReason"` // Причина отказа, обязательна для rejected
	JobID           string                     `json:"jobId"`           // Вакансия для одобрения, обязательна для approved
	Notes           string                     `json:"notes"`           // Комментарий проверяющего
	Priority        models.ApplicationPriority `json:"priority"`        // Новый приоритет
}

func (p ApplicationPatch) IsEmpty() bool {
	return p.Status == "" && p.Priority == ""
}

type BulkRequest struct {
	Operation       models.BulkOperation       `json:"operation"`       // approve, reject, set_priority, delete
	ApplicationIDs  []string                   `json:"applicationIds"`  // Идентификаторы заявок
	RejectionReason string                     `json:"rejectionReason"` // Причина отказа для reject
	JobID           string                     `json:"jobId"`           // Вакансия для approve
	Priority        models.ApplicationPriority `json:"priority"`        // Приоритет для set_priority
	Notes           string                     `json:"notes"`           // Комментарий проверяющего
}

type BulkDeleteRequest struct {
	ApplicationIDs []string `json:"applicationIds"`
}

type ResumeLinkView struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type BulkItemFailure struct {
	ID     string `json:"id"`     // Идентификатор заявки
	Code   string `json:"code"`   // Машинный код ошибки
	Reason string `json:"reason"` // Описание ошибки
}

// BulkOperationResult - итог массовой операции, не сохраняется
type BulkOperationResult struct {
	Total     int               `json:"total"`
	Succeeded []string          `json:"succeeded"`
	Failed    []BulkItemFailure `json:"failed"`
}
