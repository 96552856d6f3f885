package dbmodels

import (
	"strings"
	"time"

	"ats-backend/models"

	"github.com/lib/pq"
)

// Application - заявка соискателя до рассмотрения
type Application struct {
	ID              string                     `gorm:"primaryKey;type:varchar(36)"`
	JobID           string                     `gorm:"type:varchar(36);index"` // пусто - общая заявка без вакансии
	FirstName       string                     `gorm:"type:varchar(255)"`
	LastName        string                     `gorm:"type:varchar(255)"`
	Email           string                     `gorm:"type:varchar(255);index"`
	Phone           string                     `gorm:"type:varchar(255)"`
	ResumeRef       string                     `gorm:"type:varchar(512)"` // ключ файла резюме в S3
	CoverLetter     string
	Skills          pq.StringArray             `gorm:"type:text[]"`
	Source          models.ApplicationSource   `gorm:"type:varchar(50);index"`
	Priority        models.ApplicationPriority `gorm:"type:varchar(20)"`
	Status          models.ApplicationStatus   `gorm:"type:varchar(20);index"`
	ReviewedBy      *string                    `gorm:"type:varchar(36)"`
	ReviewedAt      *time.Time
	ReviewNotes     *string
	RejectionReason *string
	CandidateID     *string                    `gorm:"type:varchar(36)"` // заполняется только после одобрения
	SubmittedAt     time.Time                  `gorm:"index"`
	LastUpdated     time.Time
}

func (a Application) GetFullName() string {
	return strings.TrimSpace(strings.Join([]string{a.LastName, a.FirstName}, " "))
}

// Clone возвращает копию без общих указателей и слайсов
func (a Application) Clone() Application {
	result := a
	if a.Skills != nil {
		result.Skills = make(pq.StringArray, len(a.Skills))
		copy(result.Skills, a.Skills)
	}
	result.ReviewedBy = cloneStr(a.ReviewedBy)
	result.ReviewNotes = cloneStr(a.ReviewNotes)
	result.RejectionReason = cloneStr(a.RejectionReason)
	result.CandidateID = cloneStr(a.CandidateID)
	if a.ReviewedAt != nil {
		t := *a.ReviewedAt
		result.ReviewedAt = &t
	}
	return result
}

// HasCandidateLink - candidateId допустим только у одобренной заявки
func (a Application) HasCandidateLink() bool {
	return a.CandidateID != nil && *a.CandidateID != ""
}

type ApplicationFilter struct {
	Status models.ApplicationStatus
	JobID  string
	Source models.ApplicationSource
	Search string
}

func (f ApplicationFilter) Match(a Application) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.JobID != "" && a.JobID != f.JobID {
		return false
	}
	if f.Source != "" && a.Source != f.Source {
		return false
	}
	if f.Search != "" {
		search := strings.ToLower(f.Search)
		haystack := strings.ToLower(strings.Join([]string{a.LastName, a.FirstName, a.Email, a.Phone}, " "))
		if !strings.Contains(haystack, search) {
			return false
		}
	}
	return true
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
