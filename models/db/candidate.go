package dbmodels

import (
	"ats-backend/models"

	"github.com/lib/pq"
)

// Candidate - участник воронки вакансии, создается при одобрении заявки
type Candidate struct {
	BaseModel
	JobID               string                 `gorm:"type:varchar(36);index"`
	FirstName           string                 `gorm:"type:varchar(255)"`
	LastName            string                 `gorm:"type:varchar(255)"`
	Email               string                 `gorm:"type:varchar(255)"`
	Phone               string                 `gorm:"type:varchar(255)"`
	Skills              pq.StringArray         `gorm:"type:text[]"`
	ResumeRef           string                 `gorm:"type:varchar(512)"`
	Status              models.CandidateStatus `gorm:"type:varchar(50)"`
	SourceApplicationID string                 `gorm:"type:varchar(36);index"`
}
