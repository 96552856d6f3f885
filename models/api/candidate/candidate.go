package candidateapimodels

import (
	"strings"

	"ats-backend/models"
	dbmodels "ats-backend/models/db"
)

// CandidateData - входные данные коллаборатора создания кандидата
type CandidateData struct {
	JobID               string   `json:"jobId"`
	FirstName           string   `json:"firstName"`
	LastName            string   `json:"lastName"`
	Email               string   `json:"email"`
	Phone               string   `json:"phone"`
	Skills              []string `json:"skills"`
	ResumeRef           string   `json:"resumeRef"`
	SourceApplicationID string   `json:"sourceApplicationId"`
}

func (c CandidateData) Validate() error {
	if strings.TrimSpace(c.JobID) == "" {
		return models.NewValidationError(models.ErrCodeMissingJobAssignment, "не указана вакансия")
	}
	if strings.TrimSpace(c.FirstName) == "" && strings.TrimSpace(c.LastName) == "" {
		return models.NewValidationError(models.ErrCodeInvalidApplicationData, "не указаны имя и фамилия")
	}
	return nil
}

type CandidateView struct {
	CandidateData
	ID     string                 `json:"id"`
	Status models.CandidateStatus `json:"status"`
}

type CandidateCreated struct {
	CandidateID string `json:"candidateId"`
}

func CandidateConvert(rec dbmodels.Candidate) CandidateView {
	skills := make([]string, len(rec.Skills))
	copy(skills, rec.Skills)
	return CandidateView{
		CandidateData: CandidateData{
			JobID:               rec.JobID,
			FirstName:           rec.FirstName,
			LastName:            rec.LastName,
			Email:               rec.Email,
			Phone:               rec.Phone,
			Skills:              skills,
			ResumeRef:           rec.ResumeRef,
			SourceApplicationID: rec.SourceApplicationID,
		},
		ID:     rec.ID,
		Status: rec.Status,
	}
}
