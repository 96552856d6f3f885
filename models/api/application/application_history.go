package applicationapimodels

import (
	"time"

	"ats-backend/models"
	apimodels "ats-backend/models/api"
	dbmodels "ats-backend/models/db"
)

type ApplicationHistoryFilter struct {
	apimodels.Pagination
}

type ApplicationHistoryView struct {
	UserID     string                      `json:"userId"`     // Идентификатор сотрудника
	ActionType dbmodels.ActionType         `json:"actionType"` // Тип действия
	FromStatus models.ApplicationStatus    `json:"fromStatus"` // Статус до изменения
	ToStatus   models.ApplicationStatus    `json:"toStatus"`   // Статус после изменения
	Changes    dbmodels.ApplicationChanges `json:"changes"`    // Изменения
	CreatedAt  time.Time                   `json:"createdAt"`
}

func HistoryConvert(rec dbmodels.ApplicationHistory) ApplicationHistoryView {
	result := ApplicationHistoryView{
		ActionType: rec.ActionType,
		FromStatus: rec.FromStatus,
		ToStatus:   rec.ToStatus,
		Changes:    rec.Changes,
		CreatedAt:  rec.CreatedAt,
	}
	if rec.UserID != nil {
		result.UserID = *rec.UserID
	}
	return result
}
