package dbmodels

import (
	"database/sql/driver"
	"encoding/json"

	"ats-backend/models"

	"github.com/pkg/errors"
)

type ApplicationHistory struct {
	BaseModel
	ApplicationID string                   `gorm:"type:varchar(36);index"`
	UserID        *string                  `gorm:"type:varchar(36)"`
	ActionType    ActionType               `gorm:"type:varchar(255)"`
	FromStatus    models.ApplicationStatus `gorm:"type:varchar(20)"`
	ToStatus      models.ApplicationStatus `gorm:"type:varchar(20)"`
	Changes       ApplicationChanges       `gorm:"type:jsonb"`
}

func (j ApplicationChanges) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *ApplicationChanges) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.Errorf("неподдерживаемый тип для ApplicationChanges: %T", value)
	}
	return json.Unmarshal(raw, j)
}

type ApplicationChanges struct {
	Description string              `json:"description"` // Комментарий проверяющего
	Data        []ApplicationChange `json:"data"`        // Список изменений
}

type ApplicationChange struct {
	Field    string      `json:"field"`     // Измененное поле
	OldValue interface{} `json:"old_value"` // Старое значение
	NewValue interface{} `json:"new_value"` // Новое значение
}

type ActionType string

const (
	HistoryTypeStageChange ActionType = "stage_change" // Заявка переведена на рассмотрение
	HistoryTypeApprove     ActionType = "approve"      // Заявка одобрена, создан кандидат
	HistoryTypeReject      ActionType = "reject"       // Заявка отклонена
	HistoryTypeWithdraw    ActionType = "withdraw"     // Заявка отозвана
)

// ActionTypeFor подбирает тип действия по целевому статусу
func ActionTypeFor(to models.ApplicationStatus) ActionType {
	switch to {
	case models.ApplicationStatusApproved:
		return HistoryTypeApprove
	case models.ApplicationStatusRejected:
		return HistoryTypeReject
	case models.ApplicationStatusWithdrawn:
		return HistoryTypeWithdraw
	}
	return HistoryTypeStageChange
}
