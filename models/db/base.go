package dbmodels

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel - общие поля кандидатов и записей истории. Идентификатор выдается в сервисе,
// поэтому расширение uuid-ossp в БД не требуется
type BaseModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *BaseModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
