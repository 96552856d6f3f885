package applicationhistorystore

import (
	"context"

	dbmodels "ats-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(ctx context.Context, rec dbmodels.ApplicationHistory) (id string, err error)
	ListCount(ctx context.Context, applicationID string) (count int64, err error)
	List(ctx context.Context, applicationID string, page, limit int) (list []dbmodels.ApplicationHistory, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(ctx context.Context, rec dbmodels.ApplicationHistory) (id string, err error) {
	err = i.db.WithContext(ctx).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) ListCount(ctx context.Context, applicationID string) (count int64, err error) {
	var rowCount int64
	err = i.db.WithContext(ctx).
		Model(dbmodels.ApplicationHistory{}).
		Where("application_id = ?", applicationID).
		Count(&rowCount).
		Error
	if err != nil {
		log.WithError(err).Error("ошибка получения общего количества действий по заявке")
		return 0, errors.New("ошибка получения общего количества действий по заявке")
	}
	return rowCount, nil
}

func (i impl) List(ctx context.Context, applicationID string, page, limit int) (list []dbmodels.ApplicationHistory, err error) {
	list = []dbmodels.ApplicationHistory{}
	tx := i.db.WithContext(ctx).
		Model(dbmodels.ApplicationHistory{}).
		Where("application_id = ?", applicationID)
	i.setPage(tx, page, limit)
	tx.Order("created_at")
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) setPage(tx *gorm.DB, page, limit int) {
	offset := (page - 1) * limit
	tx.Limit(limit).Offset(offset)
}
