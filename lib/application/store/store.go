package applicationstore

import (
	"context"
	"strings"

	"ats-backend/models"
	dbmodels "ats-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(ctx context.Context, rec dbmodels.Application) error
	Save(ctx context.Context, rec dbmodels.Application) error
	GetByID(ctx context.Context, id string) (*dbmodels.Application, error)
	List(ctx context.Context, filter dbmodels.ApplicationFilter) ([]dbmodels.Application, error)
	Delete(ctx context.Context, id string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(ctx context.Context, rec dbmodels.Application) error {
	return i.db.WithContext(ctx).
		Create(&rec).
		Error
}

func (i impl) Save(ctx context.Context, rec dbmodels.Application) error {
	tx := i.db.WithContext(ctx).
		Model(&rec).
		Select("*").
		Omit("id", "submitted_at").
		Updates(&rec)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return models.NotFoundError{ID: rec.ID}
	}
	return nil
}

func (i impl) GetByID(ctx context.Context, id string) (*dbmodels.Application, error) {
	rec := dbmodels.Application{}
	err := i.db.WithContext(ctx).
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) List(ctx context.Context, filter dbmodels.ApplicationFilter) (list []dbmodels.Application, err error) {
	list = []dbmodels.Application{}
	tx := i.db.WithContext(ctx).
		Model(dbmodels.Application{})
	i.addFilter(tx, filter)
	err = tx.Order("submitted_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Delete(ctx context.Context, id string) error {
	tx := i.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&dbmodels.Application{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return models.NotFoundError{ID: id}
	}
	return nil
}

func (i impl) addFilter(tx *gorm.DB, filter dbmodels.ApplicationFilter) {
	if filter.Status != "" {
		tx.Where("status = ?", filter.Status)
	}
	if filter.JobID != "" {
		tx.Where("job_id = ?", filter.JobID)
	}
	if filter.Source != "" {
		tx.Where("source = ?", filter.Source)
	}
	if filter.Search != "" {
		searchValue := "%" + strings.ToLower(filter.Search) + "%"
		tx.Where("LOWER(CONCAT(last_name,' ', first_name)) like ? or phone like ? or LOWER(email) like ?", searchValue, searchValue, searchValue)
	}
}
