package candidatestore

import (
	"context"

	dbmodels "ats-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(ctx context.Context, rec dbmodels.Candidate) (id string, err error)
	GetByID(ctx context.Context, id string) (*dbmodels.Candidate, error)
	List(ctx context.Context, jobID string) ([]dbmodels.Candidate, error)
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

func (i impl) Create(ctx context.Context, rec dbmodels.Candidate) (id string, err error) {
	err = i.db.WithContext(ctx).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(ctx context.Context, id string) (*dbmodels.Candidate, error) {
	rec := dbmodels.Candidate{}
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

func (i impl) List(ctx context.Context, jobID string) (list []dbmodels.Candidate, err error) {
	list = []dbmodels.Candidate{}
	tx := i.db.WithContext(ctx).Model(dbmodels.Candidate{})
	if jobID != "" {
		tx = tx.Where("job_id = ?", jobID)
	}
	err = tx.Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Delete(ctx context.Context, id string) error {
	return i.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&dbmodels.Candidate{}).
		Error
}
