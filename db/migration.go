package db

import (
	dbmodels "ats-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.Application{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Application")
	}
	if err := DB.AutoMigrate(&dbmodels.Candidate{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Candidate")
	}
	if err := DB.AutoMigrate(&dbmodels.ApplicationHistory{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ApplicationHistory")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
