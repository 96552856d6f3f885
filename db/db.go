package db

import (
	"fmt"

	gorm_logrus "github.com/onrik/gorm-logrus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect открывает соединение с БД заявок и при необходимости запускает миграции.
// Повторный вызов при открытом соединении ничего не делает
func Connect(host string, port string, database string, user string, pass string, debugMode bool, migrate bool) error {
	if DB != nil {
		return nil
	}
	dbConnString := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable password=%s", host, port, user, database, pass)
	conn, err := gorm.Open(postgres.Open(dbConnString), &gorm.Config{
		Logger: gorm_logrus.New(),
	})
	if err != nil {
		return errors.Wrap(err, "Ошибка подключения к БД")
	}
	if debugMode {
		conn.Logger = logger.Default.LogMode(logger.Info)
		conn = conn.Debug()
	}
	DB = conn
	log.WithField("host", host).WithField("database", database).Info("Сервис успешно подключен к БД")

	if !migrate {
		return nil
	}
	if err = AutoMigrateDB(); err != nil {
		return errors.Wrap(err, "Ошибка миграции БД")
	}
	return nil
}
