package xlsexport

import (
	"bytes"
	"fmt"
	"strings"

	applicationapimodels "ats-backend/models/api/application"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportApplicationList(list []applicationapimodels.ApplicationView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var applicationHeaders = []string{"ФИО", "Контакты", "Вакансия", "Источник", "Навыки", "Дата подачи", "Приоритет", "Статус", "Причина отказа"}

func (i impl) ExportApplicationList(list []applicationapimodels.ApplicationView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Заявки"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, errors.Wrap(err, "ошибка переименования листа")
	}
	row, err := writeHeader(f, sheet, 0, applicationHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		_, err = writeApplicationData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	return f.WriteToBuffer()
}

func writeApplicationData(f *excelize.File, sheet string, list []applicationapimodels.ApplicationView, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(applicationHeaders), len(list)+1); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		values := []interface{}{
			item.FullName,
			fmt.Sprintf("%v\r%v", item.Phone, item.Email),
			item.JobID,
			string(item.Source),
			strings.Join(item.Skills, ", "),
			item.SubmittedAt.Format("02.01.2006"),
			string(item.Priority),
			string(item.Status),
			"",
		}
		if item.RejectionReason != nil {
			values[8] = *item.RejectionReason
		}
		for idx, value := range values {
			if err := writeColumn(f, sheet, idx+1, row, value); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}
