package pdfexport

import (
	"bytes"
	"fmt"
	"strings"

	applicationapimodels "ats-backend/models/api/application"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

type cardLine struct {
	Title string
	Value string
}

// GenerateApplicationCard формирует карточку заявки, fontDir - каталог со шрифтами Arial
func GenerateApplicationCard(fontDir string, view applicationapimodels.ApplicationView) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateApplicationCard panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", fontDir)
	pdf.AddPage()
	pdf.AddUTF8Font("Arial", "", "Arial.ttf")
	pdf.AddUTF8Font("Arial", "B", "Arial Bold.ttf")
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	pdf.SetFont("Arial", "B", 16)
	_, lineHt := pdf.GetFontSize()
	pdf.MultiCell(0, lineHt*1.5, view.FullName, "", "L", false)
	pdf.Ln(4)

	for _, line := range cardLines(view) {
		pdf.SetFont("Arial", "B", 11)
		_, lineHt = pdf.GetFontSize()
		pdf.CellFormat(50, lineHt*1.5, line.Title, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, lineHt*1.5, line.Value, "", "L", false)
	}
	if view.CoverLetter != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 11)
		pdf.MultiCell(0, lineHt*1.5, "Сопроводительное письмо", "", "L", false)
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, lineHt*1.5, view.CoverLetter, "", "L", false)
	}

	buf := new(bytes.Buffer)
	err = pdf.Output(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cardLines(view applicationapimodels.ApplicationView) []cardLine {
	lines := []cardLine{
		{"Статус", string(view.Status)},
		{"Приоритет", string(view.Priority)},
		{"Вакансия", view.JobID},
		{"Email", view.Email},
		{"Телефон", view.Phone},
		{"Источник", string(view.Source)},
		{"Навыки", strings.Join(view.Skills, ", ")},
		{"Дата подачи", view.SubmittedAt.Format("02.01.2006 15:04")},
	}
	if view.ReviewedAt != nil {
		reviewed := view.ReviewedAt.Format("02.01.2006 15:04")
		if view.ReviewedBy != nil {
			reviewed = fmt.Sprintf("%s (%s)", reviewed, *view.ReviewedBy)
		}
		lines = append(lines, cardLine{"Рассмотрена", reviewed})
	}
	if view.ReviewNotes != nil {
		lines = append(lines, cardLine{"Комментарий", *view.ReviewNotes})
	}
	if view.RejectionReason != nil {
		lines = append(lines, cardLine{"Причина отказа", *view.RejectionReason})
	}
	if view.CandidateID != nil {
		lines = append(lines, cardLine{"Кандидат", *view.CandidateID})
	}
	result := make([]cardLine, 0, len(lines))
	for _, line := range lines {
		if line.Value != "" {
			result = append(result, line)
		}
	}
	return result
}
