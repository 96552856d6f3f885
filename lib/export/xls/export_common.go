package xlsexport

import "github.com/xuri/excelize/v2"

const (
	fontFamily  = "Times New Roman"
	fontSize    = 11
	columnWidth = 25
)

func cellRange(colFrom, rowFrom, colTo, rowTo int) (string, string, error) {
	first, err := excelize.CoordinatesToCellName(colFrom, rowFrom)
	if err != nil {
		return "", "", err
	}
	last, err := excelize.CoordinatesToCellName(colTo, rowTo)
	if err != nil {
		return "", "", err
	}
	return first, last, nil
}

func writeColumn(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

// writeHeader пишет жирную строку заголовков, закрепляет ее и включает автофильтр по колонкам
func writeHeader(f *excelize.File, sheet string, row int, headers []string) (int, error) {
	row++
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Font:      &excelize.Font{Bold: true, Family: fontFamily, Size: fontSize},
	})
	if err != nil {
		return row, err
	}
	first, last, err := cellRange(1, row, len(headers), row)
	if err != nil {
		return row, err
	}
	if err = f.SetCellStyle(sheet, first, last, style); err != nil {
		return row, err
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return row, err
	}
	if err = f.SetColWidth(sheet, "A", lastCol, columnWidth); err != nil {
		return row, err
	}
	for idx, value := range headers {
		if err = writeColumn(f, sheet, idx+1, row, value); err != nil {
			return row, err
		}
	}
	if err = f.AutoFilter(sheet, first+":"+last, nil); err != nil {
		return row, err
	}
	topLeft, err := excelize.CoordinatesToCellName(1, row+1)
	if err != nil {
		return row, err
	}
	err = f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      row,
		TopLeftCell: topLeft,
		ActivePane:  "bottomLeft",
	})
	return row, err
}

// applyDataCellStyle - перенос строк нужен для колонки контактов (телефон и почта через \r)
func applyDataCellStyle(f *excelize.File, sheet string, colFrom, rowFrom, colTo, rowTo int) error {
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
		Font:      &excelize.Font{Family: fontFamily, Size: fontSize},
	})
	if err != nil {
		return err
	}
	first, last, err := cellRange(colFrom, rowFrom, colTo, rowTo)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}
